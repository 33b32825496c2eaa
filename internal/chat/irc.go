// Package chat sends one-off messages to a Twitch channel over the IRC
// endpoint. Each Send is a full connect/authenticate/message/close cycle;
// the bot never holds a long-lived connection.
package chat

import (
	"bufio"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

const (
	serverAddr  = "irc.chat.twitch.tv:6697"
	dialTimeout = 3 * time.Second
	// How long to wait for the welcome line before sending anyway.
	welcomeWait = 1500 * time.Millisecond
	readSlice   = 300 * time.Millisecond
)

// ErrNotConfigured is returned when the bot credentials are absent.
var ErrNotConfigured = errors.New("chat not configured: missing nick, token, or channel")

// Config holds the bot identity. Values are normalized the way the IRC
// endpoint expects: lowercase nick/channel, token with the oauth: prefix.
type Config struct {
	Nick    string
	Token   string
	Channel string
}

// Client is a minimal one-shot IRC-over-TLS sender.
type Client struct {
	cfg  Config
	dial func() (net.Conn, error)
}

// Option configures a Client.
type Option func(*Client)

// WithDialer replaces the TLS dialer, for tests.
func WithDialer(dial func() (net.Conn, error)) Option {
	return func(c *Client) {
		c.dial = dial
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	cfg.Nick = strings.ToLower(strings.TrimSpace(cfg.Nick))
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Channel = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(cfg.Channel)), "#")
	if cfg.Token != "" && !strings.HasPrefix(cfg.Token, "oauth:") {
		cfg.Token = "oauth:" + cfg.Token
	}

	c := &Client{cfg: cfg}
	c.dial = func() (net.Conn, error) {
		host, _, _ := net.SplitHostPort(serverAddr)
		dialer := &net.Dialer{Timeout: dialTimeout}
		return tls.DialWithDialer(dialer, "tcp", serverAddr, &tls.Config{ServerName: host})
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if all credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Nick != "" && c.cfg.Token != "" && c.cfg.Channel != ""
}

// Send connects, authenticates, joins the channel, and posts message. The
// whole exchange is bounded by deadlines so a hung server cannot pin the
// caller. After a short wait for the server's welcome the message goes out
// regardless; the endpoint accepts PRIVMSG as soon as auth lands.
func (c *Client) Send(message string) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	conn, err := c.dial()
	if err != nil {
		return fmt.Errorf("dial chat server: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(dialTimeout + welcomeWait))

	if err := writeLine(conn, "PASS "+c.cfg.Token); err != nil {
		return err
	}
	if err := writeLine(conn, "NICK "+c.cfg.Nick); err != nil {
		return err
	}
	if err := writeLine(conn, "JOIN #"+c.cfg.Channel); err != nil {
		return err
	}

	c.awaitWelcome(conn)

	if err := writeLine(conn, "PRIVMSG #"+c.cfg.Channel+" :"+message); err != nil {
		return err
	}
	return nil
}

// awaitWelcome reads server lines until the 001 welcome (or JOIN echo)
// arrives or welcomeWait elapses, answering any PING along the way. Read
// errors just end the wait.
func (c *Client) awaitWelcome(conn net.Conn) {
	deadline := time.Now().Add(welcomeWait)
	r := bufio.NewReader(conn)

	for time.Now().Before(deadline) {
		conn.SetReadDeadline(time.Now().Add(readSlice))
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if rest, ok := strings.CutPrefix(line, "PING "); ok {
			writeLine(conn, "PONG "+rest)
			continue
		}
		if strings.Contains(line, " 001 ") || strings.Contains(line, "JOIN #"+c.cfg.Channel) {
			return
		}
	}
}

func writeLine(conn net.Conn, line string) error {
	if _, err := conn.Write([]byte(line + "\r\n")); err != nil {
		return fmt.Errorf("write %q: %w", strings.Fields(line)[0], err)
	}
	return nil
}
