// Package notify arms the delayed chat announcement for each award. The
// delay exists because the published ranking pages take a while to become
// visible; announcing immediately would link people to a stale page.
package notify

import (
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers one formatted chat message.
type Sender interface {
	Send(message string) error
}

// Notifier schedules one-shot, fire-and-forget announcements. There is no
// retry, no cancellation, and no persisted queue: a notification armed
// before a crash is simply lost.
type Notifier struct {
	sender   Sender
	graphURL string
	delay    time.Duration
	after    func(d time.Duration, f func())
	logger   *slog.Logger
}

func New(sender Sender, graphURL string, delay time.Duration, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:   sender,
		graphURL: graphURL,
		delay:    delay,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		logger:   logger,
	}
}

// Schedule arms the announcement for one award and returns immediately. The
// closure captures only the formatted message; it holds no lock and touches
// no shared state while waiting.
func (n *Notifier) Schedule(name string, points int) {
	msg := fmt.Sprintf("%s さんから %d ptの感謝！！  ランキングはこちらから %s", name, points, n.graphURL)

	n.after(n.delay, func() {
		if err := n.sender.Send(msg); err != nil {
			n.logger.Warn("chat notification failed", "name", name, "pt", points, "error", err)
			return
		}
		n.logger.Info("chat notification sent", "name", name, "pt", points)
	})
}
