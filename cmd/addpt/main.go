// addpt posts one point award to a running ouenpt server. Handy for manual
// entry and stream-deck style hotkeys.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8787", "ouenpt server base URL")
	name := flag.String("name", "", "supporter name")
	pt := flag.Int("pt", 0, "points to award (positive integer)")
	flag.Parse()

	if strings.TrimSpace(*name) == "" || *pt <= 0 {
		fmt.Fprintln(os.Stderr, "usage: addpt -name NAME -pt POINTS [-server URL]")
		os.Exit(2)
	}

	form := url.Values{}
	form.Set("name", *name)
	form.Set("pt", fmt.Sprintf("%d", *pt))

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(
		strings.TrimRight(*server, "/")+"/add",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "addpt: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "addpt: server said %d: %s\n", resp.StatusCode, strings.TrimSpace(string(body)))
		os.Exit(1)
	}
	fmt.Printf("%s\n", strings.TrimSpace(string(body)))
}
