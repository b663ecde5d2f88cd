package main

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/Abraxas-365/taskboard/pkg/config"
	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
	"github.com/spf13/cobra"
)

// addClientFlags registers the flags shared by the terminal clients.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("room", "", "realtime room (overrides client.room)")
	cmd.Flags().String("ws", "", "hub base url (overrides client.ws_url)")
}

func applyClientFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("room"); v != "" {
		cfg.Client.Room = v
	}
	if v, _ := cmd.Flags().GetString("ws"); v != "" {
		cfg.Client.WSURL = v
	}
}

// roomURL joins the hub base url and the escaped room name.
func roomURL(base, room string) string {
	room = fnx.Default("board")(strings.TrimSpace(room))
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(room)
}

func dialRoom(ctx context.Context, cfg *config.Config) (*realtime.Client, error) {
	target := roomURL(cfg.Client.WSURL, cfg.Client.Room)
	logx.WithField("url", target).Debug("dialing hub")

	return realtime.Dial(ctx, realtime.ClientConfig{
		URL:          target,
		PingInterval: cfg.Realtime.PingInterval,
		WriteTimeout: cfg.Realtime.WriteTimeout,
		ReadLimit:    cfg.Realtime.ReadLimit,
		DialAttempts: cfg.Realtime.DialAttempts,
		DialBackoff:  cfg.Realtime.DialBackoff,
	})
}

// readLines feeds trimmed input lines into a channel closed at EOF.
func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()
	return lines
}

// lockedWriter serializes output from the prompt and from event handlers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
