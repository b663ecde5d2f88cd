package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/taskboard/pkg/chat"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Join the room's chat",
	Long: `chat joins the realtime room and prints messages from peers. Every
input line is sent as a chat message. "/history" prints the log and "/quit"
leaves.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	addClientFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyClientFlags(cmd, cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := dialRoom(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	out := &lockedWriter{w: cmd.OutOrStdout()}
	box := chat.NewBox(client, func(m chat.Message) {
		if !m.Mine() {
			printChatMessage(out, m)
		}
	})
	box.Attach()
	defer box.Detach()

	fmt.Fprintf(out, "joined %q\n", cfg.Client.Room)

	lines := readLines(cmd.InOrStdin())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-client.Done():
			return client.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "":
			case "/quit":
				return nil
			case "/history":
				for _, m := range box.Messages() {
					printChatMessage(out, m)
				}
			default:
				if err := box.Send(line); err != nil {
					fmt.Fprintf(out, "! %v\n", err)
				}
			}
		}
	}
}

func printChatMessage(w io.Writer, m chat.Message) {
	fmt.Fprintf(w, "%s %-4s %s\n", m.At.Format("15:04"), m.From, m.Text)
}
