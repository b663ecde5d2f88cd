package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/Abraxas-365/taskboard/pkg/board"
	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/fnx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/task"
	"github.com/Abraxas-365/taskboard/pkg/task/taskinfra"
	"github.com/spf13/cobra"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Edit an owner's checklists from the terminal",
	Long: `board loads the owner's tasks from the API and joins the realtime room.
Edits apply locally at once and each task is pushed to the API one second
after its last edit. Numbers on the prompt are the ones shown by "ls".`,
	Args: cobra.NoArgs,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringP("owner", "o", "", "board owner (overrides client.owner)")
	boardCmd.Flags().String("api", "", "task api base url (overrides client.api_url)")
	addClientFlags(boardCmd)
	rootCmd.AddCommand(boardCmd)
}

const boardHelp = `commands:
  ls                          show the board
  check <task> <list> <entry> toggle an entry
  add <task> <list> <text>    add an entry
  rm <task> <list> <entry>    remove an entry
  addlist <task> <title>      add a checklist
  rmlist <task> <list>        remove a checklist
  flush                       push pending edits now
  quit                        flush and leave
`

func runBoard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyClientFlags(cmd, cfg)
	if v, _ := cmd.Flags().GetString("owner"); v != "" {
		cfg.Client.Owner = v
	}
	if v, _ := cmd.Flags().GetString("api"); v != "" {
		cfg.Client.APIURL = v
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := dialRoom(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	out := &lockedWriter{w: cmd.OutOrStdout()}
	api := taskinfra.NewAPIClient(cfg.Client.APIURL, cfg.Client.RequestTimeout)
	session := board.NewSession(kernel.NewUserID(cfg.Client.Owner), client, api, api,
		board.WithSyncTimeout(cfg.Client.RequestTimeout),
		board.OnSyncError(func(err error) {
			fmt.Fprintf(out, "! %v\n", err)
		}),
		board.OnRemoteSync(func(rs board.RemoteSync) {
			fmt.Fprint(out, describeRemoteSync(rs))
		}),
	)
	if err := session.Start(ctx); err != nil {
		return err
	}

	repl := &boardREPL{session: session, out: out}
	repl.render()
	fmt.Fprint(out, "type \"help\" for commands\n")

	lines := readLines(cmd.InOrStdin())
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-client.Done():
			fmt.Fprintf(out, "! connection lost: %v\n", client.Err())
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			c, err := parseBoardCommand(line)
			if err != nil {
				fmt.Fprintf(out, "! %v\n", err)
				continue
			}
			if c.name == "quit" {
				break loop
			}
			repl.exec(ctx, c)
		}
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Client.RequestTimeout)
	defer cancel()
	return session.Close(closeCtx)
}

// boardCommand is one parsed prompt line. Indexes are zero-based.
type boardCommand struct {
	name string
	idx  []int
	text string
}

// boardArity is the number of indexes each command takes.
var boardArity = map[string]int{
	"ls":      0,
	"help":    0,
	"flush":   0,
	"quit":    0,
	"check":   3,
	"rm":      3,
	"add":     2,
	"rmlist":  2,
	"addlist": 1,
}

var positive = fnx.InRange(1, math.MaxInt32)

func parseBoardCommand(line string) (boardCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return boardCommand{}, nil
	}

	name := strings.ToLower(fields[0])
	if fnx.OneOf(name, "exit", "q") {
		name = "quit"
	}
	arity, ok := boardArity[name]
	if !ok {
		return boardCommand{}, errx.Validation("unknown command").WithDetail("command", name)
	}
	if len(fields)-1 < arity {
		return boardCommand{}, errx.Validation(fmt.Sprintf("%s needs %d numbers", name, arity)).
			WithDetail("command", name)
	}

	c := boardCommand{name: name, idx: make([]int, arity)}
	for i := range arity {
		n, err := strconv.Atoi(fields[1+i])
		if err != nil || !positive(n) {
			return boardCommand{}, errx.Validation("expected a number from the list").
				WithDetail("value", fields[1+i])
		}
		c.idx[i] = n - 1
	}

	rest := fields[1+arity:]
	takesText := fnx.OneOf(name, "add", "addlist")
	switch {
	case takesText && len(rest) == 0:
		return boardCommand{}, errx.Validation(name + " needs some text")
	case !takesText && len(rest) > 0:
		return boardCommand{}, errx.Validation("unexpected arguments").WithDetail("command", name)
	}
	c.text = strings.Join(rest, " ")
	return c, nil
}

type boardREPL struct {
	session *board.Session
	out     io.Writer
}

func (r *boardREPL) exec(ctx context.Context, c boardCommand) {
	var err error
	switch c.name {
	case "":
		return
	case "help":
		fmt.Fprint(r.out, boardHelp)
		return
	case "ls":
		r.render()
		return
	case "flush":
		err = r.session.Flush(ctx)
	case "check":
		err = r.session.CheckEntry(c.idx[0], c.idx[1], c.idx[2])
	case "rm":
		err = r.session.RemoveEntry(c.idx[0], c.idx[1], c.idx[2])
	case "add":
		err = r.session.AddEntry(c.idx[0], c.idx[1], c.text)
	case "rmlist":
		err = r.session.RemoveChecklist(c.idx[0], c.idx[1])
	case "addlist":
		err = r.session.AddChecklist(c.idx[0], c.text)
	}
	if err != nil {
		fmt.Fprintf(r.out, "! %v\n", err)
		return
	}
	r.render()
}

func (r *boardREPL) render() {
	fmt.Fprint(r.out, renderBoard(r.session.Board().Tasks(), r.session.Pending))
}

// renderBoard prints tasks with one-based numbers. A task whose sync is
// still waiting is marked with "*".
func renderBoard(tasks []task.Task, pending func(int) bool) string {
	if len(tasks) == 0 {
		return "(no tasks)\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		done, total := t.Progress()
		mark := ""
		if pending != nil && pending(i) {
			mark = " *"
		}
		fmt.Fprintf(&b, "%d. %s [%d/%d]%s\n", i+1, t.Title, done, total, mark)
		for j, l := range t.Checklists {
			fmt.Fprintf(&b, "   %d. %s\n", j+1, l.Title)
			for k, e := range l.Entries {
				box := "[ ]"
				if e.Checked {
					box = "[x]"
				}
				fmt.Fprintf(&b, "      %d. %s %s\n", k+1, box, e.Text)
			}
		}
	}
	return b.String()
}

// describeRemoteSync summarizes what another client changed in a task.
func describeRemoteSync(rs board.RemoteSync) string {
	text := make(map[string]string)
	for _, l := range rs.After.Checklists {
		for _, e := range l.Entries {
			text[e.ID] = e.Text
		}
	}
	name := func(id string) string { return fnx.Default(id)(text[id]) }

	checked, unchecked := task.CheckedChanges(rs.Before, rs.After)

	var b strings.Builder
	fmt.Fprintf(&b, "~ task %d (%s) updated by a peer\n", rs.Index+1, rs.After.Title)
	for _, id := range checked {
		fmt.Fprintf(&b, "  + %s\n", name(id))
	}
	for _, id := range unchecked {
		fmt.Fprintf(&b, "  - %s\n", name(id))
	}
	return b.String()
}
