package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"problemtracker/internal/client/view"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
)

const shellPrompt = "tracker> "

var errQuit = stderrors.New("quit")

func newShellCommand(a func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a().runShell(cmd.Context())
		},
	}
}

// readlineReader prompts through readline and asks confirmations in place
// of the shell prompt.
type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) Readline() (string, error) {
	r.rl.SetPrompt(shellPrompt)
	return r.rl.Readline()
}

func (r *readlineReader) Ask(question string) (string, error) {
	r.rl.SetPrompt(question)
	defer r.rl.SetPrompt(shellPrompt)
	return r.rl.Readline()
}

func (r *readlineReader) Close() error {
	return r.rl.Close()
}

// plainReader echoes the prompt before each line, for piped input.
type plainReader struct {
	view.LineReader
	w io.Writer
}

func (r *plainReader) Readline() (string, error) {
	fmt.Fprint(r.w, shellPrompt)
	return r.LineReader.Readline()
}

func (r *plainReader) Ask(question string) (string, error) {
	fmt.Fprint(r.w, question)
	return r.LineReader.Readline()
}

func newShellReader(stdio IO) (view.LineReader, error) {
	if f, ok := stdio.In.(*os.File); ok && f == os.Stdin {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          shellPrompt,
			AutoComplete:    shellCompleter(),
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			Stdout:          stdio.Out,
			Stderr:          stdio.Err,
		})
		if err != nil {
			return nil, fmt.Errorf("start line editor failed: %w", err)
		}
		return &readlineReader{rl: rl}, nil
	}
	return &plainReader{LineReader: view.NewLineReader(stdio.In), w: stdio.Out}, nil
}

func shellCompleter() *readline.PrefixCompleter {
	fields := make([]readline.PrefixCompleterInterface, 0, len(view.Fields))
	for _, f := range view.Fields {
		fields = append(fields, readline.PcItem(f+"="))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("add", fields...),
		readline.PcItem("update"),
		readline.PcItem("open"),
		readline.PcItem("save"),
		readline.PcItem("close"),
		readline.PcItem("delete"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func (a *app) runShell(ctx context.Context) error {
	_ = a.board.Refresh(ctx)
	for {
		line, err := a.in.Readline()
		if stderrors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if err != nil {
			if stderrors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		err = a.execLine(ctx, line)
		if stderrors.Is(err, errQuit) {
			return nil
		}
		if err != nil && !IsReported(err) {
			fmt.Fprintf(a.io.Out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (a *app) execLine(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}
	args := tokens[1:]

	switch tokens[0] {
	case "exit", "quit":
		return errQuit
	case "help":
		a.printHelp()
		return nil
	case "list", "ls":
		return reported(a.board.Refresh(ctx))
	case "add":
		return a.shellAdd(ctx, args)
	case "open":
		if len(args) != 1 {
			return stderrors.New("usage: open <id|n>")
		}
		_, err := a.openItem(ctx, args[0])
		return reported(err)
	case "save":
		if len(args) > 1 {
			return stderrors.New("usage: save [status]")
		}
		if a.board.ActiveSession() == nil {
			return stderrors.New("nothing to save, use open <id|n> first")
		}
		if len(args) == 1 {
			a.dialog.SetStatus(args[0])
		}
		return reported(a.board.SaveUpdate(ctx))
	case "close":
		a.board.CloseUpdate()
		return nil
	case "update":
		if len(args) != 2 {
			return stderrors.New("usage: update <id|n> <status>")
		}
		if _, err := a.openItem(ctx, args[0]); err != nil {
			return reported(err)
		}
		a.dialog.SetStatus(args[1])
		return reported(a.board.SaveUpdate(ctx))
	case "delete", "rm":
		if len(args) != 1 {
			return stderrors.New("usage: delete <id|n>")
		}
		return reported(ignoreDeclined(a.deleteItem(ctx, args[0])))
	default:
		return fmt.Errorf("unknown command: %s (try help)", tokens[0])
	}
}

func (a *app) shellAdd(ctx context.Context, args []string) error {
	a.form.Reset()
	for _, token := range args {
		parts := strings.SplitN(token, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid param: %s", token)
		}
		if err := a.form.Set(parts[0], parts[1]); err != nil {
			return err
		}
	}
	return reported(a.board.Submit(ctx))
}

func (a *app) printHelp() {
	fmt.Fprint(a.io.Out, `commands:
  list                               show all problems
  add title=... difficulty=N [topic=... status=... deadline_date=YYYY-MM-DD]
  update <id|n> <status>             change a status in one step
  open <id|n>                        load a problem into the status editor
  save [status]                      save the status editor
  close                              discard the status editor
  delete <id|n>                      delete after confirmation
  exit
<n> is a row number from the last listing, used when no id matches.
`)
}
