// Package cli wires the problem board to a terminal: one-shot cobra
// commands and an interactive shell.
package cli

import (
	"context"
	"io"
	"os"

	"problemtracker/internal/client/api"
	"problemtracker/internal/client/board"
	"problemtracker/internal/client/config"
	"problemtracker/internal/client/view"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IO is where the tracker reads input and writes output.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// app is one configured board with its terminal views.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	io       IO
	in       view.LineReader
	list     *view.ListView
	form     *view.FieldForm
	dialog   *view.Dialog
	prompter *view.Prompter
	board    *board.Board
}

func newApp(cfg config.Config, stdio IO, in view.LineReader) (*app, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	log := newLogger(stdio.Err, lvl)
	if in == nil {
		in = view.NewLineReader(stdio.In)
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		io:       stdio,
		in:       in,
		list:     view.NewListView(stdio.Out),
		form:     view.NewFieldForm(),
		dialog:   view.NewDialog(stdio.Out),
		prompter: view.NewPrompter(in, stdio.Out),
	}
	a.board, err = board.New(board.Deps{
		API:       api.New(cfg.BaseURL, cfg.Timeout),
		List:      a.list,
		Form:      a.form,
		Dialog:    a.dialog,
		Notifier:  a.prompter,
		Confirmer: a.prompter,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// openItem starts an update session for a list row or, failing that, an id.
func (a *app) openItem(ctx context.Context, ref string) (*board.UpdateSession, error) {
	if it, ok := a.list.Lookup(ref); ok {
		return it.Update(ctx)
	}
	return a.board.OpenUpdate(ctx, ref)
}

func (a *app) deleteItem(ctx context.Context, ref string) error {
	if it, ok := a.list.Lookup(ref); ok {
		return it.Delete(ctx)
	}
	return a.board.Delete(ctx, ref)
}

func newLogger(w io.Writer, lvl zapcore.Level) *zap.Logger {
	if w == nil {
		w = io.Discard
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core)
}
