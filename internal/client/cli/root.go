package cli

import (
	stderrors "errors"
	"time"

	"problemtracker/internal/client/board"
	"problemtracker/internal/client/config"
	"problemtracker/internal/client/view"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	logLevel   string
}

// NewRootCommand builds the tracker command tree.
func NewRootCommand(stdio IO) *cobra.Command {
	opts := &rootOptions{}
	var a *app

	root := &cobra.Command{
		Use:   "tracker",
		Short: "Track problems to solve against a problems backend",
		Long: `tracker lists, adds, updates and deletes problems on a problems
backend. Every change is followed by a fresh listing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			var in view.LineReader
			if cmd.Name() == "shell" {
				in, err = newShellReader(stdio)
				if err != nil {
					return err
				}
			}
			a, err = newApp(cfg, stdio, in)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a == nil {
				return
			}
			if c, ok := a.in.(interface{ Close() error }); ok {
				_ = c.Close()
			}
			_ = a.log.Sync()
		},
	}
	root.SetIn(stdio.In)
	root.SetOut(stdio.Out)
	root.SetErr(stdio.Err)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	pf.StringVar(&opts.baseURL, "base", "", "Override backend base URL")
	pf.DurationVar(&opts.timeout, "timeout", 0, "Override HTTP timeout (e.g. 10s)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	appFn := func() *app { return a }
	root.AddCommand(
		newListCommand(appFn),
		newAddCommand(appFn),
		newUpdateCommand(appFn),
		newDeleteCommand(appFn),
		newShellCommand(appFn),
	)
	return root
}

func (o *rootOptions) load(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("base") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	return cfg, cfg.Validate()
}

// reportedError is a failure the board has already shown to the user.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// IsReported tells whether err was already shown and only needs an exit code.
func IsReported(err error) bool {
	var r reportedError
	return stderrors.As(err, &r)
}

// declined deletes are a normal outcome, not a failure.
func ignoreDeclined(err error) error {
	if stderrors.Is(err, board.ErrDeleteDeclined) {
		return nil
	}
	return err
}
