package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/certshowcase/internal/client/admin"
	"github.com/dmitrijs2005/certshowcase/internal/client/api"
	"github.com/dmitrijs2005/certshowcase/internal/client/config"
	"github.com/dmitrijs2005/certshowcase/internal/client/session"
	"github.com/dmitrijs2005/certshowcase/internal/logging"
)

// ErrReported marks a failure the user has already been told about through
// a notification.
var ErrReported = errors.New("reported")

// Prompt seams, swapped in tests.
var (
	readLine      = ReadLine
	readSecret    = ReadSecret
	readParagraph = ReadParagraph
)

// App carries what every command needs once the configuration is known.
type App struct {
	config  *config.Config
	rawIn   io.Reader
	in      *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	logger  logging.Logger
	api     *api.Client
	gate    *session.Gate
	console *admin.Console
}

func newApp(in io.Reader, out, errOut io.Writer) *App {
	return &App{rawIn: in, in: bufio.NewReader(in), out: out, errOut: errOut, logger: logging.Nop{}}
}

// init wires the API client, the session gate and the admin console, and
// restores a session stored by an earlier run.
func (a *App) init(cfg *config.Config) error {
	logger, err := logging.New(logging.BackendSlog, "warn", a.errOut)
	if err != nil {
		return err
	}
	store := session.NewFileStore(cfg.SessionFile)

	a.config = cfg
	a.logger = logger
	a.api = api.New(cfg.ServerURL, api.WithTimeout(cfg.RequestTimeout), api.WithTokenStore(store))
	a.gate = session.NewGate(a.api, store, logger)
	a.console = admin.NewConsole(a.api, a.notify, logger)
	return a.gate.Restore()
}

func (a *App) notify(n admin.Notification) {
	fmt.Fprintf(a.out, "%s: %s\n", n.Title, n.Description)
}

// guard runs fn only for a signed-in user.
func (a *App) guard(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.gate.Require(); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

// NewRootCommand builds certcli reading from in and writing to out; logs go
// to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var flags config.Flags
	a := newApp(in, out, errOut)

	root := &cobra.Command{
		Use:           "certcli",
		Short:         "Browse and manage the certification showcase",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, &flags)
			if err != nil {
				return err
			}
			return a.init(cfg)
		},
	}
	config.BindFlags(root, &flags)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(
		a.browseCommand(),
		a.listCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.adminCommand(),
	)
	return root
}

// Execute runs certcli with args and returns the process exit code.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := NewRootCommand(in, out, errOut)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrReported) {
			fmt.Fprintln(errOut, "Error:", err)
		}
		return 1
	}
	return 0
}
