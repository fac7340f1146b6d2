package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/lubecatalog/internal/client/client"
	"github.com/dmitrijs2005/lubecatalog/internal/client/config"
	"github.com/dmitrijs2005/lubecatalog/internal/editor"
	"github.com/dmitrijs2005/lubecatalog/internal/logging"
)

type App struct {
	config   *config.Config
	api      client.Client
	editor   *editor.Editor
	logger   logging.Logger
	userName string
	reader   *bufio.Reader

	outMu sync.Mutex
	out   io.Writer
}

func NewApp(c *config.Config, l logging.Logger) (*App, error) {

	apiClient, err := client.NewCatalogClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, l, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, l logging.Logger, in io.Reader, out io.Writer) *App {
	ed := editor.NewEditor(api,
		editor.WithAutoSaveDelay(c.AutoSaveDelay),
		editor.WithSaveTimeout(c.RequestTimeout),
		editor.WithLogger(l),
	)
	return &App{
		config: c,
		api:    api,
		editor: ed,
		logger: l,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run logs in, starts the state watcher and blocks in the REPL until the
// user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()
	defer a.editor.Close()

	a.println("Lubricants catalog editor (type 'help' for commands)")

	if err := a.Login(ctx); err != nil {
		a.println("Login failed:", err)
	}

	states, cancel := a.editor.Subscribe()
	defer cancel()
	go a.watchState(states)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

// withTimeout bounds one interactive request by the configured timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) println(args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
