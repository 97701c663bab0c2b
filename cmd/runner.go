package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"distream/internal/api"
	"distream/internal/credentials"
	"distream/internal/guard"
	"distream/internal/services"
	"distream/internal/session"
	"distream/internal/shared"
	"distream/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      *credentials.Store
	client     *api.Client
	session    *session.Controller
	auth       *services.Auth
	movies     *services.Movies
	genres     *services.Genres
	actors     *services.Actors
	reviews    *services.Reviews
	history    *services.History
	engine     *tasks.CatalogEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      *credentials.Store
	Client     *api.Client
	Session    *session.Controller
	Auth       *services.Auth
	Movies     *services.Movies
	Genres     *services.Genres
	Actors     *services.Actors
	Reviews    *services.Reviews
	History    *services.History
	Engine     *tasks.CatalogEngine
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		store:      opts.Store,
		client:     opts.Client,
		session:    opts.Session,
		auth:       opts.Auth,
		movies:     opts.Movies,
		genres:     opts.Genres,
		actors:     opts.Actors,
		reviews:    opts.Reviews,
		history:    opts.History,
		engine:     opts.Engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the Runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, genresCommand, actorsCommand,
		historyCommand, plansCommand, adminCommand, apiCommand, cacheCommand,
		exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// requireAuthenticated enforces the authenticated-only guard before a
// command runs, translating a redirect decision into an error.
func (r *Runner) requireAuthenticated() error {
	decision := guard.Protected(r.session.Current())
	if decision.Action == guard.Redirect {
		return fmt.Errorf("%w: run 'distream auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

// requireAdmin enforces the admin-only guard before a command runs.
func (r *Runner) requireAdmin() error {
	decision := guard.Admin(r.session.Current())
	if decision.Action == guard.Redirect {
		if _, ok := r.session.User(); !ok {
			return fmt.Errorf("%w: run 'distream auth login' first", shared.ErrNotAuthenticated)
		}
		return fmt.Errorf("%w: admin role required", shared.ErrForbidden)
	}
	return nil
}

// requireGuest enforces the guest-only guard: commands like login and
// register refuse to run over an existing session.
func (r *Runner) requireGuest() error {
	decision := guard.Guest(r.session.Current())
	if decision.Action == guard.Redirect {
		user, _ := r.session.User()
		return fmt.Errorf("%w: already signed in as %s, run 'distream auth logout' first", shared.ErrInvalidInput, user.Email)
	}
	return nil
}
