package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/repositories"
	"github.com/desertthunder/tubelist/internal/services"
	"github.com/desertthunder/tubelist/internal/shared"
	"github.com/desertthunder/tubelist/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	fixed      bool // config supplied by the caller, flags do not reload it
	ownClient  bool // httpClient was built here and follows client.timeout
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	opener     func(string) error

	remote   *services.RemoteService
	searcher services.Searcher

	db       *sql.DB
	sessions *repositories.SessionRepository
	history  *repositories.SearchHistoryRepository
	library  *tasks.Library
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Searcher   services.Searcher  // built from youtube config when nil
	Opener     func(string) error // defaults to [shared.OpenBrowser]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	fixed := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	ownClient := opts.HTTPClient == nil
	if ownClient {
		opts.HTTPClient = &http.Client{}
	}
	if opts.Opener == nil {
		opts.Opener = shared.OpenBrowser
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		fixed:      fixed,
		ownClient:  ownClient,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		opener:     opts.Opener,
		searcher:   opts.Searcher,
	}
	r.setConfig(opts.Config)
	return r
}

func (r *Runner) setConfig(config *shared.Config) {
	r.config = config
	if r.ownClient {
		r.httpClient.Timeout = config.Client.RequestTimeout()
	}
	r.remote = services.NewRemoteService(config.Client.ServerURL, r.httpClient)
	r.library = nil
}

// SetLogger replaces the logger. The TUI uses it to move logs into a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.library = nil
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "tubelist",
		Usage:   "Curate YouTube playlists from the terminal, online or offline",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Sources: cli.EnvVars(shared.ConfigEnv),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Before:   r.Before,
		After:    r.After,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, playlistsCommand, searchCommand,
		uploadCommand, exportCommand, openCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and applies the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.fixed {
		path := shared.ResolveConfigPath(cmd.String("config"))
		r.configPath = path

		if _, err := os.Stat(path); err == nil {
			config, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			r.setConfig(config)
		} else {
			r.logger.Debug("config file not found, using defaults", "path", path)
		}
	}

	level := r.config.Log.Level
	if flag := cmd.String("log-level"); flag != "" {
		level = flag
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return ctx, err
	}

	if r.config.Log.File != "" {
		fileLogger, err := shared.NewFileLogger(r.config.Log.File)
		if err != nil {
			return ctx, err
		}
		fileLogger.SetLevel(r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}
	return ctx, nil
}

// After closes the cache database.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db, r.library = nil, nil
	return err
}

// open lazily opens the cache database and builds the repositories and library on top of it.
func (r *Runner) open() error {
	if r.db == nil {
		db, err := shared.OpenCache(r.config)
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		r.db = db
	}

	if r.library == nil {
		cache := repositories.NewLocalCache(repositories.NewPlaylistCacheRepository(r.db), r.logger)
		sync := tasks.NewCoordinator(cache, r.remote, r.logger)
		r.library = tasks.NewLibrary(sync, r.remote, r.remote.BaseURL())
		r.sessions = repositories.NewSessionRepository(r.db)
		r.history = repositories.NewSearchHistoryRepository(r.db)
	}
	return nil
}

// session returns the signed-in user, opening the cache if needed.
func (r *Runner) session() (models.Session, error) {
	if err := r.open(); err != nil {
		return models.Session{}, err
	}

	s, err := r.sessions.Current()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return models.Session{}, fmt.Errorf("%w: run 'tubelist auth login' first", shared.ErrNotAuthenticated)
	}
	return s, err
}

// search returns the configured search client, building it on first use.
func (r *Runner) search(ctx context.Context) (services.Searcher, error) {
	if r.searcher != nil {
		return r.searcher, nil
	}

	svc, err := services.NewYouTubeService(ctx, r.config.YouTube, option.WithHTTPClient(r.httpClient))
	if err != nil {
		return nil, err
	}
	r.searcher = svc
	return svc, nil
}

// findPlaylist resolves ref as a playlist id, falling back to a unique case-insensitive name.
func findPlaylist(playlists []models.Playlist, ref string) (models.Playlist, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist", shared.ErrMissingArgument)
	}

	var matches []models.Playlist
	for _, p := range playlists {
		if p.ID == ref {
			return p, nil
		}
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Playlist{}, fmt.Errorf("%w: %d playlists are named %q, use the id", shared.ErrInvalidArgument, len(matches), ref)
	}
}

// reportResult prints the outcome of a library mutation.
func (r *Runner) reportResult(action string, res tasks.Result) error {
	switch {
	case !res.Changed:
		return r.writePlain("Nothing changed.\n")
	case !res.Synced:
		r.logger.Warn("change saved locally only", "action", action)
		return r.writePlain("✓ %s (saved locally, server unreachable)\n", action)
	default:
		return r.writePlain("✓ %s\n", action)
	}
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
