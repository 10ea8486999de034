package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/session"
	"github.com/syncup-music/syncup/internal/shared"
	"github.com/syncup-music/syncup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	store   *session.Store
	service *services.SyncUpService
	cache   tasks.SongCacher
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
	engine  *tasks.LibraryEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Store   *session.Store
	Service *services.SyncUpService
	Cache   tasks.SongCacher
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Store == nil {
		opts.Store = session.NewStore(nil)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	engine := tasks.NewLibraryEngine(opts.Service, opts.Service, opts.Service, opts.Cache)

	return &Runner{
		config:  opts.Config,
		store:   opts.Store,
		service: opts.Service,
		cache:   opts.Cache,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
		engine:  engine,
	}
}

// SetLogger swaps the runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// currentUser resolves the acting username: the --user flag when given,
// otherwise the subject of the active token.
func (r *Runner) currentUser(cmd *cli.Command) (string, error) {
	if username := cmd.String("user"); username != "" {
		return username, nil
	}

	identity := r.store.Identity()
	if identity.Empty() {
		return "", fmt.Errorf("%w: sign in first or pass --user", shared.ErrNotAuthenticated)
	}
	return identity.Username, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, songsCommand, favoritesCommand, socialCommand, profileCommand, adminCommand, cacheCommand, setupCommand, tuiCommand,
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

// writeSongList renders a numbered song listing.
func (r *Runner) writeSongList(songs []models.Song) {
	for i, song := range songs {
		line := fmt.Sprintf("%d. %s - %s", i+1, song.Artist, song.Title)
		if song.Genre != "" {
			line += fmt.Sprintf(" [%s]", song.Genre)
		}
		if song.Duration > 0 {
			line += fmt.Sprintf(" (%s)", shared.FormatDuration(int(song.Duration)))
		}
		r.writePlain("%s\n", line)
	}
}
