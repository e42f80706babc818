package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"quickdo/internal/command"
	"quickdo/internal/config"
	"quickdo/internal/storage"
	"quickdo/internal/task"
	"quickdo/internal/ui"
	"quickdo/internal/voice"
)

// app carries the flags and collaborators shared by every subcommand.
type app struct {
	configPath string
	now        func() time.Time
}

// session is an opened store plus the dispatcher that mutates it.
type session struct {
	cfg        config.Config
	db         *storage.SQLite
	store      *task.Store
	dispatcher *command.Dispatcher
	logger     *log.Logger
}

func (s *session) Close() error {
	return s.db.Close()
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "Quick-add task tracker",
		Long: `todo keeps a personal task list in a local SQLite file.

Run without arguments to open the interactive view. Tasks can be typed in
natural form, e.g. "Buy milk high priority #shopping today".`,
		RunE:          a.runTUI,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $"+config.EnvConfigPath+" or the user config dir)")

	root.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.calendarCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.exportCmd(),
	)
	return root
}

// open loads the config, opens the database and loads the task list. A
// corrupt list is reported through logger and the session starts empty.
func (a *app) open(ctx context.Context, logOut io.Writer) (*session, error) {
	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	logger := log.New(logOut, "todo: ", 0)
	store := task.NewStore(db, cfg.StorageKey, task.WithLogger(logger), task.WithClock(a.now))
	if _, err := store.Load(ctx); err != nil {
		var lerr *task.LoadError
		if !errors.As(err, &lerr) {
			db.Close()
			return nil, err
		}
	}
	return &session{
		cfg:        cfg,
		db:         db,
		store:      store,
		dispatcher: command.NewDispatcher(store, command.WithLogger(logger), command.WithClock(a.now)),
		logger:     logger,
	}, nil
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	path := a.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logOut := io.Discard
	if cfg.LogPath != "" && cfg.LogPath != "-" {
		f, err := tea.LogToFile(cfg.LogPath, "todo")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	s, err := a.open(cmd.Context(), logOut)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := ui.Options{Logger: s.logger, Now: a.now}
	timeout := time.Duration(s.cfg.VoiceTimeoutSec) * time.Second
	if rec := voice.FromCommandLine(s.cfg.VoiceCommand, timeout); rec.Available() {
		opts.Voice = rec
	}
	if err := ui.Run(s.store, s.cfg, opts); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// report prints a dispatcher notification. Errors are returned so cobra
// exits non-zero; warnings go to stderr.
func report(cmd *cobra.Command, n command.Notification) error {
	switch n.Level {
	case command.LevelError:
		return errors.New(n.Message)
	case command.LevelWarning:
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", n.Message)
	case command.LevelSuccess:
		if n.Task != nil && n.Task.Title != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: #%s %s\n", n.Message, n.Task.ID, n.Task.Title)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), n.Message)
		}
	}
	return nil
}

func locale(cfg config.Config) language.Tag {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
