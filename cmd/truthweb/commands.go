package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/truthweb/internal/answers"
	"github.com/kingrea/truthweb/internal/catalog"
	"github.com/kingrea/truthweb/internal/config"
	"github.com/kingrea/truthweb/internal/logbook"
	"github.com/kingrea/truthweb/internal/survey"
	"github.com/kingrea/truthweb/internal/tui"
)

// cli carries the persistent flags shared by every command.
type cli struct {
	home string
}

// workspace is everything a command needs to open a survey session.
type workspace struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	store   *answers.FileStore
	log     *logbook.Logbook
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "truthweb",
		Short: "Answer agree/disagree questions and see where your answers contradict",
		Long: `truthweb asks a set of agree/disagree questions one at a time,
remembers your answers, and shows which of them contradict each other
as a web of connected statements.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         c.runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&c.home, "home", "", "directory holding config, answers and logs (default ./.truthweb or $TRUTHWEB_HOME)")

	rootCmd.AddCommand(
		c.setsCmd(),
		c.checkCmd(),
		c.answerCmd(),
		c.restartCmd(),
		c.webCmd(),
	)
	return rootCmd
}

func (c *cli) config() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	if c.home == "" {
		return config.NewConfig(cwd)
	}
	home := c.home
	if !filepath.IsAbs(home) {
		home = filepath.Join(cwd, home)
	}
	return config.NewConfigAt(cwd, filepath.Clean(home))
}

func (c *cli) open() (*workspace, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogPath())
	if err != nil {
		lb = nil
	}
	cat, err := catalog.Load(cfg.SetsDir())
	if err != nil {
		return nil, err
	}
	return &workspace{
		cfg:     cfg,
		catalog: cat,
		store:   answers.NewFileStore(cfg.DataDir(), answers.WithLogbook(lb)),
		log:     lb,
	}, nil
}

func (w *workspace) session(name string) (*survey.Session, error) {
	set, err := w.catalog.Get(name)
	if err != nil {
		return nil, err
	}
	return survey.Open(set, w.store, survey.WithLogbook(w.log))
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	app, err := tui.NewApp(cfg)
	if err != nil {
		return err
	}
	// tea.NewProgram creates a new bubbletea application; Run blocks until
	// the user quits.
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
