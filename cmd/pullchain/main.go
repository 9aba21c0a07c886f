package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/mikanfactory/pullchain/internal/catalog"
	"github.com/mikanfactory/pullchain/internal/config"
	"github.com/mikanfactory/pullchain/internal/engine"
	"github.com/mikanfactory/pullchain/internal/git"
	"github.com/mikanfactory/pullchain/internal/model"
	"github.com/mikanfactory/pullchain/internal/tui"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// options are the flags shared by every command.
type options struct {
	configPath string
	dir        string
	noFetch    bool
	verbose    bool
}

// session is what every command needs once flags are resolved.
type session struct {
	cfg    model.Config
	repo   string
	runner git.CommandRunner
	logger *log.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options

	rootCmd := &cobra.Command{
		Use:          "pullchain",
		Short:        "Pull and push branch pairs in order",
		Long:         "Pick pairs of (checkout, pull-from) branches in a grid, then check out, pull, cross-pull and push each pair in order, stopping at the first failure.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, stdin, stdout)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&opts.dir, "directory", "C", ".", "repository to operate on")
	rootCmd.PersistentFlags().BoolVar(&opts.noFetch, "no-fetch", false, "skip fetching remotes before listing branches")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log git commands to stderr")

	branchesCmd := &cobra.Command{
		Use:   "branches",
		Short: "List the branches offered for selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts, stderr)
			if err != nil {
				return err
			}
			cat, err := s.catalog(!opts.noFetch)
			if err != nil {
				return err
			}
			if cat.IsPlaceholder() {
				return nil
			}
			for _, name := range cat.Names() {
				fmt.Fprintln(stdout, name)
			}
			return nil
		},
	}

	var pairs []string
	syncCmd := &cobra.Command{
		Use:   "sync --pair CHECKOUT:PULL [--pair CHECKOUT:PULL ...]",
		Short: "Sync branch pairs without the interactive grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(pairs) == 0 {
				return errors.New("at least one --pair is required")
			}
			s, err := newSession(opts, stderr)
			if err != nil {
				return err
			}
			cat, err := s.catalog(!opts.noFetch)
			if err != nil {
				return err
			}
			rows, err := parsePairs(pairs, cat, s.cfg.MaxRows)
			if err != nil {
				return err
			}

			outcome := s.engine().Run(rows, cat)
			if !outcome.Completed() {
				if opts.verbose {
					for _, line := range outcome.Abort.Output {
						fmt.Fprintln(stderr, line)
					}
				}
				return outcome.Abort
			}
			fmt.Fprintln(stdout, "Sync complete.")
			return nil
		},
	}
	syncCmd.Flags().StringArrayVar(&pairs, "pair", nil, "branch pair as CHECKOUT:PULL, repeatable, run in order")

	rootCmd.AddCommand(branchesCmd, syncCmd)
	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newSession(opts options, stderr io.Writer) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	repo, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving repository path: %w", err)
	}

	var logger *log.Logger
	if opts.verbose {
		logger = log.New(stderr, "", 0)
	}

	return &session{
		cfg:    cfg,
		repo:   repo,
		runner: git.OSCommandRunner{Logger: logger},
		logger: logger,
	}, nil
}

func (s *session) catalog(fetch bool) (catalog.Catalog, error) {
	names, err := git.DiscoverBranches(s.runner, s.repo, s.cfg.Remote, fetch && s.cfg.ShouldFetch())
	if err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.New(names, s.cfg.MaxBranches), nil
}

func (s *session) engine() *engine.Engine {
	eng := engine.NewEngine(
		git.StageRunner{Runner: s.runner, RepoPath: s.repo, Remote: s.cfg.Remote},
		engine.Options{Remote: s.cfg.Remote, ConflictMarker: s.cfg.ConflictMarker},
	)
	eng.SetLogger(s.logger)
	return eng
}

// parsePairs turns CHECKOUT:PULL arguments into rows. Every name must be in
// the catalog; nothing is run when one is not.
func parsePairs(pairs []string, cat catalog.Catalog, maxRows int) ([]model.Row, error) {
	if len(pairs) > maxRows {
		return nil, fmt.Errorf("%d pairs given, at most %d allowed", len(pairs), maxRows)
	}
	if cat.IsPlaceholder() {
		return nil, errors.New("no branches found")
	}

	rows := make([]model.Row, 0, len(pairs))
	for _, pair := range pairs {
		checkout, pull, ok := strings.Cut(pair, ":")
		if !ok || checkout == "" || pull == "" {
			return nil, fmt.Errorf("invalid pair %q: want CHECKOUT:PULL", pair)
		}

		co := cat.Index(checkout)
		if co < 0 {
			return nil, fmt.Errorf("unknown branch %q", checkout)
		}
		pl := cat.Index(pull)
		if pl < 0 {
			return nil, fmt.Errorf("unknown branch %q", pull)
		}
		rows = append(rows, model.Row{CheckoutIndex: co, PullIndex: pl})
	}
	return rows, nil
}

func runTUI(opts options, stdin io.Reader, stdout io.Writer) error {
	s, err := newSession(opts, io.Discard)
	if err != nil {
		return err
	}

	logger, closeLog := setupDebugLog(s.cfg.DebugLog)
	defer closeLog()
	s.logger = logger
	s.runner = git.OSCommandRunner{Logger: logger}

	cat, err := s.catalog(!opts.noFetch)
	if err != nil {
		return err
	}

	zone.NewGlobal()

	p := tea.NewProgram(
		tui.NewModel(s.cfg, cat, s.engine()),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithInput(stdin),
		tea.WithOutput(stdout),
	)
	final, err := p.Run()
	if err != nil {
		return err
	}

	if m, ok := final.(tui.Model); ok {
		if outcome, ran := m.Outcome(); ran && outcome.Completed() {
			fmt.Fprintln(stdout, "Sync complete.")
		}
	}
	return nil
}

// setupDebugLog opens the debug log for appending. Logging is disabled
// when the file cannot be opened.
func setupDebugLog(path string) (*log.Logger, func()) {
	if path == "" {
		return nil, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, func() {}
	}
	return log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds), func() { f.Close() }
}
