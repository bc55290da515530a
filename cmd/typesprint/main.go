// Package main provides the CLI entrypoint for typesprint.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typesprint/internal/config"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/passage"
	"github.com/verte-zerg/typesprint/internal/scoring"
	"github.com/verte-zerg/typesprint/internal/stats"
	"github.com/verte-zerg/typesprint/internal/tui"
)

const (
	defaultASCIIQuotes = true
	summaryWindow      = 3
	debugEnv           = "TYPESPRINT_DEBUG"
)

type testFlags struct {
	passagesFile string
	asciiQuotes  bool
	seed         int64
	debug        bool
}

type scoreFlags struct {
	passage string
	input   string
	elapsed time.Duration
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &testFlags{}
	rootCmd := &cobra.Command{
		Use:           "typesprint",
		Short:         "60 second terminal typing test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTestCmd(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.passagesFile, "passages-file", "", "file with one passage per line (default: built-in set)")
	rootCmd.PersistentFlags().BoolVar(&flags.asciiQuotes, "ascii-quotes", defaultASCIIQuotes, "replace typographic quotes and dashes with ASCII")
	rootCmd.PersistentFlags().Int64Var(&flags.seed, "seed", 0, "random seed for passage selection (0: random)")
	rootCmd.Flags().BoolVar(&flags.debug, "debug", false, "write a debug log to "+config.DefaultLogPath())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPassagesCmd(flags))
	rootCmd.AddCommand(newScoreCmd())

	return rootCmd
}

func runTestCmd(cmd *cobra.Command, flags *testFlags) error {
	cfg, err := resolveConfig(cmd, flags, config.DefaultConfigPath())
	if err != nil {
		return err
	}
	src, err := buildSource(cfg)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("typesprint needs an interactive terminal")
	}

	closeLog, err := setupLogging(cfg.Debug || os.Getenv(debugEnv) != "")
	if err != nil {
		return err
	}
	defer closeLog()

	history := &stats.History{}
	program := tea.NewProgram(tui.NewModel(src, history), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if history.Len() == 0 {
		return nil
	}
	return stats.RenderSummary(cmd.OutOrStdout(), history.Results(), summaryWindow)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPassagesCmd(flags *testFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "passages",
		Short: "List the active passage set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags, config.DefaultConfigPath())
			if err != nil {
				return err
			}
			src, err := buildSource(cfg)
			if err != nil {
				return err
			}
			return listPassages(cmd.OutOrStdout(), src.Passages())
		},
	}
}

func listPassages(w io.Writer, passages []string) error {
	for i, p := range passages {
		if _, err := fmt.Fprintf(w, "%d. %s\n", i+1, p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newScoreCmd() *cobra.Command {
	flags := &scoreFlags{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score typed text against a passage without the TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.passage == "" {
				return fmt.Errorf("--passage must not be empty")
			}
			if flags.elapsed < 0 {
				return fmt.Errorf("--elapsed must be >= 0")
			}
			return renderScore(cmd.OutOrStdout(), flags.passage, flags.input, flags.elapsed)
		},
	}
	cmd.Flags().StringVar(&flags.passage, "passage", "", "passage text")
	cmd.Flags().StringVar(&flags.input, "input", "", "typed text")
	cmd.Flags().DurationVar(&flags.elapsed, "elapsed", model.TestDuration, "time spent typing")
	return cmd
}

func renderScore(w io.Writer, passageText, input string, elapsed time.Duration) error {
	target := []rune(passageText)
	typed := []rune(input)
	m := scoring.Score(target, typed, elapsed)
	lines := []string{
		fmt.Sprintf("WPM: %d", m.WPM),
		fmt.Sprintf("Accuracy: %d%%", m.Accuracy),
		fmt.Sprintf("Chars: %d", m.Typed),
		fmt.Sprintf("Errors: %d", m.Errors),
		fmt.Sprintf("Progress: %.0f%%", m.Progress),
		"Passage: " + passageText,
		"States:  " + stateLine(scoring.States(target, typed)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func stateLine(states []model.CharState) string {
	var b strings.Builder
	for _, st := range states {
		switch st {
		case model.CharCorrect:
			b.WriteByte('+')
		case model.CharIncorrect:
			b.WriteByte('x')
		case model.CharCurrent:
			b.WriteByte('^')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// resolveConfig merges the config file into flags the user did not set.
func resolveConfig(cmd *cobra.Command, flags *testFlags, path string) (model.Config, error) {
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "passages-file", &flags.passagesFile, fileCfg.Test.PassagesFile)
	applyConfig(cmd, "ascii-quotes", &flags.asciiQuotes, fileCfg.Test.ASCIIQuotes)
	applyConfig(cmd, "seed", &flags.seed, fileCfg.Test.Seed)
	applyConfig(cmd, "debug", &flags.debug, fileCfg.Test.Debug)
	return model.Config{
		PassagesFile: flags.passagesFile,
		ASCIIQuotes:  flags.asciiQuotes,
		Seed:         flags.seed,
		Debug:        flags.debug,
	}, nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
		return
	}
	*target = *value
}

func buildSource(cfg model.Config) (*passage.Source, error) {
	var opts []passage.Option
	if cfg.Seed != 0 {
		opts = append(opts, passage.WithSeed(cfg.Seed))
	}
	if cfg.ASCIIQuotes {
		opts = append(opts, passage.WithASCIIQuotes())
	}
	if cfg.PassagesFile == "" {
		return passage.Default(opts...), nil
	}
	passages, err := passage.LoadFile(cfg.PassagesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load passages: %w", err)
	}
	src, err := passage.New(passages, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load passages: %w", err)
	}
	return src, nil
}

func setupLogging(debug bool) (func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := tea.LogToFile(path, "typesprint")
	if err != nil {
		return nil, fmt.Errorf("failed to open debug log: %w", err)
	}
	logErrf("Writing debug log to %s\n", path)
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close debug log: %v\n", cerr)
		}
	}, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesprint configuration
# Uncomment a value to enable it. CLI flags override config values.
# The test always lasts %d seconds.

[test]
# passages-file = ""      # One passage per line; empty uses the built-in set
# ascii-quotes = %t     # Replace typographic quotes and dashes with ASCII
# seed = 0                # Random seed for passage selection (0: random)
# debug = false           # Write a debug log to %s
`,
		int(model.TestDuration/time.Second),
		defaultASCIIQuotes,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
