// Package main provides the CLI entrypoint for monkeylog.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/monkeylog/internal/config"
	"github.com/verte-zerg/monkeylog/internal/model"
	"github.com/verte-zerg/monkeylog/internal/opener"
	"github.com/verte-zerg/monkeylog/internal/render"
	"github.com/verte-zerg/monkeylog/internal/tally"
	"github.com/verte-zerg/monkeylog/internal/trace"
	"github.com/verte-zerg/monkeylog/internal/viewer"
)

const (
	defaultJobs   = 1
	defaultHeight = 10
)

var (
	verbose bool

	tallyChallenge int
	tallyJobs      int
	tallyStrict    bool
	tallyFormat    string

	traceExt    string
	traceWidth  int
	traceHeight int
	traceColor  bool
	traceOpen   string
	traceViewer string
)

// configPath is the TOML file read by tally and trace.
var configPath = config.DefaultConfigPath

// viewDocument shows a chart document in the built-in pager.
var viewDocument = func(_ context.Context, path string) error {
	pages, err := viewer.LoadPages(path)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if err := viewer.Run(path, pages); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "monkeylog",
		Short:         "Win tallies and session charts for monkey card-game logs",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogger(cmd.ErrOrStderr(), verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newTallyCmd())
	rootCmd.AddCommand(newTraceCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func newTallyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tally FILE...",
		Short: "Count per-player wins of one challenge across logs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTallyCmd,
	}
	cmd.Flags().IntVar(&tallyChallenge, "challenge", tally.DefaultChallenge, "challenge number to score")
	cmd.Flags().IntVar(&tallyJobs, "jobs", defaultJobs, "number of files read concurrently")
	cmd.Flags().BoolVar(&tallyStrict, "strict", false, "abort on the first unreadable file")
	cmd.Flags().StringVar(&tallyFormat, "format", render.FormatList, "output format (list or table)")
	return cmd
}

func runTallyCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "challenge", &tallyChallenge, fileCfg.Tally.Challenge)
	applyIntConfig(cmd, "jobs", &tallyJobs, fileCfg.Tally.Jobs)
	applyBoolConfig(cmd, "strict", &tallyStrict, fileCfg.Tally.Strict)
	applyStringConfig(cmd, "format", &tallyFormat, fileCfg.Tally.Format)

	cfg := model.TallyConfig{
		Challenge: tallyChallenge,
		Jobs:      tallyJobs,
		Strict:    tallyStrict,
		Format:    strings.ToLower(strings.TrimSpace(tallyFormat)),
	}
	if err := validateTallyConfig(cfg); err != nil {
		return err
	}

	report, err := tally.Run(cmd.Context(), args, tally.Options{
		Challenge: cfg.Challenge,
		Jobs:      cfg.Jobs,
		Strict:    cfg.Strict,
	})
	if err != nil {
		return err
	}
	for _, f := range report.Files {
		if f.Err != nil {
			logErrf(cmd.ErrOrStderr(), "warning: skipped %s: %v\n", f.Path, f.Err)
			continue
		}
		slog.Debug("scanned log", "path", f.Path, "winner", f.Winner, "high", f.HighScore, "decided", f.HasWinner)
	}

	if err := render.RenderTally(cmd.OutOrStdout(), report.Counts, cfg.Format); err != nil {
		return err
	}
	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d files could not be scanned", len(failed), len(report.Files))
	}
	return nil
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Chart one game session next to its log",
		Args:  cobra.ExactArgs(1),
		RunE:  runTraceCmd,
	}
	cmd.Flags().StringVar(&traceExt, "ext", render.DefaultExt, "extension of the chart document")
	cmd.Flags().IntVar(&traceWidth, "width", 0, "plot width in columns (0 = terminal width)")
	cmd.Flags().IntVar(&traceHeight, "height", defaultHeight, "plot height in rows")
	cmd.Flags().BoolVar(&traceColor, "color", false, "write ANSI colours even when not on a terminal")
	cmd.Flags().StringVar(&traceOpen, "open", opener.ModeNone, "open the document afterwards (none, system or view)")
	cmd.Flags().StringVar(&traceViewer, "viewer", "", "command used by --open system")
	return cmd
}

func runTraceCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "ext", &traceExt, fileCfg.Trace.Ext)
	applyIntConfig(cmd, "width", &traceWidth, fileCfg.Trace.Width)
	applyIntConfig(cmd, "height", &traceHeight, fileCfg.Trace.Height)
	applyBoolConfig(cmd, "color", &traceColor, fileCfg.Trace.Color)
	applyStringConfig(cmd, "open", &traceOpen, fileCfg.Trace.Open)
	applyStringConfig(cmd, "viewer", &traceViewer, fileCfg.Trace.Viewer)

	cfg := model.TraceConfig{
		Ext:    strings.TrimSpace(traceExt),
		Width:  traceWidth,
		Height: traceHeight,
		Color:  traceColor,
		Open:   strings.ToLower(strings.TrimSpace(traceOpen)),
		Viewer: traceViewer,
	}
	if err := validateTraceConfig(cfg); err != nil {
		return err
	}
	open, err := opener.ForMode(cfg.Open, cfg.Viewer, viewDocument)
	if err != nil {
		return err
	}

	logPath := args[0]
	outPath, err := render.DocumentPath(logPath, cfg.Ext)
	if err != nil {
		return err
	}
	sess, err := trace.ParseFile(logPath)
	if err != nil {
		return err
	}
	slog.Debug("parsed session", "path", logPath, "players", sess.NumPlayers(), "challenges", sess.ChallengeCount())

	opts := render.DocumentOptions{Width: cfg.Width, Height: cfg.Height, ForceColor: cfg.Color}
	if err := render.WriteDocument(outPath, sess, opts); err != nil {
		return err
	}
	logErrf(cmd.ErrOrStderr(), "Wrote %s\n", outPath)

	return open.Open(cmd.Context(), outPath)
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view DOCUMENT",
		Short: "Browse a chart document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return viewDocument(cmd.Context(), args[0])
		},
	}
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
	path := configPath()
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# monkeylog configuration
# Uncomment a value to enable it. MONKEYLOG_* environment variables override
# config values and CLI flags override both.

[tally]
# challenge = %d          # Challenge number to score
# jobs = %d               # Files read concurrently
# strict = false          # Abort on the first unreadable file
# format = %q         # Output format: list or table

[trace]
# ext = %q           # Extension of the chart document
# width = 0               # Plot width in columns (0 = terminal width)
# height = %d             # Plot height in rows
# color = false           # Force ANSI colours
# open = %q           # none, system or view
# viewer = "less -R"      # Command used when open = "system"
`,
		tally.DefaultChallenge,
		defaultJobs,
		render.FormatList,
		render.DefaultExt,
		defaultHeight,
		opener.ModeNone,
	)
}

func validateTallyConfig(cfg model.TallyConfig) error {
	if cfg.Challenge < 0 {
		return fmt.Errorf("--challenge must be >= 0")
	}
	if cfg.Jobs <= 0 {
		return fmt.Errorf("--jobs must be > 0")
	}
	switch cfg.Format {
	case render.FormatList, render.FormatTable:
	default:
		return fmt.Errorf("--format must be %s or %s", render.FormatList, render.FormatTable)
	}
	return nil
}

func validateTraceConfig(cfg model.TraceConfig) error {
	if cfg.Ext == "" || cfg.Ext == "." {
		return fmt.Errorf("--ext must not be empty")
	}
	if strings.ContainsAny(cfg.Ext, `/\`) {
		return fmt.Errorf("--ext must not contain path separators")
	}
	if cfg.Width < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	if cfg.Height < 2 {
		return fmt.Errorf("--height must be >= 2")
	}
	switch cfg.Open {
	case opener.ModeNone, opener.ModeSystem, opener.ModeView:
	default:
		return fmt.Errorf("--open must be %s, %s or %s", opener.ModeNone, opener.ModeSystem, opener.ModeView)
	}
	return nil
}

func logErrf(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
