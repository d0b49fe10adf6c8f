// Package main provides the CLI entrypoint for kovocab.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/kovocab/internal/config"
	"github.com/verte-zerg/kovocab/internal/lexicon"
	"github.com/verte-zerg/kovocab/internal/model"
	"github.com/verte-zerg/kovocab/internal/playback"
	"github.com/verte-zerg/kovocab/internal/rank"
	"github.com/verte-zerg/kovocab/internal/report"
	"github.com/verte-zerg/kovocab/internal/session"
	"github.com/verte-zerg/kovocab/internal/store"
	"github.com/verte-zerg/kovocab/internal/subtitle"
	"github.com/verte-zerg/kovocab/internal/tokenize"
	"github.com/verte-zerg/kovocab/internal/tui"
	"github.com/verte-zerg/kovocab/internal/wordfreq"
	"github.com/verte-zerg/kovocab/internal/wordlist"
)

const (
	defaultMinTier   = "A"
	defaultPollMs    = 100
	defaultFreqLimit = 10000
	freqLang         = "ko"
)

// glossFlags holds the flags shared by commands that resolve words.
type glossFlags struct {
	minTier     string
	pollMs      int
	exclude     []string
	excludeFile string
	cutoffs     []int
	cacheSize   int
	db          string

	dict        string
	inflections string
	freq        string
}

var (
	watchGloss glossFlags
	watchStart string

	annotateGloss     glossFlags
	annotateWidth     int
	annotateSkipEmpty bool

	lookupGloss glossFlags

	importDB          string
	importDict        string
	importInflections string
	importFreq        string

	freqDB    string
	freqLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kovocab",
		Short:         "Korean subtitle glosses in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newAnnotateCmd())
	rootCmd.AddCommand(newLookupCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func (f *glossFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.minTier, "min-tier", defaultMinTier, "lowest tier to display (A, B, C, D or unranked)")
	cmd.Flags().IntVar(&f.pollMs, "poll-ms", defaultPollMs, "playback polling interval in milliseconds")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "additional headwords to hide")
	cmd.Flags().StringVar(&f.excludeFile, "exclude-file", "", "file with one headword to hide per line")
	cmd.Flags().IntSliceVar(&f.cutoffs, "cutoffs", rank.DefaultCutoffs, "highest frequency rank of tiers A through D")
	cmd.Flags().IntVar(&f.cacheSize, "cache-size", lexicon.DefaultCacheSize, "resolver cache entries")
	cmd.Flags().StringVar(&f.db, "db", "", "lexicon database path (default: XDG data dir)")
	cmd.Flags().StringVar(&f.dict, "dict", "", "dictionary JSON file (bypasses the database)")
	cmd.Flags().StringVar(&f.inflections, "inflections", "", "inflection JSON file (bypasses the database)")
	cmd.Flags().StringVar(&f.freq, "freq", "", "frequency TSV file (bypasses the database)")
}

// resolve merges the config file into flags that were not set explicitly.
func (f *glossFlags) resolve(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "min-tier", &f.minTier, fileCfg.Display.MinTier)
	applyIntConfig(cmd, "poll-ms", &f.pollMs, fileCfg.Display.PollMs)
	applyStringSliceConfig(cmd, "exclude", &f.exclude, fileCfg.Display.Exclude)
	applyStringConfig(cmd, "exclude-file", &f.excludeFile, fileCfg.Display.ExcludeFile)
	applyIntSliceConfig(cmd, "cutoffs", &f.cutoffs, fileCfg.Rank.Cutoffs)
	applyIntConfig(cmd, "cache-size", &f.cacheSize, fileCfg.Lexicon.CacheSize)
	applyStringConfig(cmd, "db", &f.db, fileCfg.Lexicon.DB)

	tier, err := model.ParseTier(f.minTier)
	if err != nil {
		return model.Config{}, fmt.Errorf("invalid --min-tier: %w", err)
	}
	exclude := append([]string(nil), f.exclude...)
	if f.excludeFile != "" {
		words, err := wordlist.LoadWords(f.excludeFile)
		if err != nil {
			return model.Config{}, fmt.Errorf("failed to load exclude file: %w", err)
		}
		exclude = append(exclude, words...)
	}
	dbPath := f.db
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	cfg := model.Config{
		MinTier:     tier,
		PollMs:      f.pollMs,
		Exclude:     exclude,
		RankCutoffs: f.cutoffs,
		CacheSize:   f.cacheSize,
		DBPath:      dbPath,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// tables returns the table source: the files given on the command line, or
// the lexicon database otherwise.
func (f *glossFlags) tables(cfg model.Config) session.TableSource {
	if f.dict != "" || f.inflections != "" || f.freq != "" {
		return session.TablesFromFiles(f.dict, f.inflections, f.freq)
	}
	return func(ctx context.Context) (*lexicon.Tables, error) {
		return loadStoreTables(ctx, cfg.DBPath)
	}
}

func loadStoreTables(ctx context.Context, path string) (*lexicon.Tables, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no lexicon at %s (run: kovocab import --dict <file>)", path)
		}
		return nil, fmt.Errorf("failed to stat db: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	return st.LoadTables(ctx)
}

func loadSession(ctx context.Context, location string, flags *glossFlags, cfg model.Config) (session.Loaded, error) {
	loaded, err := session.Load(ctx, session.OpenSubtitles(location), flags.tables(cfg))
	if err != nil {
		return session.Loaded{}, err
	}
	for _, w := range loaded.Warnings {
		logErrf("warning: %v; showing no glosses\n", w)
	}
	return loaded, nil
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <subtitle file or URL>",
		Short: "Play subtitles against a local clock and show glosses of the active cue",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchCmd,
	}
	watchGloss.register(cmd)
	cmd.Flags().StringVar(&watchStart, "start", "", "start position (HH:MM:SS.mmm)")
	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("watch needs a terminal; use annotate for piped output")
	}
	cfg, err := watchGloss.resolve(cmd)
	if err != nil {
		return err
	}
	startAt, err := parseStart(watchStart)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	loaded, err := loadSession(ctx, args[0], &watchGloss, cfg)
	if err != nil {
		return err
	}
	blocks, dropped := subtitle.Segment(loaded.Subtitles)
	if len(blocks) == 0 {
		return session.ErrNoSubtitles
	}

	clock := playback.NewClock(blocks[len(blocks)-1].End)
	clock.Set(startAt)
	m := tui.NewModel(filepath.Base(args[0]), clock, blocks, dropped)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	sess, err := session.Start(ctx, loaded.Subtitles, loaded.Tables, clock, func(u session.Update) {
		program.Send(tui.UpdateMsg(u))
	}, session.Options{
		Interval: time.Duration(cfg.PollMs) * time.Millisecond,
		Config:   cfg,
	})
	if err != nil {
		return err
	}
	defer sess.Stop()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func parseStart(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	pos, err := subtitle.ParseTimestamp(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --start value: %w", err)
	}
	return pos, nil
}

func newAnnotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate <subtitle file or URL>",
		Short: "Print the glosses of every cue",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnnotateCmd,
	}
	annotateGloss.register(cmd)
	cmd.Flags().IntVar(&annotateWidth, "width", 0, "truncate lines to this width (default: terminal width)")
	cmd.Flags().BoolVar(&annotateSkipEmpty, "skip-empty", false, "omit cues without glosses")
	return cmd
}

func runAnnotateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := annotateGloss.resolve(cmd)
	if err != nil {
		return err
	}
	loaded, err := loadSession(cmd.Context(), args[0], &annotateGloss, cfg)
	if err != nil {
		return err
	}
	blocks, dropped := subtitle.Segment(loaded.Subtitles)
	if len(blocks) == 0 {
		return session.ErrNoSubtitles
	}

	pipeline := session.NewPipeline(loaded.Tables, cfg)
	r := report.Build(blocks, dropped, pipeline, annotateSkipEmpty)
	return writeLines(cmd, r.Lines(outputWidth(annotateWidth)))
}

// outputWidth returns the explicit width, or the terminal width when stdout
// is a terminal. Zero disables truncation.
func outputWidth(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <word>...",
		Short: "Resolve words against the lexicon",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLookupCmd,
	}
	lookupGloss.register(cmd)
	return cmd
}

func runLookupCmd(cmd *cobra.Command, args []string) error {
	cfg, err := lookupGloss.resolve(cmd)
	if err != nil {
		return err
	}
	tables, err := lookupGloss.tables(cfg)(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load dictionary tables: %w", err)
	}

	pipeline := session.NewPipeline(tables, cfg)
	var words []model.Word
	for _, token := range tokenize.Tokenize(strings.Join(args, " ")) {
		w, ok := pipeline.Resolve(token)
		if !ok {
			logErrf("no entry for %q\n", token)
			continue
		}
		words = append(words, w)
	}
	if len(words) == 0 {
		return fmt.Errorf("no words resolved")
	}
	return writeLines(cmd, report.WordRows(words, outputWidth(0)))
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import dictionary tables into the lexicon database",
		Args:  cobra.NoArgs,
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importDB, "db", "", "lexicon database path (default: XDG data dir)")
	cmd.Flags().StringVar(&importDict, "dict", "", "dictionary JSON file")
	cmd.Flags().StringVar(&importInflections, "inflections", "", "inflection JSON file")
	cmd.Flags().StringVar(&importFreq, "freq", "", "frequency TSV file")
	return cmd
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	if importDict == "" && importInflections == "" && importFreq == "" {
		return fmt.Errorf("nothing to import: pass --dict, --inflections or --freq")
	}
	tables, err := session.TablesFromFiles(importDict, importInflections, importFreq)(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read tables: %w", err)
	}

	st, err := openStore(cmd, importDB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	imported, err := st.ImportTables(cmd.Context(), tables)
	if err != nil {
		return fmt.Errorf("failed to import tables: %w", err)
	}
	total, err := st.Counts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	return writeLines(cmd, []string{
		fmt.Sprintf("imported %d entries, %d inflections, %d frequency rows", imported.Entries, imported.Inflections, imported.Frequency),
		fmt.Sprintf("lexicon now holds %d entries, %d inflections, %d frequency rows", total.Entries, total.Inflections, total.Frequency),
	})
}

// openStore opens the database named by the flag, the config file or the
// default path, in that order.
func openStore(cmd *cobra.Command, flagPath string) (*store.Store, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	path := flagPath
	applyStringConfig(cmd, "db", &path, fileCfg.Lexicon.DB)
	if path == "" {
		path = config.DefaultDBPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func newFreqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freq",
		Short: "Build the frequency table from the wordfreq dataset",
		Args:  cobra.NoArgs,
		RunE:  runFreqCmd,
	}
	cmd.Flags().StringVar(&freqDB, "db", "", "lexicon database path (default: XDG data dir)")
	cmd.Flags().IntVar(&freqLimit, "limit", defaultFreqLimit, "number of ranked words to import")
	return cmd
}

func runFreqCmd(cmd *cobra.Command, _ []string) error {
	if freqLimit <= 0 {
		return fmt.Errorf("--limit must be greater than 0")
	}
	ctx := cmd.Context()

	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(ctx, config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}

	logErrf("Extracting %s ranks...\n", freqLang)
	rows, err := wordfreq.ExtractRanks(wheel.Path, freqLang, freqLimit)
	if err != nil {
		return fmt.Errorf("failed to extract ranks: %w", err)
	}

	st, err := openStore(cmd, freqDB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	n, err := st.ImportFrequency(ctx, rows)
	if err != nil {
		return fmt.Errorf("failed to import ranks: %w", err)
	}
	return writeLines(cmd, []string{
		fmt.Sprintf("imported %d frequency rows", n),
		wordfreq.Attribution,
	})
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

func writeLines(cmd *cobra.Command, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
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

func applyStringSliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyIntSliceConfig(cmd *cobra.Command, name string, target *[]int, value []int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kovocab configuration
# Uncomment a value to enable it. CLI flags override config values.

[display]
# min-tier = %q          # Lowest tier to display: A, B, C, D or unranked
# poll-ms = %d            # Playback polling interval in milliseconds
# exclude = []             # Additional headwords to hide
# exclude-file = ""        # File with one headword to hide per line

[rank]
# cutoffs = %s  # Highest frequency rank of tiers A through D

[lexicon]
# db = %q
# cache-size = %d        # Resolver cache entries
`,
		defaultMinTier,
		defaultPollMs,
		formatInts(rank.DefaultCutoffs),
		config.DefaultDBPath(),
		lexicon.DefaultCacheSize,
	)
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func validateConfig(cfg model.Config) error {
	if cfg.PollMs <= 0 {
		return fmt.Errorf("--poll-ms must be > 0")
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("--cache-size must be >= 0")
	}
	if len(cfg.RankCutoffs) > int(model.TierD)+1 {
		return fmt.Errorf("--cutoffs takes at most %d values", int(model.TierD)+1)
	}
	prev := 0
	for _, c := range cfg.RankCutoffs {
		if c <= prev {
			return fmt.Errorf("--cutoffs must be positive and ascending")
		}
		prev = c
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
