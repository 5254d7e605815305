package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pbaille/worktime/internal/api"
	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/ics"
	"github.com/pbaille/worktime/internal/source"
	"github.com/pbaille/worktime/internal/store"
	"github.com/pbaille/worktime/internal/timesheet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "worktime",
		Short:         "Hours per category from a calendar export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DatabasePath = dbPath
			}
			logger, err = newLogger(cfg.LogLevel, verbose)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(icsCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level string, debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = lvl
	}
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.DatabasePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.DatabasePath)
}

// window is the date range used for iCalendar inputs
type window struct {
	from string
	days int
}

func (w *window) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.from, "from", "", "first day for .ics inputs (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&w.days, "days", 7, "number of days for .ics inputs")
}

func (w *window) resolve(now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if w.from != "" {
		var err error
		from, err = time.ParseInLocation("2006-01-02", w.from, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from: %w", err)
		}
	}
	if w.days <= 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("--days must be positive")
	}
	return from, from.AddDate(0, 0, w.days), nil
}

func calcCmd() *cobra.Command {
	var (
		hours  float64
		out    string
		noSave bool
		win    window
	)

	cmd := &cobra.Command{
		Use:   "calc [file or url]",
		Short: "Calculate hours per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.TrimSpace(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "input file name is '%s'\n", input)

			available := cfg.AvailableHours
			switch {
			case cmd.Flags().Changed("hours"):
				available = hours
			case isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()):
				var err error
				available, err = promptHours(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.AvailableHours)
				if err != nil {
					return err
				}
			}

			from, to, err := win.resolve(time.Now())
			if err != nil {
				return err
			}
			reader := source.New(logger)
			reader.From, reader.To = from, to

			lines, err := reader.Read(input)
			if err != nil {
				return err
			}

			report, err := timesheet.Calculate(lines, cfg, available)
			if err != nil {
				return fmt.Errorf("calculate %s: %w", input, err)
			}
			logger.Debug("Calculated report",
				zap.String("input", input),
				zap.Int("days", len(report.Days)),
				zap.Float64("grand_total", report.GrandTotal))

			text := strings.Join(report.Lines(), "\n")
			if out == "" {
				out = outputPath(input)
			}
			if out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			} else {
				if err := os.WriteFile(out, []byte(text), 0644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "calculations written to %q\n", out)
			}

			if noSave {
				return nil
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := s.SaveRun(input, report)
			if err != nil {
				logger.Warn("Saving run failed", zap.Error(err))
				return nil
			}
			logger.Info("Saved run", zap.String("id", run.ID))
			return nil
		},
	}

	cmd.Flags().Float64Var(&hours, "hours", config.DefaultAvailableHours, "available hours (prompted when omitted on a terminal)")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output path ("-" for stdout, default calculated-<input>)`)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run in history")
	win.bind(cmd)
	return cmd
}

// promptHours asks for the available hours; an empty answer keeps def
func promptHours(in io.Reader, out io.Writer, def float64) (float64, error) {
	fmt.Fprintf(out, "available hours (default = %s):  ", timesheet.FormatHours(def))

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("read hours: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}

	hours, err := strconv.ParseFloat(answer, 64)
	if err != nil || hours <= 0 {
		return 0, fmt.Errorf("available hours must be a positive number, got %q", answer)
	}
	return hours, nil
}

// outputPath places the report next to the input as calculated-<name>
func outputPath(input string) string {
	if source.IsURL(input) {
		name := filepath.Base(strings.TrimRight(input, "/"))
		if i := strings.IndexAny(name, "?#"); i >= 0 {
			name = name[:i]
		}
		return "calculated-" + name
	}
	return filepath.Join(filepath.Dir(input), "calculated-"+filepath.Base(input))
}

func icsCmd() *cobra.Command {
	var win window

	cmd := &cobra.Command{
		Use:   "ics [file]",
		Short: "Print calendar events as tag and description lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := win.resolve(time.Now())
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open calendar: %w", err)
			}
			defer f.Close()

			lines, err := ics.Lines(f, from, to, time.Local)
			if err != nil {
				return err
			}

			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	win.bind(cmd)
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.ListRuns(limit, 0)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No calculations yet. Use 'worktime calc' to create one.")
				return nil
			}

			for _, r := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n",
					r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(r.Source, 30), r.Report.Total)
			}

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of calculations to show")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			run, err := s.FindRun(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ID:      %s\n", run.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Fprintf(cmd.OutOrStdout(), "Source:  %s\n\n", run.Source)
			for _, line := range run.Report.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}

			return nil
		},
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			// Note: don't defer s.Close() as server runs indefinitely

			server := api.New(s, cfg, addr, logger)
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}
