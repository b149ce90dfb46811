package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/akyairhashvil/SPT/internal/api"
	"github.com/akyairhashvil/SPT/internal/config"
	"github.com/akyairhashvil/SPT/internal/database"
	"github.com/akyairhashvil/SPT/internal/models"
	"github.com/akyairhashvil/SPT/internal/practice"
	"github.com/akyairhashvil/SPT/internal/report"
	"github.com/akyairhashvil/SPT/internal/timer"
	"github.com/akyairhashvil/SPT/internal/topics"
	"github.com/akyairhashvil/SPT/internal/tui"
	"github.com/akyairhashvil/SPT/internal/util"
)

const usage = `usage: spt [command] [flags]

commands:
  (none)       run the practice timer (flags: -type -theme -minutes -seconds)
  serve        serve the JSON API (flags: -addr)
  report       write a PDF report of recent sessions (flags: -dir -limit)
  history      print recent sessions (flags: -limit)
  config init  write the default config file (flags: -force -path)
  version      print version information
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "spt: %v\n", err)
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cmd := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "":
		return runPractice(ctx, args, stdout)
	case "serve":
		return runServe(ctx, args)
	case "report":
		return runReport(ctx, args, stdout)
	case "history":
		return runHistory(ctx, args, stdout)
	case "config":
		return runConfig(args, stdout)
	case "version":
		fmt.Fprintf(stdout, "%s %s\n", config.AppName, tui.VersionLabel())
		return nil
	case "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

// practiceArgs are the flags of the default command.
type practiceArgs struct {
	speechType models.SpeechType
	theme      string
	minutes    *int
	seconds    *int
}

func parsePracticeArgs(args []string, settings config.Settings) (practiceArgs, error) {
	fs := flag.NewFlagSet("spt", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	typeFlag := fs.String("type", string(settings.SpeechType), "speech type: impromptu, prepared or evaluative")
	themeFlag := fs.String("theme", config.DefaultTheme, "topic theme for impromptu speeches")
	minutesFlag := fs.Int("minutes", -1, "custom duration minutes")
	secondsFlag := fs.Int("seconds", -1, "custom duration seconds")
	if err := fs.Parse(args); err != nil {
		return practiceArgs{}, err
	}
	if fs.NArg() > 0 {
		return practiceArgs{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	speechType, ok := models.ParseSpeechType(*typeFlag)
	if !ok {
		return practiceArgs{}, fmt.Errorf("invalid speech type %q", *typeFlag)
	}
	theme, ok := topics.Lookup(*themeFlag)
	if !ok {
		return practiceArgs{}, fmt.Errorf("%w: %q (available: %s)", topics.ErrUnknownTheme, *themeFlag, strings.Join(topics.ThemeIDs(), ", "))
	}

	out := practiceArgs{
		speechType: speechType,
		theme:      theme.ID,
		minutes:    settings.CustomMinutes,
		seconds:    settings.CustomSeconds,
	}
	// Each flag overrides only its own field; an unset one keeps the
	// configured or default value.
	if *minutesFlag >= 0 {
		out.minutes = util.Ptr(util.Clamp(*minutesFlag, 0, config.MaxMinutes))
	}
	if *secondsFlag >= 0 {
		out.seconds = util.Ptr(util.Clamp(*secondsFlag, 0, config.MaxSeconds))
	}
	return out, nil
}

func runPractice(ctx context.Context, args []string, stdout io.Writer) error {
	settings := loadSettings()
	pa, err := parsePracticeArgs(args, settings)
	if err != nil {
		return err
	}
	settings.SpeechType = pa.speechType
	settings.CustomMinutes, settings.CustomSeconds = pa.minutes, pa.seconds

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		logFile, err := util.OpenLogFile(settings.DataDir, config.LogFileName)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
		util.ConfigureLogging(util.LogConfig{Level: settings.LogLevel, Output: logFile})
	} else {
		util.ConfigureLogging(util.LogConfig{Level: settings.LogLevel})
	}

	db, err := openDatabase(ctx, settings)
	if err != nil {
		return err
	}
	defer db.Close()

	if interactive {
		return tui.Run(ctx, tui.Options{
			Store:    db,
			Settings: settings,
			Clock:    timer.SystemClock,
			Topics:   topics.NewProvider(time.Now().UnixNano()),
		})
	}

	var topic string
	if pa.speechType.NeedsTopic() {
		drawn, err := topics.Random(pa.theme, 1)
		if err != nil {
			return err
		}
		topic = drawn[0]
	}
	runner := practice.NewRunner(ctx, pa.speechType, practice.Options{
		Store:         db,
		Clock:         timer.SystemClock,
		CustomMinutes: pa.minutes,
		CustomSeconds: pa.seconds,
		Topic:         topic,
	})
	defer runner.Close()
	return tui.RunPlain(ctx, stdout, runner)
}

func runServe(ctx context.Context, args []string) error {
	settings := loadSettings()
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", settings.ListenAddr, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.ConfigureLogging(util.LogConfig{Level: settings.LogLevel})

	db, err := openDatabase(ctx, settings)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := api.New(api.Config{
		Store:        db,
		Topics:       topics.NewProvider(time.Now().UnixNano()),
		RequestLimit: config.APIRequestLimit,
		Window:       config.APIWindow,
	})
	return srv.ListenAndServe(ctx, *addr)
}

func runReport(ctx context.Context, args []string, stdout io.Writer) error {
	settings := loadSettings()
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	dir := fs.String("dir", util.ReportsDir(config.AppName), "output directory")
	limit := fs.Int("limit", 0, "number of recent sessions to include (0 for all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.ConfigureLogging(util.LogConfig{Level: settings.LogLevel})

	db, err := openDatabase(ctx, settings)
	if err != nil {
		return err
	}
	defer db.Close()

	data, err := report.Load(ctx, db, *limit, time.Now())
	if err != nil {
		return err
	}
	path, err := report.WriteFile(data, *dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "report written to %s\n", path)
	return nil
}

func runHistory(ctx context.Context, args []string, stdout io.Writer) error {
	settings := loadSettings()
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	limit := fs.Int("limit", config.HistoryPageSize, "number of sessions to print")
	if err := fs.Parse(args); err != nil {
		return err
	}
	util.ConfigureLogging(util.LogConfig{Level: settings.LogLevel})

	db, err := openDatabase(ctx, settings)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.ListSessions(ctx, *limit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(stdout, "no sessions recorded")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintln(stdout, formatHistoryLine(s))
	}
	return nil
}

func runConfig(args []string, stdout io.Writer) error {
	if len(args) == 0 || args[0] != "init" {
		return errors.New("usage: spt config init [-force] [-path file]")
	}
	fs := flag.NewFlagSet("config init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing config file")
	path := fs.String("path", "", "config file location")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	target := *path
	if target == "" {
		resolved, err := config.SettingsPath()
		if err != nil {
			return err
		}
		target = resolved
	}
	if _, err := os.Stat(target); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force to overwrite)", target)
	}
	if err := config.SaveSettings(target, config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s\n", target)
	return nil
}

func loadSettings() config.Settings {
	settings, err := config.LoadSettings("")
	util.LogError("load settings", err)
	return settings
}

func openDatabase(ctx context.Context, settings config.Settings) (*database.Database, error) {
	dir, err := util.EnsureDir(settings.DataDir)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := database.Open(ctx, filepath.Join(dir, config.DBFileName))
	if err != nil {
		return nil, err
	}
	if _, err := db.AbandonOpenSessions(ctx, time.Now()); err != nil {
		util.LogError("abandon open sessions", err)
	}
	return db, nil
}

func formatHistoryLine(s models.Session) string {
	topic := util.Deref(s.Topic)
	if topic == "" {
		topic = "-"
	}
	return fmt.Sprintf("%s  %-10s  %s/%s  %-11s  %s",
		s.StartedAt.Local().Format("2006-01-02 15:04"),
		s.SpeechType,
		tui.FormatSeconds(s.ElapsedSeconds),
		tui.FormatSeconds(s.PlannedSeconds),
		s.Outcome,
		topic,
	)
}
