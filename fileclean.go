package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebastienfr/fileclean/handler"
	"github.com/urfave/cli/v2"
)

var (
	// version will be set via ldflags during build (-X main.version=X.Y.Z)
	version = "dev"

	// buildTime will be set via ldflags during build (-X main.buildTime=...)
	buildTime = ""
)

const (
	// Default configuration values
	defaultSettingsPath = "clean_files"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"

	// Application metadata
	appName        = "fileclean"
	appUsage       = "remove empty, temporary and duplicated files, fix names and permissions"
	authorName     = "Sébastien FRIESS"
	copyrightOwner = "sebastienfr"

	// Flag names
	flagConfig           = "config"
	flagEmptyDel         = "empty-del"
	flagEmptyKeep        = "empty-keep"
	flagTempDel          = "temp-del"
	flagTempKeep         = "temp-keep"
	flagBadChange        = "bad-change"
	flagBadKeep          = "bad-keep"
	flagPermChange       = "perm-change"
	flagPermKeep         = "perm-keep"
	flagSameAction       = "same-action"
	flagMediaDates       = "media-dates"
	flagContinueOnError  = "continue-on-error"
	flagNoMove           = "no-move"
	flagCleanupEmptyDirs = "cleanup-empty-dirs"
	flagCleanupIgnore    = "cleanup-ignore"
	flagCleanupProtect   = "cleanup-protect"
	flagForce            = "force"
	flagLogLevel         = "log-level"
	flagLogFormat        = "log-format"
)

// setupLogger initializes the slog logger with the specified level and format,
// every record carries the run id
func setupLogger(logLevel, logFormat, runID string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		h = slog.NewJSONHandler(os.Stdout, opts)
	default:
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	if runID != "" {
		logger = logger.With("run", runID)
	}
	slog.SetDefault(logger)
}

// getBuildInfo returns version, build time and short git hash
func getBuildInfo() (string, string, string) {
	localBuildTime := buildTime
	if localBuildTime == "" {
		localBuildTime = time.Now().Format(time.RFC3339)
	}
	gitHash := "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, localBuildTime, gitHash
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			gitHash = setting.Value
			if len(gitHash) > 7 {
				gitHash = gitHash[:7]
			}
		case "vcs.modified":
			if setting.Value == "true" {
				gitHash += "-dirty"
			}
		}
	}

	return version, localBuildTime, gitHash
}

// parseList splits a comma-separated flag value
func parseList(value string) []string {
	if value == "" {
		return nil
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// buildConfig turns the command line into a run configuration
func buildConfig(c *cli.Context) (*handler.Config, error) {
	if c.NArg() < 1 {
		return nil, fmt.Errorf("a main directory is required")
	}
	args := c.Args().Slice()

	duplicate, err := handler.ParseDuplicateAction(c.String(flagSameAction))
	if err != nil {
		return nil, err
	}

	cfg := handler.DefaultConfig(args[0])
	cfg.CopyPaths = args[1:]
	cfg.SettingsPath = c.String(flagConfig)
	cfg.Policy = handler.PolicyFromFlags(
		c.Bool(flagEmptyDel), c.Bool(flagEmptyKeep),
		c.Bool(flagTempDel), c.Bool(flagTempKeep),
		c.Bool(flagBadChange), c.Bool(flagBadKeep),
		c.Bool(flagPermChange), c.Bool(flagPermKeep),
		duplicate,
	)
	cfg.UseMediaDates = c.Bool(flagMediaDates)
	cfg.ContinueOnError = c.Bool(flagContinueOnError)
	cfg.MoveToMain = !c.Bool(flagNoMove)
	cfg.CleanupEmptyDirs = c.Bool(flagCleanupEmptyDirs)
	cfg.CleanupIgnore = parseList(c.String(flagCleanupIgnore))
	cfg.CleanupProtect = parseList(c.String(flagCleanupProtect))
	cfg.Force = c.Bool(flagForce)
	cfg.LogLevel = c.String(flagLogLevel)
	cfg.LogFormat = c.String(flagLogFormat)

	return cfg, nil
}

func newApp() *cli.App {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"v"},
	}

	version, localBuildTime, gitHash := getBuildInfo()

	return &cli.App{
		Name:      appName,
		Usage:     appUsage,
		Version:   version + ", built on " + localBuildTime + ", git hash " + gitHash,
		ArgsUsage: "MAIN_DIR [COPY_DIR ...]",
		Description: `Cleans the main directory and every copy directory, then moves what is
   left in the copies into the main directory.

   Passes, in order: empty files, temporary files, duplicates, permissions, names.
   For each pass, without its --*-del/--*-change or --*-keep flag, you are asked per file.

   Duplicates (--same-action):
   - old:  remove the older file of each identical pair
   - new:  remove the newer file
   - none: keep both (alias: both)
   - ask:  ask for each pair (default)

   Examples:
      fileclean --empty-del --temp-del --same-action old X Y1 Y2
      fileclean --bad-change --perm-keep --config clean_files.yaml X`,
		Authors: []*cli.Author{
			{Name: authorName},
		},
		Copyright: copyrightOwner + " " + strconv.Itoa(time.Now().Year()),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Value:   defaultSettingsPath,
				Usage:   "Settings file (four line format, or YAML with .yaml/.yml extension)",
			},
			&cli.BoolFlag{Name: flagEmptyDel, Usage: "Remove empty files without asking"},
			&cli.BoolFlag{Name: flagEmptyKeep, Usage: "Keep empty files without asking"},
			&cli.BoolFlag{Name: flagTempDel, Usage: "Remove temporary files without asking"},
			&cli.BoolFlag{Name: flagTempKeep, Usage: "Keep temporary files without asking"},
			&cli.BoolFlag{Name: flagBadChange, Usage: "Rename files with bad characters without asking"},
			&cli.BoolFlag{Name: flagBadKeep, Usage: "Keep files with bad characters without asking"},
			&cli.BoolFlag{Name: flagPermChange, Usage: "Fix permissions without asking"},
			&cli.BoolFlag{Name: flagPermKeep, Usage: "Keep wrong permissions without asking"},
			&cli.StringFlag{
				Name:    flagSameAction,
				Aliases: []string{"s"},
				Usage:   "Duplicate action: old, new, none (both) or ask",
			},
			&cli.BoolFlag{
				Name:    flagMediaDates,
				Aliases: []string{"md"},
				Usage:   "Order duplicates by EXIF / video creation date when available",
			},
			&cli.BoolFlag{
				Name:    flagContinueOnError,
				Aliases: []string{"coe"},
				Usage:   "Continue processing even if a file operation fails",
			},
			&cli.BoolFlag{
				Name:  flagNoMove,
				Usage: "Do not move the remaining copy files into the main directory",
			},
			&cli.BoolFlag{
				Name:    flagCleanupEmptyDirs,
				Aliases: []string{"ced"},
				Usage:   "Remove directories left empty in the copies after the move",
			},
			&cli.StringFlag{
				Name:    flagCleanupIgnore,
				Aliases: []string{"ci"},
				Usage:   "Additional files to ignore when checking if directory is empty (comma-separated)",
			},
			&cli.StringFlag{
				Name:  flagCleanupProtect,
				Value: strings.Join(handler.DefaultProtectedDirs, ","),
				Usage: "Directory names never removed by the cleanup (comma-separated, empty to protect none)",
			},
			&cli.BoolFlag{
				Name:    flagForce,
				Aliases: []string{"f"},
				Usage:   "Skip confirmation prompts (cleanup)",
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Aliases: []string{"l"},
				Value:   defaultLogLevel,
				Usage:   "Set log level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    flagLogFormat,
				Aliases: []string{"lf"},
				Value:   defaultLogFormat,
				Usage:   "Set log format (text, json)",
			},
		},
		Action: func(c *cli.Context) error {
			setupLogger(c.String(flagLogLevel), c.String(flagLogFormat), uuid.NewString())

			cfg, err := buildConfig(c)
			if err != nil {
				return err
			}

			slog.Debug("configuration",
				"main", cfg.MainPath,
				"copies", cfg.CopyPaths,
				"settings", cfg.SettingsPath,
				"duplicate", cfg.Policy.Duplicate,
				"media_dates", cfg.UseMediaDates,
				"move_to_main", cfg.MoveToMain,
				"cleanup_empty_dirs", cfg.CleanupEmptyDirs)

			return handler.Clean(cfg)
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("runtime error", "error", err)
		os.Exit(1)
	}
}
