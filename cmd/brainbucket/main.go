package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kmkohl117-gif/brainbucket-android/internal/config"
	"github.com/kmkohl117-gif/brainbucket-android/internal/db"
	"github.com/kmkohl117-gif/brainbucket-android/internal/logger"
	"github.com/kmkohl117-gif/brainbucket-android/internal/mcp"
	"github.com/kmkohl117-gif/brainbucket-android/internal/store"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"add": true, "show": true, "list": true, "edit": true,
	"star": true, "complete": true, "move": true, "delete": true,
	"search": true, "bucket": true, "folder": true, "template": true,
	"view": true, "export": true, "import": true, "serve": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if f is a terminal (not piped).
func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   ___          _       ___           _       _
  | _ )_ _ __ _(_)_ _  | _ )_  _ __ _| |_____| |_
  | _ \ '_/ _' | | ' \ | _ \ || / _| / / -_)  _|
  |___/_| \__,_|_|_||_||___/\_,_\__|_\_\___|\__|

  Capture now, sort later.

  Usage: brainbucket <command> [options]
         brainbucket --help

  MCP server mode requires piped input.`)
}

// newLogger builds the process logger. CLI commands other than serve stay quiet
// below warn so JSON on stdout is the only output.
func newLogger(cfg *config.Config, cliMode bool) *slog.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if cliMode && !isServe() && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	return logger.New(logger.Config{
		Writer:  os.Stderr,
		Format:  cfg.LogFormat,
		Level:   level,
		NoColor: !isTerminal(os.Stderr),
	})
}

func isServe() bool {
	return len(os.Args) > 1 && os.Args[1] == "serve"
}

// warnUnknownDisabled logs config entries that match no MCP tool or type.
func warnUnknownDisabled(cfg *config.Config, log *slog.Logger) {
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn("unknown tools in disabled_tools", "tools", strings.Join(unknown, ","))
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		log.Warn("unknown types in disabled_types", "types", strings.Join(unknown, ","))
	}
}

func main() {
	os.Exit(run())
}

// run wires the process and returns the exit code. Deferred cleanup (the final
// state flush in particular) runs before main exits.
func run() int {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal(os.Stdin) {
		printBanner()
		return 0
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, "", nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	cliMode := isCLIMode()

	// Unknown argument + terminal → show error (don't start MCP server)
	if !cliMode && len(os.Args) >= 2 && isTerminal(os.Stdin) {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'brainbucket --help' for usage.\n")
		return 1
	}

	dataDir, err := config.DataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine data directory: %v\n", err)
		return 1
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		return 1
	}
	log := newLogger(cfg, cliMode)

	database, err := db.Init(dataDir)
	if err != nil {
		log.Error("failed to initialize database", "dir", dataDir, "error", err)
		return 1
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	ctx := context.Background()
	st, err := store.New(ctx, store.Options{
		Persister: db.NewStateRepo(database, log),
		Logger:    log,
	})
	if err != nil {
		log.Error("failed to load state", "error", err)
		return 1
	}
	defer func() {
		if err := st.Close(ctx); err != nil {
			log.Error("failed to flush state", "error", err)
		}
	}()

	// CLI mode: known subcommand
	if cliMode {
		app := newCLIApp(st, cfg, dataDir, log)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	// MCP server mode (default)
	warnUnknownDisabled(cfg, log)
	if err := mcp.Run(st, cfg, dataDir, Version); err != nil {
		log.Error("mcp server stopped", "error", err)
		return 1
	}
	return 0
}
