// main.go - Entry point for kaas, the terminal client for the document QA backend.
// Without a command it starts the TUI; commands run a single request and exit.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kaas/src/app"
	"kaas/src/config"
	"kaas/src/logging"
	"kaas/src/services/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// version is set during build time via ldflags
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	envFile    string
	apiURL     string
	timeout    time.Duration
	logLevel   string
	logFile    string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := flag.NewFlagSet("kaas", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", config.DefaultPath(), "Config file path")
	fs.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	fs.StringVar(&opts.apiURL, "api", "", "Backend base URL including /api (overrides config)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout, 0 for none (overrides config)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (overrides config)")
	showVersion := fs.Bool("version", false, "Show version")
	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	rest := fs.Args()
	command := "tui"
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch {
	case *showVersion || command == "version":
		fmt.Fprintf(stdout, "kaas version %s\n", version)
		return nil
	case command == "help":
		printUsage(stdout)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()

	api.Version = version
	client := api.New(cfg.API, logger)
	logger.Info("starting kaas", "version", version, "command", command, "api", cfg.API.BaseURL)

	if command == "tui" {
		return runTUI(client, cfg, logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &CLI{client: client, cfg: cfg, in: stdin, out: stdout}
	return c.Run(ctx, command, rest)
}

// loadConfig applies, in order: defaults, the YAML file, the .env file,
// environment variables and finally command-line flags.
func loadConfig(opts options) (*config.Config, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.apiURL != "" {
		cfg.API.BaseURL = opts.apiURL
	}
	if opts.timeout != 0 {
		cfg.API.Timeout = opts.timeout
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTUI(client *api.Client, cfg *config.Config, logger *slog.Logger) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("the interactive UI needs a terminal; use a command such as 'kaas docs' instead")
	}

	model := app.New(client, cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	setupGracefulShutdown(program, logger)

	if _, err := program.Run(); err != nil {
		logger.Error("Application failed", "error", err)
		return err
	}
	model.Shutdown()

	logger.Info("Application completed successfully")
	return nil
}

// setupGracefulShutdown sets up signal handling for graceful shutdown
func setupGracefulShutdown(program *tea.Program, logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Info("Received shutdown signal, cleaning up...")
		program.Quit()
	}()
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "kaas - ask questions about your documents (version %s)\n", version)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  kaas [flags] [command] [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                          Start the interactive UI (default)")
	fmt.Fprintln(w, "  docs                         List uploaded documents")
	fmt.Fprintln(w, "  upload <file>                Upload a .pdf or .txt file")
	fmt.Fprintln(w, "  ask [-doc name] [-k n] <q>   Ask a question, optionally about one document")
	fmt.Fprintln(w, "  reset [-yes]                 Delete all uploaded data")
	fmt.Fprintln(w, "  reindex <upload-id>          Ask the backend to re-index an upload")
	fmt.Fprintln(w, "  version                      Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config string      Config file (default ~/.kaas/config.yaml)")
	fmt.Fprintln(w, "  -env-file string    Dotenv file (default .env)")
	fmt.Fprintln(w, "  -api string         Backend base URL, e.g. http://localhost:8000/api")
	fmt.Fprintln(w, "  -timeout duration   Per-request timeout (default none)")
	fmt.Fprintln(w, "  -log-level string   Log level")
	fmt.Fprintln(w, "  -log-file string    Log file")
	fmt.Fprintln(w, "  -version            Show version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  %s, %s, %s,\n", config.EnvAPIURL, config.EnvTimeout, config.EnvResultLimit)
	fmt.Fprintf(w, "  %s, %s, %s\n", config.EnvLogLevel, config.EnvLogFormat, config.EnvLogFile)
}
