package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tabbitapp/tabbit/internal/app"
	"github.com/tabbitapp/tabbit/internal/auth"
	"github.com/tabbitapp/tabbit/internal/config"
	"github.com/tabbitapp/tabbit/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// printBanner displays the Tabbit logo
func printBanner() {
	logo := []string{
		` _____     _     _     _ _   `,
		`|_   _|_ _| |__ | |__ (_) |_ `,
		`  | |/ _' | '_ \| '_ \| | __|`,
		`  | | (_| | |_) | |_) | | |_ `,
		`  |_|\__,_|_.__/|_.__/|_|\__|`,
	}
	fmt.Println()
	for _, line := range logo {
		fmt.Printf("  %s%s%s\n", yellow, line, reset)
	}
	fmt.Printf("  %sdebate tournament tab server %s%s\n\n", cyan, version, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	default:
		next = "debug"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug -> info -> warn -> error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	adminPw := flag.String("adminpw", "", "Admin password (auto-generated if not set)")
	logLevel := flag.String("loglevel", "", "Log level: debug, info, warn, error (overrides config)")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Tabbit - Debate Tournament Tab Server

Usage:
  tabbit [options]

Options:
  -config string Path to YAML config file (optional)
  -port int      HTTP server port (overrides config)
  -db string     SQLite database path (overrides config)
  -adminpw str   Admin password (auto-generated if not set)
  -loglevel str  Log level: debug, info, warn, error (overrides config)
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

Configuration is read from the config file, then TABBIT_-prefixed
environment variables (TABBIT_SERVER_PORT, TABBIT_DATABASE_PATH, ...),
then these flags, in increasing order of precedence.

Keyboard Shortcuts (when enabled):
  h              Toggle HTTP request logging
  l              Cycle log level (debug -> info -> warn -> error)
  q              Quit server
  ?              Show keyboard help

Examples:
  tabbit                             # Run on port 8090 with tabbit.db
  tabbit -port 8080                  # Run on port 8080
  tabbit -db /data/worlds2026.db     # Use custom database path
  tabbit -config tabbit.yaml         # Load settings from a file
  tabbit -adminpw secret123          # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("tabbit %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tabbit: %v\n", err)
		os.Exit(1)
	}

	// Flags beat file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = *port
		case "db":
			cfg.Database.Path = *dbPath
		case "adminpw":
			cfg.Admin.Password = *adminPw
		case "loglevel":
			cfg.Log.Level = *logLevel
		}
	})

	printBanner()

	// Create logger with specified level, with a rotating JSON file when
	// configured
	level := logger.ParseLevel(cfg.Log.Level)
	var appLog *logger.SlogLogger
	if cfg.Log.File != "" {
		appLog = logger.NewWithFile(level, logger.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		})
	} else {
		appLog = logger.NewWithLevel(level)
	}
	if cfg.Log.HTTP {
		appLog.EnableHTTPLogging()
	}

	// Setup admin authentication
	password := cfg.Admin.Password
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth, err := auth.New(password)
	if err != nil {
		appLog.Error("Failed to initialize authentication", "error", err)
		os.Exit(1)
	}

	a, err := app.New(appLog, cfg, adminAuth)
	if err != nil {
		appLog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLog.Info("Admin password", "password", password)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(addr)
	}()

	quit := make(chan struct{}, 1)
	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(appLog, quit)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			appLog.Error("Server failed", "error", err)
			os.Exit(1)
		}
		return
	case s := <-sig:
		appLog.Info("Shutting down", "signal", s.String())
	case <-quit:
		appLog.Info("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Shutdown(ctx); err != nil {
		appLog.Error("Shutdown error", "error", err)
	}
}
