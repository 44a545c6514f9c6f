package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/okian/parkspot/internal/config"
	"github.com/okian/parkspot/internal/parkctl"
	"github.com/okian/parkspot/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	defaults, err := config.Load(ctx)
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "failed to load config: "+err.Error())
		os.Exit(1)
	}

	var (
		baseURL     = flag.String("url", defaults.BaseURL, "Origin serving the API")
		apiRoot     = flag.String("root", defaults.APIRoot, "API root prefix")
		sessionFile = flag.String("session", defaults.SessionFile, "Session file")
		timeout     = flag.Duration("timeout", defaults.RequestTimeout(), "Per-request timeout, 0 for none")
		logFile     = flag.String("log", defaults.LogFile, "Also write logs to this file")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || flag.NArg() == 0 {
		parkctl.ShowHelp(os.Stdout)
		return
	}

	if err := parkctl.SetupLogging(*logFile, *verbose); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "failed to setup logging: "+err.Error())
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := &parkctl.Config{
		BaseURL:     *baseURL,
		APIRoot:     *apiRoot,
		SessionFile: *sessionFile,
		Timeout:     *timeout,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	runner, err := parkctl.New(cfg, os.Stdout, logger.Named("parkctl"))
	if err == nil {
		err = runner.Run(ctx, flag.Args())
	}
	if err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error: "+err.Error())
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
}
