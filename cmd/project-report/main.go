package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/project-report/internal/config"
	"github.com/iwvelando/project-report/internal/server"
	"github.com/iwvelando/project-report/pkg/constants"
	"github.com/iwvelando/project-report/pkg/model"
	"github.com/iwvelando/project-report/pkg/output"
	"github.com/iwvelando/project-report/pkg/statements"
	"github.com/iwvelando/project-report/pkg/tax"
	"github.com/iwvelando/project-report/pkg/template"
	"github.com/iwvelando/project-report/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// resolveOutputFormat applies the CLI override and the pretty default.
func resolveOutputFormat(configured, override string) (string, error) {
	outputFormat := configured
	if override != "" {
		outputFormat = override
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}

// run computes the statements for one configuration and renders them to w.
func run(conf *config.Configuration, logger *zap.Logger, outputFormat string, w io.Writer) error {
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.run"),
		)
	}

	report, err := conf.BuildReport(logger)
	if err != nil {
		return err
	}

	result := statements.NewEngine(logger, conf.Tax).Compute(report)
	return output.Write(w, outputFormat, result)
}

// writeTemplate writes a configuration scaffold for the sector.
func writeTemplate(w io.Writer, sector string, startYear, years int, today time.Time) error {
	if startYear == 0 {
		startYear = today.Year()
	}
	report, err := template.NewReport("", model.Sector(sector), model.RegimeCorporateFlat, startYear, years, today)
	if err != nil {
		return err
	}
	scaffold := config.Configuration{
		Output: config.OutputConfig{Format: constants.OutputFormatPretty},
		Tax:    tax.DefaultPolicy(),
		Report: *report,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(scaffold); err != nil {
		return fmt.Errorf("failed to encode template: %w", err)
	}
	return enc.Close()
}

func serve(ctx context.Context, serverConfigPath, logLevel string) error {
	cfg, err := server.LoadConfig(serverConfigPath)
	if err != nil {
		return err
	}
	logger, err := initializeLogger(cfg.Logging, logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           server.NewHandler(logger, cfg.UploadSizeBytes(), version),
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
		WriteTimeout:      cfg.WriteTimeoutDuration(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("listening on %s", cfg.Address),
			zap.String("op", "main.serve"),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

func fatal(msg string, err error) {
	fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": %q, \"error\": %q}\n", msg, err.Error())
	os.Exit(1)
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	watch := flag.Bool("watch", false, "recompute whenever the configuration file changes")
	templateSector := flag.String("template", "", "print a configuration scaffold for the sector (industry, service, wholesale, retail) and exit")
	startYear := flag.Int("start-year", 0, "first fiscal year of the scaffold (defaults to the current year)")
	years := flag.Int("years", 5, "number of fiscal years in the scaffold")
	serveFlag := flag.Bool("serve", false, "serve the HTTP API instead of computing once")
	serverConfig := flag.String("server-config", constants.DefaultServerConfigFile, "path to the server configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fatal("failed to load .env", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *templateSector != "" {
		if err := writeTemplate(os.Stdout, *templateSector, *startYear, *years, time.Now()); err != nil {
			fatal("failed to write template", err)
		}
		return
	}

	if *serveFlag {
		if err := serve(ctx, *serverConfig, *logLevel); err != nil {
			fatal("server failed", err)
		}
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		msg := fmt.Sprintf("failed to load configuration at %s", *configLocation)
		if errors.Is(err, fs.ErrNotExist) {
			msg += fmt.Sprintf(" (start from %s or run with -template)", constants.ExampleConfigFile)
		}
		fatal(msg, err)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fatal("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := resolveOutputFormat(conf.Output.Format, *outputFormatFlag)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if !*watch {
		if err := run(conf, logger, outputFormat, os.Stdout); err != nil {
			logger.Fatal("failed to compute statements",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	err = config.WatchConfiguration(*configLocation, logger, func(c *config.Configuration) {
		format, err := resolveOutputFormat(c.Output.Format, *outputFormatFlag)
		if err == nil {
			err = run(c, logger, format, os.Stdout)
		}
		if err != nil {
			logger.Error("failed to compute statements",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		logger.Fatal("failed to watch configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	<-ctx.Done()
}
