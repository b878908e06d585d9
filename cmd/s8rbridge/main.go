// Package main implements the s8rbridge command. It loads translation-layer
// configuration, validates it, prints the lifecycle mapping table and runs a
// sample migration of a legacy machine.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/c360/s8rbridge/config"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/metric"
	"github.com/c360/s8rbridge/migrate"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "s8rbridge"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(os.Stdout); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	return execute(out, os.Stderr, parseFlags())
}

// execute carries out the actions cliCfg selects. Reports go to out and
// logs to logOut.
func execute(out, logOut io.Writer, cliCfg *CLIConfig) error {
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		_, _ = fmt.Fprintf(out, "%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}

	logger := newLogger(logOut, cfg.Logging)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		logger.Info("Configuration is valid", "config_path", cliCfg.ConfigPath, "version", cfg.Version)
		return nil
	}

	if cliCfg.SaveConfig != "" {
		if err := cfg.SaveToFile(cliCfg.SaveConfig); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("Effective configuration saved", "path", cliCfg.SaveConfig)
	}

	if cliCfg.PrintConfig {
		data, err := cfg.Encode(cliCfg.Format)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}

	if cliCfg.Mappings {
		if err := writeEncoded(out, cliCfg.Format, mappingTable()); err != nil {
			return err
		}
	}

	if cliCfg.Demo {
		f, err := migrate.New(
			migrate.WithConfig(cfg),
			migrate.WithLogger(logger),
			migrate.WithMetrics(metric.NewMetricsRegistry()),
		)
		if err != nil {
			return fmt.Errorf("create factory: %w", err)
		}
		if err := runDemo(f, logger); err != nil {
			return fmt.Errorf("demo migration: %w", err)
		}
		if err := writeEncoded(out, cliCfg.Format, f.Report()); err != nil {
			return err
		}
	}

	if !cliCfg.Mappings && !cliCfg.Demo && !cliCfg.PrintConfig && cliCfg.SaveConfig == "" {
		logger.Info("Nothing to do; use -demo, -mappings, -print-config or -validate")
	}
	return nil
}

// loadConfig layers the file (if any) over defaults and applies environment
// and flag overrides before validating.
func loadConfig(cliCfg *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	if cliCfg.ConfigPath != "" {
		loader.AddLayer(cliCfg.ConfigPath)
	}
	loader.EnableValidation(false)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cliCfg.LogLevel != "" {
		cfg.Logging.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Logging.Format = cliCfg.LogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MappingRow is one line of the lifecycle mapping table.
type MappingRow struct {
	State    string `json:"state" yaml:"state"`
	Category string `json:"category" yaml:"category"`
	Status   string `json:"status" yaml:"status"`
	Phase    string `json:"phase" yaml:"phase"`
}

func mappingTable() []MappingRow {
	states := lifecycle.States()
	rows := make([]MappingRow, 0, len(states))
	for _, s := range states {
		row := MappingRow{State: s.String(), Category: string(s.Category())}
		if st, ok := lifecycle.LookupStatus(s); ok {
			row.Status = st.String()
		}
		if p, ok := lifecycle.LookupPhase(s); ok {
			row.Phase = p.String()
		}
		rows = append(rows, row)
	}
	return rows
}

func writeEncoded(w io.Writer, format string, v any) error {
	data, err := config.EncodeValue(format, v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}
