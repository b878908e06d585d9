package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Format      string
	Debug       bool
	Demo        bool
	Mappings    bool
	Validate    bool
	PrintConfig bool
	SaveConfig  string
	ShowVersion bool
	ShowHelp    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("S8R_CONFIG", ""),
		"Path to a JSON or YAML configuration file, empty for defaults (env: S8R_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("S8R_CONFIG", ""),
		"Path to a JSON or YAML configuration file, empty for defaults (env: S8R_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("S8R_LOG_LEVEL", ""),
		"Log level: debug, info, warn, warning, error; overrides the config file (env: S8R_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("S8R_LOG_FORMAT", ""),
		"Log format: json, text; overrides the config file (env: S8R_LOG_FORMAT)")

	flag.StringVar(&cfg.Format, "format",
		getEnv("S8R_OUTPUT_FORMAT", "json"),
		"Output format for reports and tables: json, yaml (env: S8R_OUTPUT_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("S8R_DEBUG", false),
		"Enable debug logging (env: S8R_DEBUG)")

	flag.BoolVar(&cfg.Demo, "demo", false, "Migrate a sample legacy machine and print the issue report")
	flag.BoolVar(&cfg.Mappings, "mappings", false, "Print the lifecycle state mapping table")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")
	flag.BoolVar(&cfg.PrintConfig, "print-config", false, "Print the effective configuration in the output format")
	flag.StringVar(&cfg.SaveConfig, "save-config", "", "Write the effective configuration to a .json, .yaml or .yml file")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.LogLevel != "" && !contains([]string{"debug", "info", "warn", "warning", "error"}, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat != "" && !contains([]string{"json", "text"}, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if !contains([]string{"json", "yaml"}, cfg.Format) {
		return fmt.Errorf("invalid output format: %s", cfg.Format)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - legacy component family translation layer

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run the sample migration with defaults
  %s --demo

  # Validate a configuration file
  %s --config=s8r.yaml --validate

  # Print the state mapping table as YAML
  %s --mappings --format=yaml

  # Show the configuration after file, environment and flag overrides
  %s --config=s8r.yaml --print-config

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
