package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/pkg/cache"
	"github.com/c360/s8rbridge/reflective"
)

// Environment variables consulted by the loader.
const (
	EnvLogLevel    = "S8R_LOG_LEVEL"
	EnvLogFormat   = "S8R_LOG_FORMAT"
	EnvMinSeverity = "S8R_MIN_SEVERITY"
)

// CoreFamily is the reflective family configured by default. It names the
// legacy core component types.
const CoreFamily = "core"

// Config is the complete translation-layer configuration.
type Config struct {
	Version    string           `json:"version" yaml:"version"` // Semantic version, e.g. "1.0.0"
	Feedback   FeedbackConfig   `json:"feedback" yaml:"feedback"`
	Reflection ReflectionConfig `json:"reflection" yaml:"reflection"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// FeedbackConfig bounds the migration issue collector.
type FeedbackConfig struct {
	MinSeverity             string `json:"min_severity" yaml:"min_severity"`
	MaxIssuesPerComponent   int    `json:"max_issues_per_component" yaml:"max_issues_per_component"`
	RecommendationThreshold int    `json:"recommendation_threshold" yaml:"recommendation_threshold"`
	DisableRecommendations  bool   `json:"disable_recommendations,omitempty" yaml:"disable_recommendations,omitempty"`
	// Console mirrors every issue to the structured logger.
	Console bool `json:"console" yaml:"console"`
}

// CollectorConfig converts to the collector's own settings.
func (f FeedbackConfig) CollectorConfig() (feedback.CollectorConfig, error) {
	sev, err := feedback.ParseSeverity(f.MinSeverity)
	if err != nil {
		return feedback.CollectorConfig{}, errors.Wrap(err, "FeedbackConfig", "CollectorConfig", "severity parse")
	}
	return feedback.CollectorConfig{
		MinSeverity:             sev,
		MaxIssuesPerComponent:   f.MaxIssuesPerComponent,
		RecommendationThreshold: f.RecommendationThreshold,
		DisableRecommendations:  f.DisableRecommendations,
	}, nil
}

// ReflectionConfig lists the legacy families resolved by reflection and how
// verified contracts are cached.
type ReflectionConfig struct {
	Families      map[string]reflective.FamilySpec `json:"families,omitempty" yaml:"families,omitempty"`
	ContractCache cache.Config                     `json:"contract_cache" yaml:"contract_cache"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`   // debug, info, warn, error
	Format string `json:"format" yaml:"format"` // json or text
}

// DefaultConfig returns a configuration that keeps every issue, caches
// contracts without bound and resolves the legacy core family.
func DefaultConfig() *Config {
	collector := feedback.DefaultCollectorConfig()
	return &Config{
		Version: "1.0.0",
		Feedback: FeedbackConfig{
			MinSeverity:             collector.MinSeverity.String(),
			MaxIssuesPerComponent:   collector.MaxIssuesPerComponent,
			RecommendationThreshold: collector.RecommendationThreshold,
			Console:                 true,
		},
		Reflection: ReflectionConfig{
			Families: map[string]reflective.FamilySpec{
				CoreFamily: {
					Environment: "legacy.Environment",
					Identity:    "legacy.Identity",
					Component:   "legacy.CoreComponent",
				},
			},
			ContractCache: cache.DefaultConfig(),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Validate checks every section and reports the first problem.
func (c *Config) Validate() error {
	if c.Version != "" {
		if _, _, _, err := parseSemVer(c.Version); err != nil {
			return invalid("version", err)
		}
	}
	if _, err := c.Feedback.CollectorConfig(); err != nil {
		return invalid("feedback.min_severity", err)
	}
	if c.Feedback.MaxIssuesPerComponent < 0 {
		return invalid("feedback.max_issues_per_component", fmt.Errorf("negative: %d", c.Feedback.MaxIssuesPerComponent))
	}
	if c.Feedback.RecommendationThreshold < 1 && !c.Feedback.DisableRecommendations {
		return invalid("feedback.recommendation_threshold",
			fmt.Errorf("must be at least 1, got %d", c.Feedback.RecommendationThreshold))
	}
	for name, spec := range c.Reflection.Families {
		if strings.TrimSpace(name) == "" {
			return invalid("reflection.families", fmt.Errorf("family name cannot be empty"))
		}
		if err := spec.Validate(); err != nil {
			return invalid("reflection.families."+name, err)
		}
	}
	if err := c.Reflection.ContractCache.Validate(); err != nil {
		return invalid("reflection.contract_cache", err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("logging.level", fmt.Errorf("unknown level %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return invalid("logging.format", fmt.Errorf("unknown format %q", c.Logging.Format))
	}
	return nil
}

func invalid(field string, cause error) error {
	return errors.WrapInvalid(fmt.Errorf("%w: %s: %w", errors.ErrInvalidConfig, field, cause),
		"Config", "Validate", "field validation")
}

// SafeConfig provides thread-safe access to configuration
type SafeConfig struct {
	mu     sync.RWMutex
	config *Config
}

// NewSafeConfig creates a new thread-safe config wrapper. A nil config is
// replaced by the defaults.
func NewSafeConfig(cfg *Config) *SafeConfig {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &SafeConfig{config: cfg}
}

// Get returns a deep copy of the current configuration
func (sc *SafeConfig) Get() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config.Clone()
}

// Update atomically replaces the configuration after validation
func (sc *SafeConfig) Update(cfg *Config) error {
	if cfg == nil {
		return errors.WrapInvalid(errors.ErrMissingConfig, "SafeConfig", "Update", "nil check")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "SafeConfig", "Update", "validation")
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.config = cfg.Clone()
	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	data, err := json.Marshal(c)
	if err != nil {
		copied := *c
		return &copied
	}
	var clone Config
	if err := json.Unmarshal(data, &clone); err != nil {
		copied := *c
		return &copied
	}
	return &clone
}

// Loader loads configuration in layers over the defaults, then applies
// environment overrides.
type Loader struct {
	layers     []string
	validation bool
	lookupEnv  func(string) (string, bool)
}

// NewLoader creates a loader that validates its result.
func NewLoader() *Loader {
	return &Loader{validation: true, lookupEnv: os.LookupEnv}
}

// AddLayer adds a configuration file layer. Later layers win.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables configuration validation
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	for _, path := range l.layers {
		raw, err := loadRaw(path)
		if err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", "load "+path)
		}
		if cfg, err = mergeFromMap(cfg, raw); err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", "merge "+path)
		}
	}
	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

func loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeRaw(data, formatOf(path))
}

func decodeRaw(data []byte, format string) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapInvalid(err, "config", "decodeRaw", "yaml parse")
		}
	case "json":
		if err := validateJSONDepth(data); err != nil {
			return nil, errors.WrapInvalid(err, "config", "decodeRaw", "json structure check")
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.WrapInvalid(err, "config", "decodeRaw", "json parse")
		}
	default:
		return nil, errors.WrapInvalid(fmt.Errorf("%w: format %q", errors.ErrUnknownType, format),
			"config", "decodeRaw", "format check")
	}
	return raw, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields
// present in the map.
func mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	if override == nil {
		return base, nil
	}
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}
	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}
	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, err
	}
	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, errors.WrapInvalid(err, "config", "mergeFromMap", "decode merged config")
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

func (l *Loader) applyEnvOverrides(cfg *Config) error {
	overrides := []struct {
		key string
		set func(string)
	}{
		{EnvLogLevel, func(v string) { cfg.Logging.Level = v }},
		{EnvLogFormat, func(v string) { cfg.Logging.Format = v }},
		{EnvMinSeverity, func(v string) { cfg.Feedback.MinSeverity = v }},
	}
	for _, o := range overrides {
		val, ok := l.lookupEnv(o.key)
		if !ok || val == "" {
			continue
		}
		if err := validateEnvVar(o.key, val); err != nil {
			return errors.WrapInvalid(err, "Loader", "applyEnvOverrides", "environment check")
		}
		o.set(val)
	}
	return nil
}

// EncodeValue renders v as indented "json" or as "yaml". JSON output ends
// with a newline so both formats print cleanly.
func EncodeValue(format string, v any) ([]byte, error) {
	switch format {
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, errors.WrapInvalid(err, "config", "EncodeValue", "yaml encode")
		}
		return data, nil
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.WrapInvalid(err, "config", "EncodeValue", "json encode")
		}
		return append(data, '\n'), nil
	}
	return nil, errors.WrapInvalid(fmt.Errorf("%w: format %q", errors.ErrUnknownType, format),
		"config", "EncodeValue", "format check")
}

// Encode renders the configuration as "json" or "yaml".
func (c *Config) Encode(format string) ([]byte, error) {
	return EncodeValue(format, c)
}

// SaveToFile writes the configuration in the format implied by the file
// extension.
func (c *Config) SaveToFile(path string) error {
	data, err := c.Encode(formatOf(path))
	if err != nil {
		return err
	}
	return safeWriteFile(path, data)
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// parseSemVer parses a semantic version string (e.g., "1.2.3")
func parseSemVer(version string) (int, int, int, error) {
	version = strings.TrimPrefix(version, "v")
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid semver format: %s (expected X.Y.Z)", version)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, 0, 0, fmt.Errorf("invalid semver component %q in %s", p, version)
		}
		nums[i] = n
	}
	return nums[0], nums[1], nums[2], nil
}
