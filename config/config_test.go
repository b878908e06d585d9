package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/s8rbridge/errors"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/pkg/cache"
	"github.com/c360/s8rbridge/reflective"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func noEnv(string) (string, bool) { return "", false }

func loadLayer(l *Loader, path string) (*Config, error) {
	l.layers = nil
	l.AddLayer(path)
	return l.Load()
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cc, err := cfg.Feedback.CollectorConfig()
	require.NoError(t, err)
	assert.Equal(t, feedback.DefaultCollectorConfig(), cc)
	assert.Contains(t, cfg.Reflection.Families, CoreFamily)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad version", func(c *Config) { c.Version = "one" }, "version"},
		{"bad severity", func(c *Config) { c.Feedback.MinSeverity = "loud" }, "feedback.min_severity"},
		{"negative cap", func(c *Config) { c.Feedback.MaxIssuesPerComponent = -1 }, "feedback.max_issues_per_component"},
		{"zero threshold", func(c *Config) { c.Feedback.RecommendationThreshold = 0 }, "feedback.recommendation_threshold"},
		{"incomplete family", func(c *Config) {
			c.Reflection.Families["partial"] = reflective.FamilySpec{Environment: "x.Env"}
		}, "reflection.families.partial"},
		{"bad cache", func(c *Config) {
			c.Reflection.ContractCache = cache.Config{Enabled: true, Strategy: cache.StrategyLRU}
		}, "reflection.contract_cache"},
		{"bad level", func(c *Config) { c.Logging.Level = "chatty" }, "logging.level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestConfig_ThresholdIgnoredWhenRecommendationsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Feedback.RecommendationThreshold = 0
	cfg.Feedback.DisableRecommendations = true
	assert.NoError(t, cfg.Validate())
}

func TestLoader_LayersJSONOverYAML(t *testing.T) {
	base := writeFile(t, "base.yaml", `
version: 1.2.0
feedback:
  min_severity: info
  max_issues_per_component: 10
reflection:
  families:
    tube:
      environment: legacy.Environment
      identity: legacy.Identity
      component: legacy.Tube
  contract_cache:
    enabled: true
    strategy: lru
    max_size: 8
`)
	override := writeFile(t, "override.json", `{"feedback": {"min_severity": "warning"}, "logging": {"format": "json"}}`)

	l := NewLoader()
	l.lookupEnv = noEnv
	l.AddLayer(base)
	l.AddLayer(override)
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "warning", cfg.Feedback.MinSeverity)
	assert.Equal(t, 10, cfg.Feedback.MaxIssuesPerComponent)
	assert.Equal(t, 3, cfg.Feedback.RecommendationThreshold, "default survives both layers")
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, cache.Config{Enabled: true, Strategy: cache.StrategyLRU, MaxSize: 8}, cfg.Reflection.ContractCache)
	assert.Contains(t, cfg.Reflection.Families, "tube")
	assert.Contains(t, cfg.Reflection.Families, CoreFamily)
}

func TestLoader_EnvOverrides(t *testing.T) {
	env := map[string]string{EnvLogLevel: "debug", EnvMinSeverity: "error"}
	l := NewLoader()
	l.lookupEnv = func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "error", cfg.Feedback.MinSeverity)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoader_InvalidFiles(t *testing.T) {
	l := NewLoader()
	l.lookupEnv = noEnv

	_, err := loadLayer(l, writeFile(t, "cfg.toml", "a = 1"))
	assert.Error(t, err)

	_, err = loadLayer(l, writeFile(t, "broken.json", `{"feedback": `))
	assert.Error(t, err)

	_, err = loadLayer(l, writeFile(t, "bad.yaml", "logging:\n  level: chatty\n"))
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)

	l.EnableValidation(false)
	cfg, err := loadLayer(l, writeFile(t, "bad.yaml", "logging:\n  level: chatty\n"))
	require.NoError(t, err)
	assert.Equal(t, "chatty", cfg.Logging.Level)
}

func TestEncode_DecodesBack(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Feedback.MinSeverity = "warning"
			data, err := cfg.Encode(format)
			require.NoError(t, err)

			raw, err := decodeRaw(data, format)
			require.NoError(t, err)
			parsed, err := mergeFromMap(DefaultConfig(), raw)
			require.NoError(t, err)
			assert.Equal(t, cfg, parsed)
		})
	}
	_, err := DefaultConfig().Encode("xml")
	assert.ErrorIs(t, err, errors.ErrUnknownType)

	data, err := EncodeValue("json", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a\"\n]\n", string(data))
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Logging.Level = "warn"
	require.NoError(t, cfg.SaveToFile(path))

	l := NewLoader()
	l.lookupEnv = noEnv
	loaded, err := loadLayer(l, path)
	require.NoError(t, err)
	assert.Equal(t, "warn", loaded.Logging.Level)
}

func TestClone_IsDeep(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Reflection.Families["extra"] = reflective.FamilySpec{}
	assert.NotContains(t, cfg.Reflection.Families, "extra")

	var nilCfg *Config
	assert.Equal(t, DefaultConfig(), nilCfg.Clone())
}

func TestSafeConfig(t *testing.T) {
	sc := NewSafeConfig(nil)
	assert.Equal(t, DefaultConfig(), sc.Get())

	bad := DefaultConfig()
	bad.Logging.Format = "xml"
	assert.Error(t, sc.Update(bad))
	assert.Error(t, sc.Update(nil))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg := sc.Get()
			assert.Contains(t, []string{"info", "debug"}, cfg.Logging.Level)
		}()
		go func() {
			defer wg.Done()
			next := DefaultConfig()
			next.Logging.Level = "debug"
			assert.NoError(t, sc.Update(next))
		}()
	}
	wg.Wait()
	assert.Equal(t, "debug", sc.Get().Logging.Level)
}
