package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/c360/s8rbridge/config"
	"github.com/c360/s8rbridge/feedback"
	"github.com/c360/s8rbridge/lifecycle"
	"github.com/c360/s8rbridge/migrate"
)

func TestMappingTable(t *testing.T) {
	rows := mappingTable()
	require.Len(t, rows, len(lifecycle.States()))
	for _, r := range rows {
		assert.NotEmpty(t, r.State)
		assert.NotEmpty(t, r.Category)
	}
}

func TestWriteEncoded(t *testing.T) {
	rows := mappingTable()

	var jsonOut bytes.Buffer
	require.NoError(t, writeEncoded(&jsonOut, "json", rows))
	var fromJSON []MappingRow
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &fromJSON))
	assert.Equal(t, rows, fromJSON)

	var yamlOut bytes.Buffer
	require.NoError(t, writeEncoded(&yamlOut, "yaml", rows))
	var fromYAML []MappingRow
	require.NoError(t, yaml.Unmarshal(yamlOut.Bytes(), &fromYAML))
	assert.Equal(t, rows, fromYAML)
}

func TestRunDemo(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Feedback.Console = false
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f, err := migrate.New(migrate.WithConfig(cfg), migrate.WithLogger(logger))
	require.NoError(t, err)

	require.NoError(t, runDemo(f, logger))

	report := f.Report()
	assert.Positive(t, report.Stats.ByType[feedback.StructuralDifference])
}

func TestExecute_PrintConfig(t *testing.T) {
	var out bytes.Buffer
	cliCfg := &CLIConfig{Format: "yaml", LogLevel: "warning", PrintConfig: true}
	require.NoError(t, execute(&out, io.Discard, cliCfg))

	var printed config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &printed))
	assert.Equal(t, "warning", printed.Logging.Level)
	assert.Contains(t, printed.Reflection.Families, config.CoreFamily)
}

func TestExecute_SaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effective.json")
	cliCfg := &CLIConfig{Format: "json", LogFormat: "json", SaveConfig: path}
	require.NoError(t, execute(io.Discard, io.Discard, cliCfg))

	loader := config.NewLoader()
	loader.AddLayer(path)
	saved, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "json", saved.Logging.Format)
}

func TestExecute_RejectsBadFlags(t *testing.T) {
	err := execute(io.Discard, io.Discard, &CLIConfig{Format: "xml"})
	assert.ErrorContains(t, err, "invalid output format")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})
	logger.Debug("hidden")
	logger.Info("visible")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, appName, rec["service"])
	assert.Equal(t, Version, rec["version"])
}
