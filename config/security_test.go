package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360/s8rbridge/errors"
)

func TestValidateConfigPath(t *testing.T) {
	assert.NoError(t, validateConfigPath("s8r.yaml"))
	assert.NoError(t, validateConfigPath("configs/s8r.JSON"))

	for _, bad := range []string{"", "../outside.json", "s8r.toml", strings.Repeat("a", maxPathLen+1) + ".json"} {
		assert.ErrorIs(t, validateConfigPath(bad), errors.ErrInvalidConfig, bad)
	}
}

func TestValidateJSONDepth(t *testing.T) {
	assert.NoError(t, validateJSONDepth([]byte(`{"a": ["}", {"b": "\"["}]}`)))
	assert.ErrorIs(t, validateJSONDepth([]byte(`{"a": [}`)), errors.ErrInvalidConfig)
	assert.ErrorIs(t, validateJSONDepth([]byte(`]`)), errors.ErrInvalidConfig)

	deep := strings.Repeat("[", maxJSONDepth+1) + strings.Repeat("]", maxJSONDepth+1)
	assert.ErrorIs(t, validateJSONDepth([]byte(deep)), errors.ErrInvalidConfig)
}

func TestValidateEnvVar(t *testing.T) {
	assert.NoError(t, validateEnvVar(EnvLogLevel, "debug"))
	assert.Error(t, validateEnvVar(EnvLogLevel, "de\x00bug"))
	assert.Error(t, validateEnvVar(EnvLogLevel, strings.Repeat("x", maxEnvVarLen+1)))
}
