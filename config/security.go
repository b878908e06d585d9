package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360/s8rbridge/errors"
)

// Input limits for configuration files and overrides.
const (
	maxConfigSize = 10 << 20
	maxJSONDepth  = 100
	maxEnvVarLen  = 10000
	maxPathLen    = 4096
)

var configExtensions = map[string]bool{".json": true, ".yaml": true, ".yml": true}

func rejected(method, action string, format string, args ...any) error {
	return errors.WrapInvalid(
		fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidConfig}, args...)...),
		"Config", method, action)
}

// validateConfigPath accepts JSON and YAML files. Relative paths must stay
// under the working directory once cleaned.
func validateConfigPath(path string) error {
	switch {
	case path == "":
		return rejected("validateConfigPath", "path validation", "empty config path")
	case len(path) > maxPathLen:
		return rejected("validateConfigPath", "path validation", "path longer than %d bytes", maxPathLen)
	case !configExtensions[strings.ToLower(filepath.Ext(path))]:
		return rejected("validateConfigPath", "extension check", "%s is not a .json, .yaml or .yml file", path)
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return errors.WrapInvalid(err, "Config", "validateConfigPath", "path resolution")
	}
	if filepath.IsAbs(path) {
		if strings.Contains(filepath.ToSlash(abs), "..") {
			return rejected("validateConfigPath", "traversal check", "path traversal in %s", path)
		}
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return errors.WrapFatal(err, "Config", "validateConfigPath", "working directory lookup")
	}
	if rel, err := filepath.Rel(cwd, abs); err != nil || strings.HasPrefix(rel, "..") {
		return rejected("validateConfigPath", "traversal check", "%s resolves outside the working directory", path)
	}
	return nil
}

// safeReadFile reads a regular config file no larger than maxConfigSize.
func safeReadFile(path string) ([]byte, error) {
	if err := validateConfigPath(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Config", "safeReadFile", "stat "+path)
	}
	if !info.Mode().IsRegular() {
		return nil, rejected("safeReadFile", "file type check", "%s is not a regular file", path)
	}
	if info.Size() > maxConfigSize {
		return nil, rejected("safeReadFile", "size check", "%s is %d bytes, limit %d", path, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapTransient(err, "Config", "safeReadFile", "read "+path)
	}
	return data, nil
}

// safeWriteFile writes data with owner-only permissions.
func safeWriteFile(path string, data []byte) error {
	if err := validateConfigPath(path); err != nil {
		return err
	}
	if len(data) > maxConfigSize {
		return rejected("safeWriteFile", "size check", "%d bytes exceeds limit %d", len(data), maxConfigSize)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.WrapTransient(err, "Config", "safeWriteFile", "write "+path)
	}
	return nil
}

// validateEnvVar bounds override values and rejects NUL bytes.
func validateEnvVar(key, value string) error {
	if len(value) > maxEnvVarLen {
		return rejected("validateEnvVar", "length check", "%s is %d bytes, limit %d", key, len(value), maxEnvVarLen)
	}
	if strings.ContainsRune(value, 0) {
		return rejected("validateEnvVar", "content check", "NUL byte in %s", key)
	}
	return nil
}

// validateJSONDepth scans data for bracket nesting deeper than maxJSONDepth
// or unbalanced brackets outside string literals.
func validateJSONDepth(data []byte) error {
	depth := 0
	inString, escaped := false, false
	for _, b := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '{', '[':
			if depth++; depth > maxJSONDepth {
				return rejected("validateJSONDepth", "depth check", "nesting deeper than %d", maxJSONDepth)
			}
		case '}', ']':
			if depth--; depth < 0 {
				return rejected("validateJSONDepth", "bracket check", "unbalanced brackets")
			}
		}
	}
	if depth != 0 {
		return rejected("validateJSONDepth", "bracket check", "%d unclosed brackets", depth)
	}
	return nil
}
