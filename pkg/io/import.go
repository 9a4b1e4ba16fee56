package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. An empty name means FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (want json, yaml or auto)", s)
	}
}

// FormatForPath guesses the format from a file extension. Unknown
// extensions yield FormatAuto.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatAuto
	}
}

// Sniff guesses the format from content: JSON when the first non-space
// byte opens an object or array, YAML otherwise.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// ReadDocument decodes a document from r. With FormatAuto the format is
// sniffed from the content. Empty input decodes to nil.
func ReadDocument(r io.Reader, format Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read document")
	}
	return Decode(data, format)
}

// Decode decodes a document held in memory.
func Decode(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if format == FormatAuto || format == "" {
		format = Sniff(data)
		if format == FormatJSON {
			doc, err := Decode(data, FormatJSON)
			if err == nil {
				return doc, nil
			}
			// Flow-style YAML also starts with a bracket.
			if doc, yerr := Decode(data, FormatYAML); yerr == nil {
				return doc, nil
			}
			return nil, err
		}
	}

	switch format {
	case FormatJSON:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid JSON document")
		}
		return v, nil
	case FormatYAML:
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid YAML document")
		}
		return normalize(v), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", format)
	}
}

// ImportFile reads and decodes the document at path. With FormatAuto the
// extension decides, falling back to content sniffing.
func ImportFile(path string, format Format) (any, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read %s", path)
	}
	if format == FormatAuto || format == "" {
		format = FormatForPath(path)
	}
	return Decode(data, format)
}

// normalize converts YAML-decoded values to the JSON shapes: string-keyed
// maps, float64 numbers and RFC 3339 timestamps.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return v
	}
}
