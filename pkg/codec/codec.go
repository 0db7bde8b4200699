// Package codec decodes state machine snapshots from the formats they travel in.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension. Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// FormatFromContentType picks the format from an HTTP Content-Type header.
func FormatFromContentType(contentType string) Format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return FormatJSON
	}
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses a snapshot. Both a bare snapshot ({"states": [...]}) and a
// bare list of state records are accepted.
func Decode(data []byte, format Format) (*domain.Snapshot, error) {
	var raw any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse yaml: %v", domain.ErrMalformedSnapshot, err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: failed to parse json: %v", domain.ErrMalformedSnapshot, err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	switch v := raw.(type) {
	case map[string]any:
		return DecodeMap(v)
	case []any:
		return DecodeMap(map[string]any{"states": v})
	case nil:
		return nil, fmt.Errorf("%w: document is empty", domain.ErrMalformedSnapshot)
	}
	return nil, fmt.Errorf("%w: expected an object or a list, got %T", domain.ErrMalformedSnapshot, raw)
}

// DecodeMap converts a generic document, such as MCP tool arguments or a
// decoded YAML node, into a snapshot. Numbers may arrive as floats, strings or
// json.Number.
func DecodeMap(data map[string]any) (*domain.Snapshot, error) {
	var snap domain.Snapshot
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &snap,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot decoder: %w", err)
	}
	if err := dec.Decode(data); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	return &snap, nil
}

// Encode writes a snapshot in the given format.
func Encode(snap *domain.Snapshot, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(snap)
	case FormatJSON:
		return json.MarshalIndent(snap, "", "  ")
	}
	return nil, fmt.Errorf("unsupported snapshot format %q", format)
}
