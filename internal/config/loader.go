// Package config loads and validates the asset-service configuration file
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jzx17/assetsettings/pkg/asset"
	"github.com/jzx17/assetsettings/pkg/retry"
	"github.com/jzx17/assetsettings/pkg/types"
)

// File is the top-level document
type File struct {
	AssetService asset.Properties `yaml:"asset-service"`
}

// Load reads, parses and validates the configuration at path
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a configuration document, applies defaults and validates it
// against the built-in operation catalog. ${VAR} references in values are
// expanded first; an unset variable is an error.
func Parse(data []byte) (*File, error) {
	return ParseWithCatalog(data, asset.Catalog())
}

// ParseWithCatalog is Parse against a caller-supplied catalog
func ParseWithCatalog(data []byte, catalog retry.Catalog) (*File, error) {
	expanded, err := expandDocument(data)
	if err != nil {
		return nil, err
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, types.NewConfigError(root, nil, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err))
	}

	props, err := file.AssetService.WithDefaults()
	if err != nil {
		return nil, err
	}
	file.AssetService = props

	if err := Validate(file.AssetService, catalog); err != nil {
		return nil, err
	}
	return &file, nil
}

// expandDocument substitutes environment references in scalar values only,
// leaving keys and comments untouched, and re-encodes the document.
func expandDocument(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, types.NewConfigError(root, nil, fmt.Errorf("%w: %v", types.ErrInvalidConfig, err))
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	if err := expandNode(&doc, ""); err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode config: %w", err)
	}
	return out, nil
}
