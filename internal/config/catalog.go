package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"gospc/domain/quality"
	"gospc/internal/errors"
)

// catalogFile is the on-disk layout of a specification catalog:
//
//	metrics:
//	  sessions: {usl: 1500, lsl: 200, target: 800}
type catalogFile struct {
	Metrics map[string]quality.MetricSpecification `yaml:"metrics"`
}

// LoadCatalog reads and validates a YAML specification catalog
func LoadCatalog(path string) (quality.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read spec file %s", path)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog document
func ParseCatalog(data []byte) (quality.Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "failed to parse spec file")
	}
	if len(file.Metrics) == 0 {
		return nil, errors.ConfigInvalid("spec file defines no metrics")
	}
	catalog := quality.Catalog(file.Metrics)
	if err := catalog.Validate(); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeConfigInvalid, err), "invalid spec file")
	}
	return catalog, nil
}

// MarshalCatalog renders a catalog in the spec file layout
func MarshalCatalog(catalog quality.Catalog) ([]byte, error) {
	return yaml.Marshal(catalogFile{Metrics: catalog})
}
