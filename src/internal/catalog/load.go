// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package catalog

import (
	_ "embed"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Default loads the catalog compiled into the binary.
//
// Returns:
//   - *Catalog: Every entry under a known language, including invalid ones
//   - Report: Structural validation of the embedded document
//   - error: Only if the embedded document is not parseable YAML
func Default() (*Catalog, Report, error) {
	return Load(defaultCatalog)
}

// Load parses a YAML catalog document of the form
//
//	python:
//	  HttpTrigger:
//	    description: ...
//	    category: ...
//	    useCase: ...
//	    bindingType: trigger
//	    resource: http
//
// Parameters:
//   - data: Raw YAML document
//
// Returns:
//   - *Catalog: Entries under known languages whose fields decode as strings
//   - Report: Every structural violation in the document, including unknown languages
//   - error: If data is not valid YAML
//
// Structural violations do not make Load fail. Callers that must only serve
// valid entries should use [Catalog.Pruned] on the result.
func Load(data []byte) (*Catalog, Report, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, Report{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	report := validateDocument(raw)

	entries := make(map[Language]map[string]Metadata, len(allLanguages))
	for key, value := range raw {
		l, ok := ParseLanguage(key)
		if !ok {
			continue // reported by the schema
		}
		templates, ok := value.(map[string]any)
		if !ok {
			continue
		}
		entries[l] = make(map[string]Metadata, len(templates))
		for name, fields := range templates {
			var md Metadata
			if err := decodeMetadata(fields, &md); err != nil {
				continue
			}
			entries[l][name] = md
		}
	}

	return New(entries), report, nil
}

func decodeMetadata(input any, md *Metadata) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  md,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
