package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
)

// CatalogFile represents an audience catalog kept as YAML.
//
//	duplicates: keep
//	audiences:
//	  - name: 上班族
//	    keywords: 壓力,睡眠,飲食
//	  - name: 學生
//	    keywords: [考試, 熬夜]
type CatalogFile struct {
	Duplicates string          `yaml:"duplicates"`
	Audiences  []CatalogRecord `yaml:"audiences"`
}

// CatalogRecord is one audience entry. Keywords may be written either as a
// comma-separated string or as a YAML list.
type CatalogRecord struct {
	Name     string       `yaml:"name"`
	Keywords KeywordField `yaml:"keywords"`
}

// KeywordField holds the raw comma-separated keyword field.
type KeywordField string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (k *KeywordField) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*k = KeywordField(value.Value)
		return nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: keyword list entries must be scalars", item.Line)
			}
			parts = append(parts, item.Value)
		}
		*k = KeywordField(strings.Join(parts, ","))
		return nil
	default:
		return fmt.Errorf("line %d: keywords must be a string or a list", value.Line)
	}
}

// Records converts the file entries into catalog records.
func (c *CatalogFile) Records() []audience.Record {
	out := make([]audience.Record, len(c.Audiences))
	for i, a := range c.Audiences {
		out[i] = audience.Record{Name: a.Name, Keywords: string(a.Keywords)}
	}
	return out
}

// LoadCatalog loads an audience catalog from a YAML file
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// Dict represents the segmentation dictionary
type Dict struct {
	Terms []string
}

// LoadDict loads the segmentation dictionary from a file.
// Format: one term per line; blank lines and lines starting with '#' are
// skipped; anything after a '|' (frequency or tag annotations) is ignored.
func LoadDict(path string) (*Dict, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dict := &Dict{Terms: []string{}}
	lines := strings.Split(string(data), "\n")

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		term, _, _ := strings.Cut(line, "|")
		if term = strings.TrimSpace(term); term != "" {
			dict.Terms = append(dict.Terms, term)
		}
	}

	return dict, nil
}

// CatalogSource exposes a YAML catalog file as a store.Source. The file is
// read on every Records call.
type CatalogSource struct {
	Path string
}

// Records implements store.Source.
func (s CatalogSource) Records(ctx context.Context) ([]audience.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cf, err := LoadCatalog(s.Path)
	if err != nil {
		return nil, err
	}
	return cf.Records(), nil
}

// Close implements store.Source.
func (s CatalogSource) Close() error { return nil }
