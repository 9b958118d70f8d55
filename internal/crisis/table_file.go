package crisis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Categories []KeywordCategory `yaml:"categories"`
}

// LoadTableFile reads a keyword table from YAML:
//
//	categories:
//	  - name: suicidio
//	    weight: 10
//	    keywords: [suicidio, matarme]
func LoadTableFile(path string) ([]KeywordCategory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keyword table: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable decodes and validates a YAML keyword table.
func ParseTable(raw []byte) ([]KeywordCategory, error) {
	var file tableFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode keyword table: %w", err)
	}
	if len(file.Categories) == 0 {
		return nil, fmt.Errorf("keyword table has no categories")
	}
	seen := make(map[string]struct{}, len(file.Categories))
	for i, cat := range file.Categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category %d: name required", i)
		}
		if _, dup := seen[cat.Name]; dup {
			return nil, fmt.Errorf("category %q declared twice", cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if cat.Weight <= 0 {
			return nil, fmt.Errorf("category %q: weight must be positive", cat.Name)
		}
		if len(cat.Keywords) == 0 {
			return nil, fmt.Errorf("category %q: no keywords", cat.Name)
		}
		for j, kw := range cat.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("category %q: keyword %d is blank", cat.Name, j)
			}
		}
	}
	return file.Categories, nil
}
