package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryConfig is one category definition in the vocabulary YAML file.
type CategoryConfig struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
}

// CategoriesConfig is the top-level structure of the vocabulary YAML file.
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// NewClassifierFromFile builds a classifier from the built-in vocabulary
// extended by the definitions in the given YAML file.
func NewClassifierFromFile(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	var cfg CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}

	merged := make(map[string][]string, len(defaultVocabulary)+len(cfg.Categories))
	for name, synonyms := range defaultVocabulary {
		merged[name] = append([]string(nil), synonyms...)
	}
	for _, c := range cfg.Categories {
		if c.Name == "" {
			continue
		}
		merged[c.Name] = append(merged[c.Name], c.Synonyms...)
	}

	return newClassifier(merged), nil
}
