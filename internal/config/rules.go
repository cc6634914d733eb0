package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
)

// LoadRules reads classification keyword overrides from a YAML file:
//
//	keywords:
//	  tornado: ["Tornado Warning"]
//	  thunderstormwatch: ["Severe Thunderstorm Watch"]
//	exclude: ["AST", "ADT"]
//	region_exclude: AK
//
// Sections left out of the file keep their defaults. Category keys must be
// one of the four known categories.
func LoadRules(path string) (domain.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var file struct {
		Keywords      map[string][]string `yaml:"keywords"`
		Exclude       *[]string           `yaml:"exclude"`
		RegionExclude *string             `yaml:"region_exclude"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Rules{}, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	rules := domain.DefaultRules()
	for key, keywords := range file.Keywords {
		c, err := domain.ParseCategory(key)
		if err != nil {
			return domain.Rules{}, fmt.Errorf("rules file %s: %w", path, err)
		}
		rules.Keywords[c] = keywords
	}
	if file.Exclude != nil {
		rules.Exclude = *file.Exclude
	}
	if file.RegionExclude != nil {
		rules.RegionExclude = *file.RegionExclude
	}
	return rules, nil
}
