package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// IgnoreList is the ignore-list file: roots never offered for study.
type IgnoreList struct {
	Terms []string `yaml:"terms"`
}

// LoadIgnoreList loads an ignore list from a YAML file
func LoadIgnoreList(path string) (*IgnoreList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var il IgnoreList
	if err := yaml.Unmarshal(data, &il); err != nil {
		return nil, err
	}
	return &il, nil
}

// SaveIgnoreList writes terms as an ignore-list file.
func SaveIgnoreList(path string, terms []string) error {
	data, err := yaml.Marshal(IgnoreList{Terms: terms})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
