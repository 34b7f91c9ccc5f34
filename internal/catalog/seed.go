package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Sequences []seedSequence `yaml:"sequences"`
}

type seedSequence struct {
	ID        string `yaml:"id"`
	Level     int    `yaml:"level"`
	Beginning string `yaml:"beginning"`
	Ending    string `yaml:"ending"`
}

// LoadSeed reads a YAML seed file of sequences.
func LoadSeed(path string) ([]Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	sequences := make([]Sequence, 0, len(file.Sequences))
	for _, entry := range file.Sequences {
		if entry.ID == "" {
			return nil, fmt.Errorf("seed sequence missing id")
		}
		if entry.Level < 1 {
			return nil, fmt.Errorf("seed sequence %s: level must be >= 1", entry.ID)
		}
		beginning, err := ParseSequence(entry.Beginning)
		if err != nil {
			return nil, fmt.Errorf("seed sequence %s: %w", entry.ID, err)
		}
		ending, err := ParseSequence(entry.Ending)
		if err != nil {
			return nil, fmt.Errorf("seed sequence %s: %w", entry.ID, err)
		}
		sequences = append(sequences, Sequence{
			ID:        entry.ID,
			Level:     entry.Level,
			Beginning: beginning,
			Ending:    ending,
		})
	}

	return sequences, nil
}
