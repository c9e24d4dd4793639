package bot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Personality tunes how a bot plays. Both knobs are in the range [0, 1].
type Personality struct {
	Name string `json:"name" yaml:"name"`

	// Aggression is the tendency to bet and raise instead of check and call
	Aggression float64 `json:"aggression" yaml:"aggression"`

	// BluffRate is how often the bot bets without a hand to back it up
	BluffRate float64 `json:"bluffRate" yaml:"bluffRate"`
}

var presets = map[string]Personality{
	"tight":      {Name: "tight", Aggression: 0.2, BluffRate: 0.05},
	"balanced":   {Name: "balanced", Aggression: 0.5, BluffRate: 0.1},
	"aggressive": {Name: "aggressive", Aggression: 0.8, BluffRate: 0.2},
	"bluffer":    {Name: "bluffer", Aggression: 0.6, BluffRate: 0.35},
}

// Preset returns one of the built-in personalities by name
func Preset(name string) (Personality, error) {
	p, ok := presets[name]
	if !ok {
		return Personality{}, fmt.Errorf("unknown personality preset: %s", name)
	}

	return p, nil
}

// PresetNames returns the names of the built-in personalities
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	return names
}

// LoadPersonalities reads additional named personalities from a YAML file
func LoadPersonalities(path string) (map[string]Personality, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var loaded map[string]Personality
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, err
	}

	for name, p := range loaded {
		if p.Name == "" {
			p.Name = name
		}

		if p.Aggression < 0 || p.Aggression > 1 {
			return nil, fmt.Errorf("personality %s: aggression must be between 0 and 1", name)
		}

		if p.BluffRate < 0 || p.BluffRate > 1 {
			return nil, fmt.Errorf("personality %s: bluffRate must be between 0 and 1", name)
		}

		loaded[name] = p
	}

	return loaded, nil
}
