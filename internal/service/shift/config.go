package shift

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Window is a half-open hour range [Start, End).
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// ContainsInclusive also accepts the End hour itself.
func (w Window) ContainsInclusive(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

type Shift struct {
	CheckIn  Window `yaml:"checkIn"`
	CheckOut Window `yaml:"checkOut"`
}

type Config struct {
	Morning         Shift `yaml:"morning"`
	Afternoon       Shift `yaml:"afternoon"`
	FridayAfternoon Shift `yaml:"fridayAfternoon"`
}

func DefaultConfig() Config {
	return Config{
		Morning: Shift{
			CheckIn:  Window{Start: 0, End: 11},
			CheckOut: Window{Start: 11, End: 13},
		},
		Afternoon: Shift{
			CheckIn:  Window{Start: 13, End: 16},
			CheckOut: Window{Start: 16, End: 23},
		},
		FridayAfternoon: Shift{
			CheckIn:  Window{Start: 14, End: 16},
			CheckOut: Window{Start: 16, End: 23},
		},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read shift config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse shift config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	shifts := map[string]Shift{
		"morning":         c.Morning,
		"afternoon":       c.Afternoon,
		"fridayAfternoon": c.FridayAfternoon,
	}
	for name, s := range shifts {
		for kind, w := range map[string]Window{"checkIn": s.CheckIn, "checkOut": s.CheckOut} {
			if w.Start < 0 || w.End > 24 || w.Start >= w.End {
				return fmt.Errorf("invalid %s.%s window [%d,%d)", name, kind, w.Start, w.End)
			}
		}
	}
	return nil
}
