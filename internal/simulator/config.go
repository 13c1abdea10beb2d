package simulator

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// SimConfig represents the complete simulation configuration
type SimConfig struct {
	Game GameSettings `hcl:"game,block"`
	Bots []BotConfig  `hcl:"bot,block"`
}

// GameSettings contains per-match rule configuration
type GameSettings struct {
	HandSize int            `hcl:"hand_size,optional"`
	MaxTurns int            `hcl:"max_turns,optional"`
	Timeout  string         `hcl:"timeout,optional"`
	Deck     map[string]int `hcl:"deck,optional"`
}

// BotConfig defines a bot entry seated in every match
type BotConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy"`
	Count    int    `hcl:"count,optional"`
	Seed     int64  `hcl:"seed,optional"`
}

// DefaultSimConfig returns a configuration for a three-seat random match
func DefaultSimConfig() *SimConfig {
	return &SimConfig{
		Game: GameSettings{
			HandSize: 5,
			MaxTurns: 1000,
			Timeout:  "1s",
		},
		Bots: []BotConfig{
			{Name: "rando", Strategy: "random", Count: 2},
			{Name: "drawer", Strategy: "draw", Count: 1},
		},
	}
}

// LoadSimConfig loads simulation configuration from an HCL file, falling
// back to defaults when the file does not exist
func LoadSimConfig(filename string) (*SimConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultSimConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config SimConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	if config.Game.HandSize == 0 {
		config.Game.HandSize = 5
	}
	if config.Game.MaxTurns == 0 {
		config.Game.MaxTurns = 1000
	}
	if config.Game.Timeout == "" {
		config.Game.Timeout = "1s"
	}
	for i := range config.Bots {
		if config.Bots[i].Count == 0 {
			config.Bots[i].Count = 1
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration for obvious mistakes before any
// matches run
func (c *SimConfig) Validate() error {
	seats := 0
	for _, b := range c.Bots {
		if b.Name == "" {
			return fmt.Errorf("bot blocks need a name label")
		}
		switch b.Strategy {
		case "draw", "random", "tracker":
		default:
			return fmt.Errorf("bot %q: unknown strategy %q", b.Name, b.Strategy)
		}
		seats += max(b.Count, 1)
	}
	if seats < 2 {
		return fmt.Errorf("need at least 2 bot seats, have %d", seats)
	}
	if _, err := time.ParseDuration(c.Game.Timeout); err != nil {
		return fmt.Errorf("invalid timeout %q: %w", c.Game.Timeout, err)
	}
	return nil
}
