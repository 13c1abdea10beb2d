package main

import (
	"fmt"
	"time"

	"github.com/lox/kittenforbots/internal/simulator"
)

// SimulateCmd runs matches between built-in bots
type SimulateCmd struct {
	Matches     int    `kong:"default='100',help='Number of matches to play'"`
	Seed        *int64 `kong:"help='Base RNG seed; match N uses seed+N (default: current time)'"`
	Config      string `kong:"default='kittenforbots.hcl',help='Simulation config file (HCL)'"`
	Parallelism int    `kong:"default='0',help='Concurrent matches (default: number of CPUs)'"`
	HistoryDir  string `kong:"help='Write each match history as JSON into this directory'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}

	simCfg, err := simulator.LoadSimConfig(c.Config)
	if err != nil {
		return err
	}

	logger.Info("Starting simulation",
		"matches", c.Matches,
		"seed", seed,
		"config", c.Config)

	start := time.Now()
	sim := simulator.New(simulator.Config{
		Matches:     c.Matches,
		Seed:        seed,
		Parallelism: c.Parallelism,
		HistoryDir:  c.HistoryDir,
		Sim:         simCfg,
		Logger:      logger,
	})

	results, err := sim.Run()
	if err != nil {
		return err
	}

	logger.Info("Simulation complete", "elapsed", time.Since(start))
	fmt.Print(results.Summary())
	return nil
}
