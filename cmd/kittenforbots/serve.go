package main

import (
	"time"

	"github.com/lox/kittenforbots/internal/game"
	"github.com/lox/kittenforbots/internal/server"
)

// ServeCmd hosts matches for remote bots
type ServeCmd struct {
	Addr      string `kong:"default=':8080',help='Server address'"`
	Players   int    `kong:"default='3',help='Players per match'"`
	HandSize  int    `kong:"default='5',help='Cards dealt to each player'"`
	MaxTurns  int    `kong:"default='1000',help='Turn limit before a match is called a draw'"`
	TimeoutMs int    `kong:"default='5000',help='Bot decision timeout in milliseconds'"`
	Seed      *int64 `kong:"help='Deterministic RNG seed for every match (optional)'"`
	Debug     bool   `kong:"help='Enable debug logging'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	gameCfg := game.DefaultConfig()
	gameCfg.HandSize = c.HandSize
	gameCfg.MaxTurns = c.MaxTurns
	gameCfg.Timeout = time.Duration(c.TimeoutMs) * time.Millisecond
	if c.Seed != nil {
		gameCfg.Seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", *c.Seed)
	}

	s := server.NewServer(server.Config{
		Addr:            c.Addr,
		PlayersPerMatch: c.Players,
		Game:            gameCfg,
		Logger:          logger,
	})
	return s.Start()
}
