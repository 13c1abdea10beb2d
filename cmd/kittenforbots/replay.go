package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/kittenforbots/internal/game"
)

// ReplayCmd loads a saved match history and prints a summary of it
type ReplayCmd struct {
	Path   string `kong:"arg='',help='Path to a match history JSON file'"`
	Events bool   `kong:"help='Print every event, not just the summary'"`
}

func (c *ReplayCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	var events []game.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("parsing history: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("history is empty")
	}

	if c.Events {
		for _, ev := range events {
			line := fmt.Sprintf("%4d %-20s", ev.Step, ev.Type)
			if ev.Player != "" {
				line += " " + ev.Player
			}
			if len(ev.Data) > 0 {
				extra, _ := json.Marshal(ev.Data)
				line += " " + string(extra)
			}
			fmt.Println(line)
		}
	}

	counts := make(map[game.EventType]int)
	for _, ev := range events {
		counts[ev.Type]++
	}

	last := events[len(events)-1]
	fmt.Printf("%d events, %d turns taken\n", len(events), counts[game.EventTurnStart])
	if last.Type == game.EventGameEnd {
		fmt.Printf("winner: %v\n", last.Data["winner"])
	} else {
		fmt.Println("history ends before game_end; match was cut short")
	}
	fmt.Printf("explosions: %d, defuses: %d, nopes: %d\n",
		counts[game.EventKittenDrawn]-counts[game.EventKittenDefused],
		counts[game.EventKittenDefused],
		counts[game.EventReactionPlayed])
	return nil
}
