package game

import (
	"encoding/json"
	"fmt"

	"github.com/lox/kittenforbots/internal/fileutil"
)

// History is the append-only, ordered log of everything that happened in a
// match. It is the source of truth for replay: two runs with the same seed
// and the same bots produce byte-identical histories.
type History struct {
	events []Event
	step   int
}

// NewHistory creates an empty history
func NewHistory() *History {
	return &History{}
}

// Record appends a new event and returns it. Steps increase by exactly one
// per event; events are never mutated after this call.
func (h *History) Record(typ EventType, player string, data map[string]any) Event {
	h.step++
	ev := Event{
		Type:   typ,
		Step:   h.step,
		Player: player,
		Data:   data,
	}
	h.events = append(h.events, ev)
	return ev
}

// Events returns a copy of the full event log
func (h *History) Events() []Event {
	return append([]Event(nil), h.events...)
}

// Len returns the number of recorded events
func (h *History) Len() int {
	return len(h.events)
}

// Last returns the most recent event of the given type, if any
func (h *History) Last(typ EventType) (Event, bool) {
	for i := len(h.events) - 1; i >= 0; i-- {
		if h.events[i].Type == typ {
			return h.events[i], true
		}
	}
	return Event{}, false
}

// MarshalJSON serializes the history as a JSON array of events
func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.events)
}

// SaveToFile writes the serialized history atomically. Readers see either
// no file or the complete log, never a partial write.
func (h *History) SaveToFile(path string) error {
	data, err := json.MarshalIndent(h.events, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}
