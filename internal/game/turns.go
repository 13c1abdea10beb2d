package game

// TurnManager tracks whose turn it is and how many turns each player still
// owes. Attack stacking lives here so the arithmetic has exactly one home.
type TurnManager struct {
	order   []string
	current int
	turns   map[string]int
}

// NewTurnManager creates a turn manager over the given seating order.
// The first player starts with one turn owed.
func NewTurnManager(order []string) *TurnManager {
	tm := &TurnManager{
		order:   append([]string(nil), order...),
		current: 0,
		turns:   make(map[string]int, len(order)),
	}
	if len(tm.order) > 0 {
		tm.turns[tm.order[0]] = 1
	}
	return tm
}

// Current returns the player whose turn it is, or "" if nobody is seated
func (tm *TurnManager) Current() string {
	if len(tm.order) == 0 {
		return ""
	}
	return tm.order[tm.current]
}

// Order returns a copy of the current seating
func (tm *TurnManager) Order() []string {
	return append([]string(nil), tm.order...)
}

// TurnsRemaining returns how many turns the player still owes
func (tm *TurnManager) TurnsRemaining(player string) int {
	return tm.turns[player]
}

// ConsumeTurn decrements the player's owed turns after a draw or skip.
// Returns the turns still remaining; at zero the caller must Advance.
func (tm *TurnManager) ConsumeTurn(player string) int {
	if tm.turns[player] > 0 {
		tm.turns[player]--
	}
	return tm.turns[player]
}

// Advance moves control to the next seated player. A player with queued
// extra turns (from an Attack) keeps them; otherwise they owe one.
func (tm *TurnManager) Advance() string {
	if len(tm.order) == 0 {
		return ""
	}
	tm.current = (tm.current + 1) % len(tm.order)
	next := tm.order[tm.current]
	if tm.turns[next] == 0 {
		tm.turns[next] = 1
	}
	return next
}

// Attack transfers the acting player's remaining turns, plus two, to the
// next seated player: next owes 2 + max(0, acting-1). The acting player's
// own count drops to zero so chained Attacks stack.
func (tm *TurnManager) Attack(acting string) string {
	next := tm.NextAfter(acting)
	if next == "" || next == acting {
		tm.turns[acting] = 0
		return ""
	}
	carried := tm.turns[acting] - 1
	if carried < 0 {
		carried = 0
	}
	tm.turns[next] = 2 + carried
	tm.turns[acting] = 0
	return next
}

// NextAfter returns the seated player immediately after the given one,
// or "" if the player is unknown or alone.
func (tm *TurnManager) NextAfter(player string) string {
	idx := tm.indexOf(player)
	if idx < 0 || len(tm.order) < 2 {
		return ""
	}
	return tm.order[(idx+1)%len(tm.order)]
}

// ReactionOrder returns every seated player except the trigger player, in
// turn order starting immediately after the trigger. This is the asking
// order for one reaction level.
func (tm *TurnManager) ReactionOrder(trigger string) []string {
	idx := tm.indexOf(trigger)
	if idx < 0 {
		// trigger already removed (eliminated mid-resolution); start the
		// scan from whoever currently holds the turn
		idx = tm.current
		out := make([]string, 0, len(tm.order))
		for i := 0; i < len(tm.order); i++ {
			p := tm.order[(idx+i)%len(tm.order)]
			if p != trigger {
				out = append(out, p)
			}
		}
		return out
	}
	out := make([]string, 0, len(tm.order)-1)
	for i := 1; i < len(tm.order); i++ {
		out = append(out, tm.order[(idx+i)%len(tm.order)])
	}
	return out
}

// Remove unseats an eliminated player. If it was their turn, control lands
// on the next player in order without consuming any of that player's queued
// turns.
func (tm *TurnManager) Remove(player string) {
	idx := tm.indexOf(player)
	if idx < 0 {
		return
	}
	tm.order = append(tm.order[:idx], tm.order[idx+1:]...)
	delete(tm.turns, player)
	if len(tm.order) == 0 {
		tm.current = 0
		return
	}
	if idx < tm.current {
		tm.current--
	} else if tm.current >= len(tm.order) {
		tm.current = 0
	}
	// whoever ends up current must owe at least one turn
	cur := tm.order[tm.current]
	if tm.turns[cur] == 0 {
		tm.turns[cur] = 1
	}
}

func (tm *TurnManager) indexOf(player string) int {
	for i, p := range tm.order {
		if p == player {
			return i
		}
	}
	return -1
}
