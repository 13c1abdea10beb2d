package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTurns() *TurnManager {
	return NewTurnManager([]string{"a", "b", "c"})
}

func TestTurnManagerStartsWithFirstPlayer(t *testing.T) {
	tm := newTurns()
	assert.Equal(t, "a", tm.Current())
	assert.Equal(t, 1, tm.TurnsRemaining("a"))
	assert.Equal(t, 0, tm.TurnsRemaining("b"))
}

func TestConsumeAndAdvance(t *testing.T) {
	tm := newTurns()
	assert.Equal(t, 0, tm.ConsumeTurn("a"))
	assert.Equal(t, "b", tm.Advance())
	assert.Equal(t, 1, tm.TurnsRemaining("b"))
}

func TestAttackGivesTwoTurnsFromSingle(t *testing.T) {
	tm := newTurns()
	next := tm.Attack("a")
	assert.Equal(t, "b", next)
	assert.Equal(t, 2, tm.TurnsRemaining("b"))
	assert.Equal(t, 0, tm.TurnsRemaining("a"))
}

func TestAttackStacksAgainstQueuedTurns(t *testing.T) {
	tm := newTurns()
	tm.Attack("a") // b owes 2
	next := tm.Attack("b")
	assert.Equal(t, "c", next)
	assert.Equal(t, 3, tm.TurnsRemaining("c"), "2 plus b's unconsumed extra")
	assert.Equal(t, 0, tm.TurnsRemaining("b"))

	// c attacks too: wraps around, a owes 2+2
	assert.Equal(t, "a", tm.Attack("c"))
	assert.Equal(t, 4, tm.TurnsRemaining("a"))
}

func TestAttackAfterConsumingOneTurn(t *testing.T) {
	tm := newTurns()
	tm.Attack("a") // b owes 2
	tm.Advance()   // control moves to b
	tm.ConsumeTurn("b")
	assert.Equal(t, 1, tm.TurnsRemaining("b"))

	// attacking with one turn left carries nothing extra
	tm.Attack("b")
	assert.Equal(t, 2, tm.TurnsRemaining("c"))
}

func TestAttackWithNoOpponentFizzles(t *testing.T) {
	tm := NewTurnManager([]string{"solo"})
	assert.Empty(t, tm.Attack("solo"))
	assert.Equal(t, 0, tm.TurnsRemaining("solo"))
}

func TestAdvanceKeepsQueuedTurns(t *testing.T) {
	tm := newTurns()
	tm.Attack("a") // b owes 2
	assert.Equal(t, "b", tm.Advance())
	assert.Equal(t, 2, tm.TurnsRemaining("b"), "advance must not reset a stack")
}

func TestReactionOrderStartsAfterTrigger(t *testing.T) {
	tm := newTurns()
	assert.Equal(t, []string{"c", "a"}, tm.ReactionOrder("b"))
	assert.Equal(t, []string{"b", "c"}, tm.ReactionOrder("a"))
}

func TestReactionOrderForUnseatedTrigger(t *testing.T) {
	tm := newTurns()
	tm.Remove("b")
	order := tm.ReactionOrder("b")
	assert.NotContains(t, order, "b")
	assert.Len(t, order, 2)
}

func TestRemoveCurrentPlayerPassesControl(t *testing.T) {
	tm := newTurns()
	tm.Remove("a")
	assert.Equal(t, "b", tm.Current())
	assert.Equal(t, 1, tm.TurnsRemaining("b"))
	assert.Equal(t, []string{"b", "c"}, tm.Order())
}

func TestRemoveEarlierPlayerKeepsCurrent(t *testing.T) {
	tm := newTurns()
	tm.ConsumeTurn("a")
	tm.Advance()
	tm.Advance() // current is c
	tm.Remove("a")
	assert.Equal(t, "c", tm.Current())
}

func TestRemoveLastSeatWrapsCurrent(t *testing.T) {
	tm := newTurns()
	tm.Advance()
	tm.Advance() // current is c
	tm.Remove("c")
	assert.Equal(t, "a", tm.Current())
	assert.GreaterOrEqual(t, tm.TurnsRemaining("a"), 1)
}

func TestRemoveEveryoneIsSafe(t *testing.T) {
	tm := newTurns()
	tm.Remove("a")
	tm.Remove("b")
	tm.Remove("c")
	assert.Empty(t, tm.Current())
	assert.Empty(t, tm.Advance())
}
