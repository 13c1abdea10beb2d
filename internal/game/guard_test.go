package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(bot Bot, clock quartz.Clock) *botGuard {
	return newBotGuard(bot, clock, time.Second, testLogger())
}

func TestGuardTimeoutIsReported(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mock := quartz.NewMock(t)
	trap := mock.Trap().AfterFunc()
	defer trap.Close()

	stall := make(chan struct{})
	defer close(stall)
	g := newGuard(&scriptBot{name: "x", onTurn: func(v *View) Action {
		<-stall
		return DrawAction()
	}}, mock)

	type result struct {
		act Action
		err error
	}
	done := make(chan result, 1)
	go func() {
		act, err := g.takeTurn(&View{})
		done <- result{act, err}
	}()

	// wait for the deadline timer to be armed, then blow past it
	call := trap.MustWait(ctx)
	call.MustRelease(ctx)
	mock.Advance(time.Second).MustWait(ctx)

	res := <-done
	require.ErrorIs(t, res.err, ErrBotTimeout)
}

func TestGuardPanicDegradesToDraw(t *testing.T) {
	g := newGuard(&scriptBot{name: "x", onTurn: func(v *View) Action {
		panic("bot bug")
	}}, quartz.NewReal())

	act, err := g.takeTurn(&View{})
	require.NoError(t, err, "a panic is not a timeout")
	assert.Equal(t, Draw, act.Type)
}

func TestGuardPanicDegradesToDecline(t *testing.T) {
	g := newGuard(&scriptBot{name: "x", onReact: func(v *View, trigger Event) Action {
		panic("bot bug")
	}}, quartz.NewReal())

	act, err := g.react(&View{}, Event{Type: EventCardPlayed})
	require.NoError(t, err)
	assert.True(t, act.IsPass())
}

func TestGuardClampsDefusePosition(t *testing.T) {
	g := newGuard(&scriptBot{name: "x", defusePos: func(v *View, size int) int {
		return 999
	}}, quartz.NewReal())

	pos, err := g.chooseDefusePosition(&View{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, pos)

	g = newGuard(&scriptBot{name: "x", defusePos: func(v *View, size int) int {
		return -3
	}}, quartz.NewReal())
	pos, err = g.chooseDefusePosition(&View{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestGuardRejectsForeignTarget(t *testing.T) {
	g := newGuard(&scriptBot{name: "x", pickTarget: func(v *View, candidates []string) string {
		return "nobody"
	}}, quartz.NewReal())

	target, err := g.chooseTarget(&View{}, []string{"b", "c"})
	require.NoError(t, err)
	assert.Equal(t, "b", target, "bad answers fall back to the first candidate")
}

func TestGuardPanicInChoiceUsesDefaults(t *testing.T) {
	boom := &scriptBot{
		name:       "x",
		pickTarget: func(v *View, candidates []string) string { panic("boom") },
		nameType:   func(v *View, target string) CardType { panic("boom") },
		giveCard:   func(v *View, requester string) *Card { panic("boom") },
	}
	g := newGuard(boom, quartz.NewReal())

	target, err := g.chooseTarget(&View{}, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, "b", target)

	typ, err := g.chooseCardType(&View{}, "b")
	require.NoError(t, err)
	assert.Equal(t, Defuse, typ)

	card, err := g.chooseCardToGive(&View{}, "b")
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestGuardCopiesChoiceInputs(t *testing.T) {
	g := newGuard(&scriptBot{name: "x", pickTarget: func(v *View, candidates []string) string {
		candidates[0] = "mallory"
		return candidates[0]
	}}, quartz.NewReal())

	candidates := []string{"b", "c"}
	target, err := g.chooseTarget(&View{}, candidates)
	require.NoError(t, err)
	assert.Equal(t, "b", target, "mutated copy cannot smuggle in a fake candidate")
	assert.Equal(t, []string{"b", "c"}, candidates)
}
