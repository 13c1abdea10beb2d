package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardIdentity(t *testing.T) {
	f := &cardFactory{}
	a := f.mint(Skip)
	b := f.mint(Skip)

	assert.NotEqual(t, a.ID(), b.ID(), "every card gets its own serial")
	assert.Equal(t, a.Type(), b.Type())
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, f.minted())
}

func TestCardString(t *testing.T) {
	f := &cardFactory{}
	c := f.mint(TacoCat)
	assert.Equal(t, "taco_cat#1", c.String())
}

func TestIsCat(t *testing.T) {
	for _, typ := range []CardType{TacoCat, BeardCat, RainbowCat, PotatoCat, Cattermelon} {
		assert.True(t, typ.IsCat(), typ)
	}
	for _, typ := range []CardType{Skip, Attack, Nope, Kitten, Defuse, SeeTheFuture} {
		assert.False(t, typ.IsCat(), typ)
	}
}

func TestDefaultDeckPlayableExcludesKittensAndDefuses(t *testing.T) {
	cfg := DefaultDeckConfig()
	require.Greater(t, cfg[Kitten], 0)
	require.Greater(t, cfg[Defuse], 0)

	total := 0
	for typ, n := range cfg {
		if typ != Kitten && typ != Defuse {
			total += n
		}
	}
	assert.Equal(t, total, cfg.playable())
}

func TestBehaviorGates(t *testing.T) {
	v := &View{} // gates below do not consult hand contents

	cases := []struct {
		typ      CardType
		canPlay  bool
		canReact bool
		canCombo bool
	}{
		{Skip, true, false, false},
		{Attack, true, false, false},
		{Shuffle, true, false, false},
		{SeeTheFuture, true, false, false},
		{Nope, false, true, false},
		{TacoCat, false, false, true},
		{BeardCat, false, false, true},
		{RainbowCat, false, false, true},
		{PotatoCat, false, false, true},
		{Cattermelon, false, false, true},
		{Kitten, false, false, false},
		{Defuse, false, false, false},
	}
	for _, tc := range cases {
		b := BehaviorFor(tc.typ)
		require.NotNil(t, b, tc.typ)
		assert.Equal(t, tc.canPlay, b.CanPlay(v, true), "%s CanPlay", tc.typ)
		assert.Equal(t, tc.canReact, b.CanReact(), "%s CanReact", tc.typ)
		assert.Equal(t, tc.canCombo, b.CanCombo(), "%s CanCombo", tc.typ)
	}
}

func TestFavorNeedsSomeoneToAsk(t *testing.T) {
	b := BehaviorFor(Favor)
	require.NotNil(t, b)

	lonely := &View{OtherHandCounts: map[string]int{"b": 0}}
	assert.False(t, b.CanPlay(lonely, true), "favor with nobody holding cards")

	flush := &View{OtherHandCounts: map[string]int{"b": 2}}
	assert.True(t, b.CanPlay(flush, true))
}

func TestNothingPlayableOffTurn(t *testing.T) {
	v := &View{OtherHandCounts: map[string]int{"b": 2}}
	for _, typ := range []CardType{Skip, Attack, Favor, Shuffle, SeeTheFuture} {
		assert.False(t, BehaviorFor(typ).CanPlay(v, false), typ)
	}
}

func TestBehaviorForUnknownType(t *testing.T) {
	assert.Nil(t, BehaviorFor(CardType("time_travel")))
}
