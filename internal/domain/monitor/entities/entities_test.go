package entities

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_RoundTrip(t *testing.T) {
	k := Key{ChatID: -1001234567890, MessageID: 77}
	assert.Equal(t, "-1001234567890:77", k.String())

	parsed, err := ParseKey(" -1001234567890:77 ")
	require.NoError(t, err)
	assert.Equal(t, k, parsed)
}

func TestParseKey_Malformed(t *testing.T) {
	for _, raw := range []string{"", "abc", ":5", "-100:", "-100:x", "x:5", "-100:0"} {
		_, err := ParseKey(raw)
		assert.Error(t, err, raw)
	}
}

func TestToggleReaction_Parity(t *testing.T) {
	palette := []string{"👍", "🔥", "❤️", "😂"}
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		m := NewDraft(1, 2, Key{ChatID: -1, MessageID: 1}, time.Now())
		toggles := map[string]int{}

		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			e := palette[rng.Intn(len(palette))]
			m.ToggleReaction(e)
			toggles[e]++
		}

		for _, e := range palette {
			assert.Equal(t, toggles[e]%2 == 1, m.HasReaction(e), "emoji %s after %d toggles", e, toggles[e])
		}
	}
}

func TestToggleReaction_KeepsInsertionOrder(t *testing.T) {
	m := &Monitor{}
	m.ToggleReaction("👍")
	m.ToggleReaction("🔥")
	m.ToggleReaction("❤️")
	m.ToggleReaction("🔥")
	m.ToggleReaction("🔥")

	assert.Equal(t, []string{"👍", "❤️", "🔥"}, m.Reactions)
}

func TestMonitor_Ready(t *testing.T) {
	m := &Monitor{}
	assert.False(t, m.Ready())

	m.ToggleReaction("👍")
	assert.False(t, m.Ready())

	m.Threshold = 3
	assert.True(t, m.Ready())
}

func TestMonitor_CloneIsDeep(t *testing.T) {
	m := &Monitor{Reactions: []string{"👍"}, LastCounts: map[string]int{"👍": 1}}
	c := m.Clone()

	c.Reactions[0] = "🔥"
	c.LastCounts["👍"] = 9

	assert.Equal(t, "👍", m.Reactions[0])
	assert.Equal(t, 1, m.LastCounts["👍"])
	assert.Nil(t, (*Monitor)(nil).Clone())
}
