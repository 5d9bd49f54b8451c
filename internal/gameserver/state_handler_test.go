package gameserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuySandler/orbitaldaggers/internal/testutil"
)

func TestPlayerUpdate_PatchAndRelay(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	bob := testutil.NewFakeConn("c2")

	f.join(t, alice, "map1", "alice")
	f.join(t, bob, "map1", "bob")
	alice.Reset()
	bob.Reset()

	f.send(t, alice, map[string]any{
		"type": "player_update",
		"data": map[string]any{"x": 12.5, "y": 30.0, "hp": 80},
	})

	sess, ok := f.registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 12.5, sess.State.X)
	assert.Equal(t, 30.0, sess.State.Y)
	assert.Equal(t, 80, sess.State.HP)

	update := bob.LastOfType("game_state_update")
	require.NotNil(t, update)
	data := update["playerData"].(map[string]any)
	assert.Equal(t, "alice", data["id"])
	assert.Equal(t, 12.5, data["x"])
	assert.Equal(t, 80.0, data["hp"])
	assert.Equal(t, 100.0, data["hp_max"])
	_, hasDaggers := data["daggers"]
	assert.False(t, hasDaggers, "relay carries position and health only")

	assert.Equal(t, 0, alice.CountOfType("game_state_update"), "sender is excluded")
}

func TestPlayerUpdate_UnrecognizedFieldsDropped(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	f.join(t, alice, "map1", "alice")

	f.send(t, alice, map[string]any{
		"type": "player_update",
		"data": map[string]any{"x": 3.0, "speed_multiplier": 99},
	})

	sess, ok := f.registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 3.0, sess.State.X)
}

func TestPlayerUpdate_BeforeJoinIgnored(t *testing.T) {
	f := newFixture(t)
	conn := testutil.NewFakeConn("c1")

	f.send(t, conn, map[string]any{
		"type": "player_update",
		"data": map[string]any{"x": 1.0},
	})

	assert.Empty(t, conn.Frames())
	assert.Equal(t, 0, f.registry.Count())
}

func TestPlayerUpdate_MapIsolation(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	bob := testutil.NewFakeConn("c2")

	f.join(t, alice, "map1", "alice")
	f.join(t, bob, "map2", "bob")
	bob.Reset()

	f.send(t, alice, map[string]any{
		"type": "player_update",
		"data": map[string]any{"x": 1.0},
	})

	assert.Empty(t, bob.Frames(), "updates never cross map boundaries")
}

func TestSpinChange_RelayExcludesSender(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	bob := testutil.NewFakeConn("c2")

	f.send(t, alice, map[string]any{
		"type": "join_map", "map_id": "map1", "requestedPlayerId": "alice",
		"daggers": []map[string]any{{"index": 0, "spin": 1.0}, {"index": 1, "spin": 1.0}},
	})
	f.join(t, bob, "map1", "bob")
	alice.Reset()
	bob.Reset()

	f.send(t, alice, map[string]any{
		"type": "action_spin_change", "daggerIndex": 1, "newSpin": 2.5,
	})

	sess, ok := f.registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 2.5, sess.State.Daggers[1].Spin)
	assert.Equal(t, 1.0, sess.State.Daggers[0].Spin)

	update := bob.LastOfType("dagger_spin_update")
	require.NotNil(t, update)
	assert.Equal(t, "alice", update["playerId"])
	assert.Equal(t, 1.0, update["daggerIndex"])
	assert.Equal(t, 2.5, update["newSpin"])

	assert.Equal(t, 0, alice.CountOfType("dagger_spin_update"))
}

func TestSpinChange_UnequippedSlotIgnored(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	bob := testutil.NewFakeConn("c2")

	f.join(t, alice, "map1", "alice") // joins with no daggers
	f.join(t, bob, "map1", "bob")
	bob.Reset()

	f.send(t, alice, map[string]any{
		"type": "action_spin_change", "daggerIndex": 0, "newSpin": 2.5,
	})
	f.send(t, alice, map[string]any{
		"type": "action_spin_change", "daggerIndex": -1, "newSpin": 2.5,
	})

	assert.Equal(t, 0, bob.CountOfType("dagger_spin_update"))
}

func TestSpinChange_MalformedIgnored(t *testing.T) {
	f := newFixture(t)
	alice := testutil.NewFakeConn("c1")
	f.send(t, alice, map[string]any{
		"type": "join_map", "map_id": "map1", "requestedPlayerId": "alice",
		"daggers": []map[string]any{{"index": 0, "spin": 1.0}},
	})
	alice.Reset()

	f.send(t, alice, map[string]any{"type": "action_spin_change", "newSpin": 2.5})
	f.send(t, alice, map[string]any{"type": "action_spin_change", "daggerIndex": 0})

	sess, ok := f.registry.Get("alice")
	require.True(t, ok)
	assert.Equal(t, 1.0, sess.State.Daggers[0].Spin)
}
