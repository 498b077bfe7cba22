package game_test

import (
	"strings"
	"testing"
	"time"

	"quizparty/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistryRoom(reg *game.Registry, mode game.Mode, moderator game.ClientID) *game.Room {
	return reg.CreateRoom(func(code string) *game.Room {
		return game.NewRoom(code, mode, moderator, game.DefaultBank(), nil, 10, 60)
	})
}

func TestRegistryCreateAndGet(t *testing.T) {
	reg := game.NewRegistry(0)
	defer reg.Stop()

	room := newRegistryRoom(reg, game.ModeModerated, "mod")
	require.NotNil(t, room)
	require.Len(t, room.Code(), 6)

	assert.Same(t, room, reg.Get(room.Code()))
	assert.Same(t, room, reg.Get(strings.ToLower(room.Code())), "lookup is case-insensitive")
	assert.Same(t, room, reg.Get(" "+room.Code()+" "))
	assert.Nil(t, reg.Get("NOPE99"))
}

func TestRegistryUniqueCodes(t *testing.T) {
	reg := game.NewRegistry(0)
	defer reg.Stop()

	const n = 50
	for i := 0; i < n; i++ {
		newRegistryRoom(reg, game.ModeSolo, "")
	}

	assert.Equal(t, n, reg.Len())
}

func TestRegistryRemove(t *testing.T) {
	reg := game.NewRegistry(0)
	defer reg.Stop()

	room := newRegistryRoom(reg, game.ModeModerated, "mod")
	reg.Remove(room.Code())

	assert.Nil(t, reg.Get(room.Code()))
	assert.Equal(t, 0, reg.Len())

	// Removing twice is harmless.
	reg.Remove(room.Code())
}

func TestRegistryOnRemoveHook(t *testing.T) {
	reg := game.NewRegistry(0)
	defer reg.Stop()

	var removed []string
	reg.OnRemove(func(code string) {
		removed = append(removed, code)
	})

	room := newRegistryRoom(reg, game.ModeModerated, "mod")
	reg.Remove(room.Code())
	reg.Remove(room.Code())

	assert.Equal(t, []string{room.Code()}, removed, "hook fires once per removal")
}

func TestRegistryJanitorRemovesAbandonedRooms(t *testing.T) {
	reg := game.NewRegistry(20 * time.Millisecond)
	defer reg.Stop()

	abandoned := newRegistryRoom(reg, game.ModeModerated, "mod")
	occupied := newRegistryRoom(reg, game.ModeModerated, "mod2")
	occupied.Join("p1", "Анна")

	// Clearing the moderator leaves the first room with nobody in it.
	abandoned.Disconnect("mod")

	require.Eventually(t, func() bool {
		return reg.Get(abandoned.Code()) == nil
	}, time.Second, 5*time.Millisecond, "abandoned room must be cleaned up")

	assert.Same(t, occupied, reg.Get(occupied.Code()), "occupied rooms stay")
}

func TestRegistryZeroTTLDisablesJanitor(t *testing.T) {
	reg := game.NewRegistry(0)
	defer reg.Stop()

	room := newRegistryRoom(reg, game.ModeModerated, "mod")
	room.Disconnect("mod")

	time.Sleep(50 * time.Millisecond)
	assert.Same(t, room, reg.Get(room.Code()))
}
