package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicSnapshotLobby(t *testing.T) {
	room, _ := newTestRoom(t, ModeAuto2, "")
	room.Join("p1", "Анна")

	snap := room.PublicState()

	assert.Equal(t, "TEST42", snap.Code)
	assert.Equal(t, ModeAuto2, snap.Mode)
	assert.Equal(t, PhaseLobby, snap.Phase)
	assert.Equal(t, 0, snap.QuestionNumber)
	assert.Equal(t, len(testDeck), snap.TotalQuestions)
	assert.Equal(t, "—", snap.Question, "no active question shows the placeholder")
	assert.Equal(t, 1, snap.PlayerCount)
	assert.Equal(t, 0, snap.AnsweredCount)
	assert.Equal(t, 2, snap.MinPlayersToStart)
	assert.Equal(t, 60, snap.QuestionDuration)
}

func TestPublicSnapshotPlayerOrdering(t *testing.T) {
	room, _ := newTestRoom(t, ModeModerated, "mod")
	room.Join("p1", "Борис")
	room.Join("p2", "Анна")
	room.Join("p3", "Вера")

	// Give Вера a score so she leads; Анна and Борис tie at zero and
	// fall back to locale order.
	room.players["p3"].Score = 4

	snap := room.PublicState()
	require.Len(t, snap.Players, 3)
	assert.Equal(t, "Вера", snap.Players[0].Name)
	assert.Equal(t, "Анна", snap.Players[1].Name)
	assert.Equal(t, "Борис", snap.Players[2].Name)
}

func TestPublicSnapshotSubmissionOrdering(t *testing.T) {
	room, _ := newTestRoom(t, ModeModerated, "mod")
	room.Join("p1", "Борис")
	room.Join("p2", "Анна")
	room.Join("p3", "Вера")
	room.Advance("mod")

	room.Submit("p1", "a") // 1 point
	room.Submit("p2", "b") // 2 points
	room.Submit("p3", "c") // 0 points

	// All answered, so the room is already in results.
	snap := room.PublicState()
	require.Equal(t, PhaseResults, snap.Phase)
	require.Len(t, snap.Submissions, 3)
	assert.Equal(t, "Анна", snap.Submissions[0].Name)
	assert.Equal(t, 2, snap.Submissions[0].Points)
	assert.Equal(t, "Борис", snap.Submissions[1].Name)
	assert.Equal(t, "Вера", snap.Submissions[2].Name)
	assert.Equal(t, 3, snap.AnsweredCount)
}

func TestPublicSnapshotQuestionNumber(t *testing.T) {
	room, _ := newTestRoom(t, ModeModerated, "mod")
	room.Join("p1", "Анна")
	room.Advance("mod")

	snap := room.PublicState()
	assert.Equal(t, 1, snap.QuestionNumber, "question numbers are 1-based")
	assert.Equal(t, testDeck[0].Prompt, snap.Question)
}

func TestModeratorSnapshotKey(t *testing.T) {
	deck := []Question{
		{Prompt: "вопрос", Answers: []Answer{{"манго", 5}, {"яблоко", 1}, {"банан", 3}}},
	}
	rec := &recorder{}
	room := NewRoom("TEST42", ModeModerated, "mod", NewBank(deck), rec, 10, 60)
	room.deck = deck
	room.tickEvery = testTick
	t.Cleanup(room.Close)

	room.Join("p1", "Анна")
	room.Advance("mod")

	rec.mu.Lock()
	require.NotEmpty(t, rec.mod)
	key := rec.mod[len(rec.mod)-1].Key
	rec.mu.Unlock()

	require.Len(t, key, 3)
	assert.Equal(t, []Answer{{"яблоко", 1}, {"банан", 3}, {"манго", 5}}, key, "key is sorted ascending by points")
}

func TestModeratorSnapshotOnlyWithModerator(t *testing.T) {
	room, rec := newTestRoom(t, ModeSolo, "")
	room.Join("p1", "Анна")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.NotEmpty(t, rec.public)
	assert.Empty(t, rec.mod, "rooms without a moderator emit no privileged snapshots")
}
