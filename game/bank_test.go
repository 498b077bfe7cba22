package game_test

import (
	"fmt"
	"testing"

	"quizparty/game"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bigBank(n int) *game.Bank {
	questions := make([]game.Question, n)
	for i := range questions {
		questions[i] = game.Question{
			Prompt:  fmt.Sprintf("вопрос %d", i),
			Answers: []game.Answer{{Text: fmt.Sprintf("ответ %d", i), Points: 1}},
		}
	}
	return game.NewBank(questions)
}

func TestBuildDeckClamping(t *testing.T) {
	bank := bigBank(30)

	tests := []struct {
		name  string
		count int
		want  int
	}{
		{"below minimum clamps up", 5, game.MinDeckSize},
		{"zero clamps up", 0, game.MinDeckSize},
		{"negative clamps up", -3, game.MinDeckSize},
		{"within range", 15, 15},
		{"above maximum clamps down", 25, game.MaxDeckSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, bank.BuildDeck(tt.count), tt.want)
		})
	}
}

func TestBuildDeckShortBank(t *testing.T) {
	bank := bigBank(4)

	deck := bank.BuildDeck(15)
	assert.Len(t, deck, 4, "a short bank yields a short deck instead of failing")
}

func TestBuildDeckDrawsWithoutReplacement(t *testing.T) {
	bank := bigBank(30)

	deck := bank.BuildDeck(20)
	seen := make(map[string]bool, len(deck))
	for _, q := range deck {
		require.False(t, seen[q.Prompt], "question %q drawn twice", q.Prompt)
		seen[q.Prompt] = true
	}
}

func TestBuildDeckReshuffles(t *testing.T) {
	bank := bigBank(30)

	// With 30 questions and 20 slots, ten identical consecutive decks
	// mean the shuffle is broken.
	first := bank.BuildDeck(20)
	for i := 0; i < 10; i++ {
		next := bank.BuildDeck(20)
		if !equalDecks(first, next) {
			return
		}
	}
	t.Fatal("BuildDeck returned the same deck ten times in a row")
}

func equalDecks(a, b []game.Question) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Prompt != b[i].Prompt {
			return false
		}
	}
	return true
}

func TestDefaultBank(t *testing.T) {
	bank := game.DefaultBank()
	require.GreaterOrEqual(t, bank.Size(), game.MaxDeckSize)

	for _, q := range bank.BuildDeck(game.MaxDeckSize) {
		require.NotEmpty(t, q.Prompt)
		require.NotEmpty(t, q.Answers)

		points := make(map[int]bool, len(q.Answers))
		for _, a := range q.Answers {
			require.NotEmpty(t, a.Text)
			require.False(t, points[a.Points], "duplicate point value in %q", q.Prompt)
			points[a.Points] = true
		}
	}
}
