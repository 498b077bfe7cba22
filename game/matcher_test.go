package game_test

import (
	"testing"

	"quizparty/game"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "ЯБЛОКО", "яблоко"},
		{"trims whitespace", "  чай \t", "чай"},
		{"folds ye", "ёлка", "елка"},
		{"folds uppercase ye", "Ёж", "еж"},
		{"latin passes through", "  ABC ", "abc"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"inner spaces kept", " новый  год ", "новый  год"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.Normalize(tt.input))
		})
	}
}

func TestScore(t *testing.T) {
	question := game.Question{
		Prompt: "латинские буквы",
		Answers: []game.Answer{
			{Text: "a", Points: 1},
			{Text: "b", Points: 2},
		},
	}

	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"exact match", "a", 1},
		{"case and whitespace insensitive", " B ", 2},
		{"no match", "c", 0},
		{"empty input", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, game.Score(question, tt.input))
		})
	}
}

func TestScoreSpellingVariants(t *testing.T) {
	question := game.Question{
		Prompt:  "цвет",
		Answers: []game.Answer{{Text: "зелёный", Points: 3}},
	}

	// The variant spelling scores exactly like the canonical form.
	assert.Equal(t, 3, game.Score(question, "зелёный"))
	assert.Equal(t, 3, game.Score(question, "зеленый"))
	assert.Equal(t, 3, game.Score(question, " ЗЕЛЕНЫЙ "))
}

func TestScoreFirstKeyWins(t *testing.T) {
	question := game.Question{
		Prompt: "ёж",
		Answers: []game.Answer{
			{Text: "ёж", Points: 1},
			{Text: "еж", Points: 5},
		},
	}

	assert.Equal(t, 1, game.Score(question, "еж"), "first matching key in order wins")
}

func TestQuestionKeySortedAscending(t *testing.T) {
	question := game.Question{
		Prompt: "фрукт",
		Answers: []game.Answer{
			{Text: "манго", Points: 5},
			{Text: "яблоко", Points: 1},
			{Text: "банан", Points: 3},
		},
	}

	key := question.Key()
	assert.Equal(t, []game.Answer{
		{Text: "яблоко", Points: 1},
		{Text: "банан", Points: 3},
		{Text: "манго", Points: 5},
	}, key)

	// The question's own answer order is untouched.
	assert.Equal(t, "манго", question.Answers[0].Text)
}
