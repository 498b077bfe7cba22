package game

import (
	"math/rand"
	"slices"
)

// Deck size bounds, also the clamp range for the question-count setting.
const (
	MinDeckSize     = 10
	MaxDeckSize     = 20
	DefaultDeckSize = 10
)

// Question duration clamp range in seconds.
const (
	MinQuestionDuration     = 10
	MaxQuestionDuration     = 300
	DefaultQuestionDuration = 60
)

// Bank is a read-only collection of questions that decks are drawn from.
// It is safe for concurrent use once built.
type Bank struct {
	questions []Question
}

func NewBank(questions []Question) *Bank {
	return &Bank{questions: slices.Clone(questions)}
}

func (b *Bank) Size() int {
	return len(b.questions)
}

// BuildDeck draws count questions (clamped to [MinDeckSize, MaxDeckSize])
// without replacement via an unbiased shuffle, keeping the shuffled order
// as play order. A bank smaller than the requested count yields a shorter
// deck rather than an error. Every call reshuffles.
func (b *Bank) BuildDeck(count int) []Question {
	limit := clampInt(count, MinDeckSize, MaxDeckSize)

	deck := slices.Clone(b.questions)
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	if len(deck) > limit {
		deck = deck[:limit]
	}
	return deck
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampOpt clamps *v into [min, max], falling back to the previous value
// when the field was absent or not numeric.
func clampOpt(v *int, min, max, previous int) int {
	if v == nil {
		return previous
	}
	return clampInt(*v, min, max)
}

// DefaultBank is the built-in question set used when no external bank is
// loaded.
func DefaultBank() *Bank {
	return NewBank(defaultQuestions)
}

var defaultQuestions = []Question{
	{Prompt: "Назовите популярный фрукт", Answers: []Answer{{"яблоко", 1}, {"банан", 2}, {"апельсин", 3}, {"виноград", 4}, {"манго", 5}}},
	{Prompt: "Назовите вид транспорта", Answers: []Answer{{"автобус", 1}, {"машина", 2}, {"поезд", 3}, {"самолет", 4}, {"метро", 5}}},
	{Prompt: "Назовите школьный предмет", Answers: []Answer{{"математика", 1}, {"русский язык", 2}, {"история", 3}, {"география", 4}, {"физика", 5}}},
	{Prompt: "Назовите домашнее животное", Answers: []Answer{{"кот", 1}, {"собака", 2}, {"хомяк", 3}, {"попугай", 4}, {"рыбки", 5}}},
	{Prompt: "Назовите напиток", Answers: []Answer{{"чай", 1}, {"кофе", 2}, {"вода", 3}, {"сок", 4}, {"лимонад", 5}}},
	{Prompt: "Назовите профессию", Answers: []Answer{{"врач", 1}, {"учитель", 2}, {"повар", 3}, {"инженер", 4}, {"водитель", 5}}},
	{Prompt: "Назовите время года", Answers: []Answer{{"лето", 1}, {"зима", 2}, {"весна", 3}, {"осень", 4}, {"дождь", 5}}},
	{Prompt: "Назовите цвет", Answers: []Answer{{"красный", 1}, {"синий", 2}, {"зелёный", 3}, {"чёрный", 4}, {"белый", 5}}},
	{Prompt: "Назовите популярное блюдо", Answers: []Answer{{"пицца", 1}, {"бургер", 2}, {"пельмени", 3}, {"суп", 4}, {"салат", 5}}},
	{Prompt: "Назовите часть тела", Answers: []Answer{{"рука", 1}, {"нога", 2}, {"голова", 3}, {"глаз", 4}, {"сердце", 5}}},
	{Prompt: "Назовите предмет мебели", Answers: []Answer{{"стол", 1}, {"стул", 2}, {"кровать", 3}, {"шкаф", 4}, {"диван", 5}}},
	{Prompt: "Назовите бытовую технику", Answers: []Answer{{"холодильник", 1}, {"телевизор", 2}, {"пылесос", 3}, {"микроволновка", 4}, {"стиральная машина", 5}}},
	{Prompt: "Назовите вид спорта", Answers: []Answer{{"футбол", 1}, {"баскетбол", 2}, {"хоккей", 3}, {"теннис", 4}, {"плавание", 5}}},
	{Prompt: "Назовите город в России", Answers: []Answer{{"москва", 1}, {"санкт-петербург", 2}, {"казань", 3}, {"новосибирск", 4}, {"екатеринбург", 5}}},
	{Prompt: "Назовите музыкальный инструмент", Answers: []Answer{{"гитара", 1}, {"пианино", 2}, {"барабаны", 3}, {"скрипка", 4}, {"флейта", 5}}},
	{Prompt: "Назовите приложение в телефоне", Answers: []Answer{{"ютуб", 1}, {"телеграм", 2}, {"вконтакте", 3}, {"инстаграм", 4}, {"тик ток", 5}}},
	{Prompt: "Назовите школьную принадлежность", Answers: []Answer{{"тетрадь", 1}, {"ручка", 2}, {"карандаш", 3}, {"линейка", 4}, {"дневник", 5}}},
	{Prompt: "Назовите комнату в доме", Answers: []Answer{{"кухня", 1}, {"спальня", 2}, {"гостиная", 3}, {"ванная", 4}, {"коридор", 5}}},
	{Prompt: "Назовите праздник", Answers: []Answer{{"новый год", 1}, {"день рождения", 2}, {"8 марта", 3}, {"23 февраля", 4}, {"пасха", 5}}},
	{Prompt: "Назовите часть дома", Answers: []Answer{{"дверь", 1}, {"окно", 2}, {"стена", 3}, {"крыша", 4}, {"пол", 5}}},
	{Prompt: "Назовите животное из леса", Answers: []Answer{{"волк", 1}, {"лиса", 2}, {"медведь", 3}, {"заяц", 4}, {"лось", 5}}},
	{Prompt: "Назовите предмет в школе", Answers: []Answer{{"доска", 1}, {"парта", 2}, {"учебник", 3}, {"мел", 4}, {"портфель", 5}}},
	{Prompt: "Назовите популярный мессенджер", Answers: []Answer{{"телеграм", 1}, {"ватсап", 2}, {"вайбер", 3}, {"дискорд", 4}, {"сигнал", 5}}},
	{Prompt: "Назовите предмет на кухне", Answers: []Answer{{"ложка", 1}, {"вилка", 2}, {"тарелка", 3}, {"нож", 4}, {"кастрюля", 5}}},
	{Prompt: "Назовите сладость", Answers: []Answer{{"шоколад", 1}, {"конфета", 2}, {"печенье", 3}, {"торт", 4}, {"мороженое", 5}}},
}
