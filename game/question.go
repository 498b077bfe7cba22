// Package game holds the in-memory game domain: the question bank, the
// answer matcher, rooms with their phase machine and timers, and the
// process-wide room registry. Nothing here touches the transport; rooms
// emit snapshots through the Broadcaster interface.
package game

import "slices"

// Answer is one keyed answer of a question with its point value.
type Answer struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// Question is a prompt with its ordered answer key. Point values are
// distinct within a question.
type Question struct {
	Prompt  string   `json:"q"`
	Answers []Answer `json:"a"`
}

// Key returns the answer key sorted ascending by points, as revealed to
// the moderator.
func (q Question) Key() []Answer {
	key := slices.Clone(q.Answers)
	slices.SortFunc(key, func(a, b Answer) int { return a.Points - b.Points })
	return key
}
