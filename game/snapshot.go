package game

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// noQuestionPlaceholder is shown while no question is active.
const noQuestionPlaceholder = "—"

// PlayerStanding is a player's row in the snapshot leaderboard.
type PlayerStanding struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// SubmissionView is one submitted answer as shown after it is scored.
type SubmissionView struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// PublicSnapshot is the projection of room state broadcast to every room
// member after each accepted trigger.
type PublicSnapshot struct {
	Code           string `json:"code"`
	Mode           Mode   `json:"mode"`
	Phase          Phase  `json:"phase"`
	QuestionNumber int    `json:"questionNumber"`
	TotalQuestions int    `json:"totalQuestions"`
	Question       string `json:"question"`

	Players     []PlayerStanding `json:"players"`
	Submissions []SubmissionView `json:"submissions"`

	AnsweredCount int `json:"answeredCount"`
	PlayerCount   int `json:"playerCount"`

	TimeLeft          int `json:"timeLeft"`
	QuestionDuration  int `json:"questionDuration"`
	MinPlayersToStart int `json:"minPlayersToStart"`
}

// ModeratorSnapshot extends the public snapshot with the answer key of the
// current question. It is sent only to the moderator connection.
type ModeratorSnapshot struct {
	PublicSnapshot
	Key []Answer `json:"key"`
}

// publicSnapshotLocked projects the room. Callers hold r.mu.
func (r *Room) publicSnapshotLocked() PublicSnapshot {
	col := collate.New(language.Russian)

	prompt := noQuestionPlaceholder
	if q := r.currentQuestionLocked(); q != nil {
		prompt = q.Prompt
	}

	players := make([]PlayerStanding, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, PlayerStanding{Name: p.Name, Score: p.Score})
	}
	slices.SortFunc(players, func(a, b PlayerStanding) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		return col.CompareString(a.Name, b.Name)
	})

	submissions := make([]SubmissionView, 0, len(r.submissions))
	for id, sub := range r.submissions {
		p, ok := r.players[id]
		if !ok {
			continue
		}
		submissions = append(submissions, SubmissionView{Name: p.Name, Text: sub.Text, Points: sub.Points})
	}
	slices.SortFunc(submissions, func(a, b SubmissionView) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}
		return col.CompareString(a.Name, b.Name)
	})

	return PublicSnapshot{
		Code:              r.code,
		Mode:              r.mode,
		Phase:             r.phase,
		QuestionNumber:    r.currentIndex + 1,
		TotalQuestions:    len(r.deck),
		Question:          prompt,
		Players:           players,
		Submissions:       submissions,
		AnsweredCount:     len(r.submissions),
		PlayerCount:       len(r.players),
		TimeLeft:          r.timeLeft,
		QuestionDuration:  r.questionDuration,
		MinPlayersToStart: r.minPlayers,
	}
}

func (r *Room) moderatorSnapshotLocked() ModeratorSnapshot {
	snap := ModeratorSnapshot{PublicSnapshot: r.publicSnapshotLocked(), Key: []Answer{}}
	if q := r.currentQuestionLocked(); q != nil {
		snap.Key = q.Key()
	}
	return snap
}

// PublicState returns the current public snapshot.
func (r *Room) PublicState() PublicSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.publicSnapshotLocked()
}
