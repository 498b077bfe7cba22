package game

import (
	"strings"
	"sync"
	"time"
)

// ClientID identifies one connection. The moderator back-reference is a
// plain ClientID, never a handle that would keep the connection alive.
type ClientID string

// Broadcaster delivers snapshot emissions. Rooms call it synchronously
// with the mutation that produced the snapshot, so per room the emitted
// sequence matches the sequence of accepted triggers.
type Broadcaster interface {
	BroadcastRoom(snapshot PublicSnapshot)
	SendModerator(id ClientID, snapshot ModeratorSnapshot)
}

const (
	maxNameLength   = 24
	maxAnswerLength = 60
	defaultName     = "Игрок"

	autoAdvanceDelay = 3 * time.Second
)

// Player is a room member with a cumulative score.
type Player struct {
	Name  string
	Score int
}

// Submission is one player's answer to the current question.
type Submission struct {
	Text   string
	Points int
}

// Room is an isolated game session. All operations run to completion
// under the room mutex, so no two triggers on the same room interleave.
// The countdown ticker and the delayed auto-advance are the only deferred
// work; both are invalidated by generation tokens so stale callbacks are
// no-ops.
type Room struct {
	mu sync.Mutex

	code         string
	mode         Mode
	phase        Phase
	deck         []Question
	currentIndex int

	players     map[ClientID]*Player
	submissions map[ClientID]*Submission

	moderatorID ClientID // empty when none

	questionDuration int
	timeLeft         int

	minPlayers  int
	autoAdvance bool

	bank        *Bank
	broadcaster Broadcaster

	// timerGen invalidates the countdown goroutine; bumped on every
	// start and stop so at most one countdown is live.
	timerGen  int
	timerStop chan struct{}

	// autoToken invalidates pending auto-advance callbacks.
	autoToken int

	// tickEvery and autoDelay are fixed in production and shortened in
	// tests.
	tickEvery time.Duration
	autoDelay time.Duration

	lastActivity time.Time
}

// NewRoom creates a room in lobby with a freshly built deck. moderator is
// empty for unmoderated modes.
func NewRoom(code string, mode Mode, moderator ClientID, bank *Bank, b Broadcaster, questionCount, questionDuration int) *Room {
	return &Room{
		code:             code,
		mode:             mode,
		phase:            PhaseLobby,
		deck:             bank.BuildDeck(questionCount),
		currentIndex:     -1,
		players:          make(map[ClientID]*Player),
		submissions:      make(map[ClientID]*Submission),
		moderatorID:      moderator,
		questionDuration: clampInt(questionDuration, MinQuestionDuration, MaxQuestionDuration),
		minPlayers:       mode.MinPlayersToStart(),
		autoAdvance:      mode.AutoAdvance(),
		bank:             bank,
		broadcaster:      b,
		tickEvery:        time.Second,
		autoDelay:        autoAdvanceDelay,
		lastActivity:     time.Now(),
	}
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) Mode() Mode {
	return r.mode
}

// Announce broadcasts the current state without mutating it. Used right
// after creation so the creator sees the lobby.
func (r *Room) Announce() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitLocked()
}

// Join adds (or replaces) a player with a zero score. In auto modes
// reaching the mode minimum while in lobby starts the game.
func (r *Room) Join(id ClientID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touchLocked()

	r.players[id] = &Player{Name: safeName(name)}
	r.emitLocked()
	r.maybeAutoStartLocked()
}

// SetDuration updates the per-question duration, clamped to
// [MinQuestionDuration, MaxQuestionDuration] with the previous value as
// fallback. A live countdown is lowered to the new ceiling. Moderator
// only; anything else is a silent no-op.
func (r *Room) SetDuration(id ClientID, seconds *int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) {
		return
	}
	r.touchLocked()

	r.questionDuration = clampOpt(seconds, MinQuestionDuration, MaxQuestionDuration, r.questionDuration)
	if r.phase == PhaseQuestion && r.timeLeft > r.questionDuration {
		r.timeLeft = r.questionDuration
	}
	r.emitLocked()
}

// SetQuestionCount rebuilds the deck at the clamped size. Moderator only,
// lobby only.
func (r *Room) SetQuestionCount(id ClientID, count *int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) || r.phase != PhaseLobby {
		return
	}
	r.touchLocked()

	r.deck = r.bank.BuildDeck(clampOpt(count, MinDeckSize, MaxDeckSize, DefaultDeckSize))
	r.currentIndex = -1
	clear(r.submissions)
	r.timeLeft = 0
	r.emitLocked()
}

// Advance moves from lobby or results to the next question, or to
// finished past the deck end. Moderator only.
func (r *Room) Advance(id ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) {
		return
	}
	if r.phase != PhaseLobby && r.phase != PhaseResults {
		return
	}
	r.touchLocked()
	r.startNextQuestionLocked()
}

// RevealResults stops the countdown and moves a live question to results.
// Moderator only.
func (r *Room) RevealResults(id ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) || r.phase != PhaseQuestion {
		return
	}
	r.touchLocked()

	r.stopCountdownLocked()
	r.timeLeft = 0
	r.phase = PhaseResults
	r.emitLocked()
	r.maybeScheduleAutoNextLocked()
}

// Finish ends the session from any phase. Moderator only.
func (r *Room) Finish(id ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) {
		return
	}
	r.touchLocked()

	r.stopAutoLocked()
	r.stopCountdownLocked()
	r.timeLeft = 0
	r.phase = PhaseFinished
	r.emitLocked()
}

// Reset returns the room to lobby, zeroing scores and submissions.
// Moderator only.
func (r *Room) Reset(id ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isModeratorLocked(id) {
		return
	}
	r.touchLocked()

	r.stopAutoLocked()
	r.stopCountdownLocked()
	r.timeLeft = 0
	r.currentIndex = -1
	r.phase = PhaseLobby
	clear(r.submissions)
	for _, p := range r.players {
		p.Score = 0
	}
	r.emitLocked()
}

// Submit scores the player's answer against the current question and
// records it. At most one submission per player per question; duplicates
// are silent no-ops. When every current player has submitted the room
// moves to results as if the moderator revealed them.
func (r *Room) Submit(id ClientID, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseQuestion {
		return
	}
	if _, dup := r.submissions[id]; dup {
		return
	}
	q := r.currentQuestionLocked()
	if q == nil {
		return
	}
	player, ok := r.players[id]
	if !ok {
		return
	}
	r.touchLocked()

	points := Score(*q, text)
	player.Score += points
	r.submissions[id] = &Submission{
		Text:   truncateRunes(strings.TrimSpace(text), maxAnswerLength),
		Points: points,
	}

	if r.allAnsweredLocked() {
		r.stopCountdownLocked()
		r.timeLeft = 0
		r.phase = PhaseResults
		r.emitLocked()
		r.maybeScheduleAutoNextLocked()
		return
	}

	r.emitLocked()
}

// Disconnect removes the connection from the room. A departing moderator
// is only cleared from the back-reference; a departing player takes their
// submission along, which may complete the current question or, in auto2,
// drop the room back to lobby when the minimum is no longer met.
func (r *Room) Disconnect(id ClientID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.moderatorID == id {
		r.moderatorID = ""
		r.touchLocked()
	}

	if _, ok := r.players[id]; !ok {
		return
	}
	r.touchLocked()
	delete(r.players, id)
	delete(r.submissions, id)

	if r.phase == PhaseQuestion && r.allAnsweredLocked() {
		r.stopCountdownLocked()
		r.timeLeft = 0
		r.phase = PhaseResults
		r.emitLocked()
		r.maybeScheduleAutoNextLocked()
		return
	}

	if r.mode == ModeAuto2 && len(r.players) < r.minPlayers {
		r.stopAutoLocked()
		r.stopCountdownLocked()
		r.timeLeft = 0
		r.phase = PhaseLobby
		clear(r.submissions)
		r.emitLocked()
		return
	}

	r.emitLocked()
}

// Close stops all timers. Called when the registry removes the room.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopAutoLocked()
	r.stopCountdownLocked()
}

// AbandonedSince reports whether the room has had no players and no
// moderator for at least ttl.
func (r *Room) AbandonedSince(ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players) == 0 && r.moderatorID == "" && time.Since(r.lastActivity) >= ttl
}

/* internal transitions, all under r.mu */

func (r *Room) isModeratorLocked(id ClientID) bool {
	return r.moderatorID != "" && r.moderatorID == id
}

func (r *Room) currentQuestionLocked() *Question {
	if r.currentIndex < 0 || r.currentIndex >= len(r.deck) {
		return nil
	}
	return &r.deck[r.currentIndex]
}

func (r *Room) allAnsweredLocked() bool {
	return len(r.players) > 0 && len(r.submissions) >= len(r.players)
}

func (r *Room) startNextQuestionLocked() {
	r.stopAutoLocked()
	r.stopCountdownLocked()

	r.currentIndex++

	if r.currentIndex >= len(r.deck) {
		r.currentIndex = len(r.deck) - 1
		r.phase = PhaseFinished
		r.timeLeft = 0
		r.emitLocked()
		return
	}

	r.phase = PhaseQuestion
	clear(r.submissions)
	r.startCountdownLocked()
	r.emitLocked()
}

func (r *Room) maybeAutoStartLocked() {
	if !r.autoAdvance || r.phase != PhaseLobby || len(r.players) < r.minPlayers {
		return
	}
	r.startNextQuestionLocked()
}

// maybeScheduleAutoNextLocked arms the delayed results→question (or
// →finished on the last entry) transition in auto modes. The captured
// token makes any intervening reset, finish or manual advance turn the
// callback into a no-op.
func (r *Room) maybeScheduleAutoNextLocked() {
	if !r.autoAdvance || r.phase != PhaseResults {
		return
	}

	r.autoToken++
	token := r.autoToken
	time.AfterFunc(r.autoDelay, func() {
		r.autoAdvanceFire(token)
	})
}

func (r *Room) autoAdvanceFire(token int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token != r.autoToken {
		return
	}

	if r.currentIndex+1 >= len(r.deck) {
		r.phase = PhaseFinished
		r.timeLeft = 0
		r.emitLocked()
		return
	}
	r.startNextQuestionLocked()
}

func (r *Room) stopAutoLocked() {
	r.autoToken++
}

func (r *Room) startCountdownLocked() {
	r.stopCountdownLocked()
	r.timeLeft = r.questionDuration

	r.timerGen++
	stop := make(chan struct{})
	r.timerStop = stop
	go r.runCountdown(r.timerGen, stop)
}

// stopCountdownLocked is idempotent: stopping an already stopped timer
// does nothing.
func (r *Room) stopCountdownLocked() {
	r.timerGen++
	if r.timerStop != nil {
		close(r.timerStop)
		r.timerStop = nil
	}
}

func (r *Room) runCountdown(gen int, stop <-chan struct{}) {
	ticker := time.NewTicker(r.tickEvery)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !r.tick(gen) {
				return
			}
		}
	}
}

// tick decrements timeLeft once and reports whether the countdown is
// still live. At zero it stops the timer and, if the question is still
// running, reveals results and schedules the auto-advance.
func (r *Room) tick(gen int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.timerGen {
		return false
	}

	r.timeLeft--
	if r.timeLeft <= 0 {
		r.stopCountdownLocked()
		r.timeLeft = 0
		if r.phase == PhaseQuestion {
			r.phase = PhaseResults
			r.emitLocked()
			r.maybeScheduleAutoNextLocked()
		} else {
			r.emitLocked()
		}
		return false
	}

	r.emitLocked()
	return true
}

func (r *Room) emitLocked() {
	if r.broadcaster == nil {
		return
	}
	r.broadcaster.BroadcastRoom(r.publicSnapshotLocked())
	if r.moderatorID != "" {
		r.broadcaster.SendModerator(r.moderatorID, r.moderatorSnapshotLocked())
	}
}

func (r *Room) touchLocked() {
	r.lastActivity = time.Now()
}

func safeName(name string) string {
	name = truncateRunes(strings.TrimSpace(name), maxNameLength)
	if name == "" {
		return defaultName
	}
	return name
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
