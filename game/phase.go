package game

// Phase is the room's current stage.
type Phase string

const (
	PhaseLobby    Phase = "lobby"    // waiting for players / configuration
	PhaseQuestion Phase = "question" // active question with countdown
	PhaseResults  Phase = "results"  // answer key revealed, scores settled
	PhaseFinished Phase = "finished" // terminal
)

func (p Phase) String() string {
	return string(p)
}

// Mode governs who drives phase transitions and how many players are
// needed before an unmoderated room starts itself.
type Mode string

const (
	ModeModerated Mode = "host"  // a human moderator drives transitions
	ModeSolo      Mode = "solo"  // single player, system auto-advances
	ModeAuto2     Mode = "auto2" // 2+ players, starts at 2, auto-advances
)

func (m Mode) String() string {
	return string(m)
}

// AutoAdvance reports whether the system advances phases without a
// moderator in this mode.
func (m Mode) AutoAdvance() bool {
	return m == ModeSolo || m == ModeAuto2
}

// MinPlayersToStart is the player count that triggers auto-start in
// lobby. Moderated rooms start on moderator action only.
func (m Mode) MinPlayersToStart() int {
	if m == ModeAuto2 {
		return 2
	}
	return 1
}
