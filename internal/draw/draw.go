// Package draw implements the scheduling core: standings, meeting and
// conflict history, power-paired room generation, and panel allocation.
// Everything operates on immutable in-memory snapshots and is deterministic
// given identical inputs.
package draw

// Team is the scheduling view of one competing team.
type Team struct {
	ID          int
	Name        string
	Institution int // 0 for independent teams
}

// Adjudicator is the scheduling view of one judge.
type Adjudicator struct {
	ID          int
	Name        string
	Institution int // 0 when unaffiliated
	Experience  int // ordinal, higher is more senior
	Independent bool
}

// TeamResult is one team's confirmed outcome in one room.
type TeamResult struct {
	TeamID int
	Win    bool
	Score  float64 // total speaker score
}

// RoomResult is the confirmed result of one room in a completed round.
type RoomResult struct {
	Teams  []TeamResult
	Judges []int // adjudicator IDs on the panel
	Bye    bool
}

// CompletedRound is the scheduling view of one completed round.
type CompletedRound struct {
	Sequence int
	Rooms    []RoomResult
}

// Standing is one team's derived rank at a round boundary.
type Standing struct {
	Rank         int
	Team         Team
	Wins         int
	SpeakerScore float64
}

// Room is one room in a generated draw. Teams are listed in side order;
// bye rooms hold a single team.
type Room struct {
	Rank  int // 1 is the top room
	Teams []Team
	Bye   bool
}

// Panel is the adjudicator assignment for one room.
type Panel struct {
	RoomRank int
	Chair    Adjudicator
	Wings    []Adjudicator
}

// Size returns the total number of adjudicators on the panel.
func (p Panel) Size() int {
	return 1 + len(p.Wings)
}
