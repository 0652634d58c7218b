package models

// RoundStatus tracks a round through its lifecycle
type RoundStatus string

const (
	RoundPending    RoundStatus = "pending"
	RoundDrawn      RoundStatus = "drawn"
	RoundInProgress RoundStatus = "in_progress"
	RoundCompleted  RoundStatus = "completed"
)

// ByePolicy controls what happens when the roster does not divide evenly into rooms
type ByePolicy string

const (
	ByeLowestRank ByePolicy = "lowest_rank_bye"
	ByeNone       ByePolicy = "no_bye"
)

// PairingMethod selects the within-bracket seeding rule
type PairingMethod string

const (
	PairAdjacent PairingMethod = "adjacent"
	PairFold     PairingMethod = "fold"
)

// Tournament represents one tournament instance with its draw configuration
type Tournament struct {
	ID                    int           `json:"id"`
	Name                  string        `json:"name"`
	Abbreviation          string        `json:"abbreviation"`
	SidesPerRoom          int           `json:"sides_per_room"`
	PanelSize             int           `json:"panel_size"`
	AvoidInstitutionClash bool          `json:"avoid_institution_clash"`
	ByePolicy             ByePolicy     `json:"bye_policy"`
	PairingMethod         PairingMethod `json:"pairing_method"`
	TieBreakSeed          *int64        `json:"tie_break_seed,omitempty"`
}

// Institution represents a school or club that teams and adjudicators belong to
type Institution struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Team represents a competing team
type Team struct {
	ID            int    `json:"id"`
	TournamentID  int    `json:"tournament_id"`
	InstitutionID *int   `json:"institution_id,omitempty"` // nil for independent teams
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation"`
}

// Speaker represents one member of a team
type Speaker struct {
	ID       int    `json:"id"`
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Adjudicator represents a judge registered for a tournament
type Adjudicator struct {
	ID            int    `json:"id"`
	TournamentID  int    `json:"tournament_id"`
	InstitutionID *int   `json:"institution_id,omitempty"`
	Name          string `json:"name"`
	Experience    int    `json:"experience"`  // ordinal, higher is more senior
	Independent   bool   `json:"independent"` // no own-institution conflict
	BallotKey     string `json:"-"`           // private ballot-entry credential
}

// Round represents one round of a tournament
type Round struct {
	ID           int         `json:"id"`
	TournamentID int         `json:"tournament_id"`
	Sequence     int         `json:"sequence"`
	Name         string      `json:"name"`
	Abbreviation string      `json:"abbreviation"`
	Status       RoundStatus `json:"status"`
}

// Motion represents the topic debated in a round
type Motion struct {
	ID        int    `json:"id"`
	RoundID   int    `json:"round_id"`
	Text      string `json:"text"`
	InfoSlide string `json:"info_slide,omitempty"`
}

// Debate represents one room in a round's draw
type Debate struct {
	ID       int  `json:"id"`
	RoundID  int  `json:"round_id"`
	RoomRank int  `json:"room_rank"` // 1 is the top room
	IsBye    bool `json:"is_bye"`
}

// DebateTeam assigns a team to a side of a debate
type DebateTeam struct {
	DebateID int `json:"debate_id"`
	TeamID   int `json:"team_id"`
	Position int `json:"position"` // side order within the room
}

// DebateJudge assigns an adjudicator to a debate's panel
type DebateJudge struct {
	DebateID      int  `json:"debate_id"`
	AdjudicatorID int  `json:"adjudicator_id"`
	IsChair       bool `json:"is_chair"`
}

// Ballot represents one result submission for a debate. Resubmissions get a
// higher version; only the latest confirmed ballot counts.
type Ballot struct {
	ID            int  `json:"id"`
	DebateID      int  `json:"debate_id"`
	AdjudicatorID *int `json:"adjudicator_id,omitempty"` // nil for system-entered bye results
	Version       int  `json:"version"`
	Confirmed     bool `json:"confirmed"`
}

// TeamScore records one team's outcome on a ballot
type TeamScore struct {
	BallotID int     `json:"ballot_id"`
	TeamID   int     `json:"team_id"`
	Win      bool    `json:"win"`
	Score    float64 `json:"score"` // total speaker score for the team
}

// SpeakerScore records one speaker's points on a ballot
type SpeakerScore struct {
	BallotID  int     `json:"ballot_id"`
	SpeakerID int     `json:"speaker_id"`
	Position  int     `json:"position"`
	Score     float64 `json:"score"`
}

// TeamStanding is a team's derived rank as of a round boundary
type TeamStanding struct {
	Rank         int     `json:"rank"`
	TeamID       int     `json:"team_id"`
	TeamName     string  `json:"team_name"`
	Wins         int     `json:"wins"`
	SpeakerScore float64 `json:"speaker_score"`
}

// SpeakerStanding is a speaker's derived rank on cumulative points
type SpeakerStanding struct {
	Rank        int     `json:"rank"`
	SpeakerID   int     `json:"speaker_id"`
	SpeakerName string  `json:"speaker_name"`
	TeamName    string  `json:"team_name"`
	Total       float64 `json:"total"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
