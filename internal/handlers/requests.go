package handlers

// TournamentCreateRequest represents a request to create a tournament.
// Zero-value draw fields inherit the configured defaults.
type TournamentCreateRequest struct {
	Name                  string `json:"name"`
	Abbreviation          string `json:"abbreviation"`
	SidesPerRoom          int    `json:"sides_per_room"`
	PanelSize             int    `json:"panel_size"`
	AvoidInstitutionClash *bool  `json:"avoid_institution_clash"`
	ByePolicy             string `json:"bye_policy"`
	PairingMethod         string `json:"pairing_method"`
	TieBreakSeed          *int64 `json:"tie_break_seed"`
}

// TournamentUpdateRequest represents a request to update a tournament's
// name or draw configuration
type TournamentUpdateRequest struct {
	Name                  string `json:"name"`
	Abbreviation          string `json:"abbreviation"`
	SidesPerRoom          int    `json:"sides_per_room"`
	PanelSize             int    `json:"panel_size"`
	AvoidInstitutionClash *bool  `json:"avoid_institution_clash"`
	ByePolicy             string `json:"bye_policy"`
	PairingMethod         string `json:"pairing_method"`
	TieBreakSeed          *int64 `json:"tie_break_seed"`
}

// InstitutionCreateRequest represents a request to create an institution
type InstitutionCreateRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// InstitutionUpdateRequest represents a request to update an institution
type InstitutionUpdateRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// TeamCreateRequest represents a request to register a team. Speakers are
// listed in speaking order.
type TeamCreateRequest struct {
	InstitutionID *int     `json:"institution_id"`
	Name          string   `json:"name"`
	Abbreviation  string   `json:"abbreviation"`
	Speakers      []string `json:"speakers"`
}

// TeamUpdateRequest represents a request to update a team
type TeamUpdateRequest struct {
	InstitutionID *int   `json:"institution_id"`
	Name          string `json:"name"`
	Abbreviation  string `json:"abbreviation"`
}

// SpeakerCreateRequest represents a request to add a speaker to a team
type SpeakerCreateRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// SpeakerUpdateRequest represents a request to update a speaker
type SpeakerUpdateRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// AdjudicatorCreateRequest represents a request to register an adjudicator
type AdjudicatorCreateRequest struct {
	InstitutionID *int   `json:"institution_id"`
	Name          string `json:"name"`
	Experience    int    `json:"experience"`
	Independent   bool   `json:"independent"`
}

// AdjudicatorUpdateRequest represents a request to update an adjudicator
type AdjudicatorUpdateRequest struct {
	InstitutionID *int   `json:"institution_id"`
	Name          string `json:"name"`
	Experience    int    `json:"experience"`
	Independent   bool   `json:"independent"`
}

// RoundCreateRequest represents a request to create a round. Name and
// abbreviation default from the assigned sequence when empty.
type RoundCreateRequest struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// MotionRequest represents a request to set a round's motion
type MotionRequest struct {
	Text      string `json:"text"`
	InfoSlide string `json:"info_slide"`
}

// LoginRequest represents an admin login attempt
type LoginRequest struct {
	Password string `json:"password"`
}

// SettingsUpdateRequest represents a request to update server settings
type SettingsUpdateRequest struct {
	BaseURL string `json:"base_url"`
}
