package handlers

// InstitutionResponse is the response for institution create/update
type InstitutionResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// AdjudicatorResponse is the admin view of an adjudicator, including the
// private ballot key that the public model hides.
type AdjudicatorResponse struct {
	ID            int64  `json:"id"`
	TournamentID  int    `json:"tournament_id"`
	InstitutionID *int   `json:"institution_id,omitempty"`
	Name          string `json:"name"`
	Experience    int    `json:"experience"`
	Independent   bool   `json:"independent"`
	BallotKey     string `json:"ballot_key"`
	BallotURL     string `json:"ballot_url,omitempty"`
}

// SettingsResponse is the response for server settings
type SettingsResponse struct {
	BaseURL string `json:"base_url"`
}

// PingResponse is the health-check response
type PingResponse struct {
	Status string `json:"status"`
}
