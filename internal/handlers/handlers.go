package handlers

import (
	"github.com/tabbitapp/tabbit/internal/auth"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/services"
	"github.com/tabbitapp/tabbit/internal/websocket"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Tournaments  services.TournamentServicer
	Registration services.RegistrationServicer
	Rounds       services.RoundServicer
	Draws        services.DrawServicer
	Ballots      services.BallotServicer
	Standings    services.StandingsServicer
	Settings     services.SettingsServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          logger.Logger
}

// New creates a new Handlers instance with all dependencies
func New(
	tournaments services.TournamentServicer,
	registration services.RegistrationServicer,
	rounds services.RoundServicer,
	draws services.DrawServicer,
	ballots services.BallotServicer,
	standings services.StandingsServicer,
	settings services.SettingsServicer,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		Tournaments:  tournaments,
		Registration: registration,
		Rounds:       rounds,
		Draws:        draws,
		Ballots:      ballots,
		Standings:    standings,
		Settings:     settings,
		Auth:         adminAuth,
		Hub:          hub,
		Log:          log,
	}
}

// NewForTesting creates a Handlers instance with a known admin password and
// no websocket hub
func NewForTesting(
	tournaments services.TournamentServicer,
	registration services.RegistrationServicer,
	rounds services.RoundServicer,
	draws services.DrawServicer,
	ballots services.BallotServicer,
	standings services.StandingsServicer,
	settings services.SettingsServicer,
) *Handlers {
	testAuth, _ := auth.New("test-password")
	return &Handlers{
		Tournaments:  tournaments,
		Registration: registration,
		Rounds:       rounds,
		Draws:        draws,
		Ballots:      ballots,
		Standings:    standings,
		Settings:     settings,
		Auth:         testAuth,
		Log:          logger.New(),
	}
}
