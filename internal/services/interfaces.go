package services

import (
	"context"

	"github.com/tabbitapp/tabbit/internal/models"
)

// TournamentServicer defines the interface for tournament operations
type TournamentServicer interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateTournament(ctx context.Context, in Tournament) (int64, error)
	UpdateTournament(ctx context.Context, id int, in Tournament) error
	DeleteTournament(ctx context.Context, id int) error
	GetStats(ctx context.Context, id int) (map[string]interface{}, error)
}

// RegistrationServicer defines the interface for roster operations
type RegistrationServicer interface {
	ListInstitutions(ctx context.Context) ([]models.Institution, error)
	CreateInstitution(ctx context.Context, name, code string) (int64, error)
	UpdateInstitution(ctx context.Context, id int, name, code string) error
	DeleteInstitution(ctx context.Context, id int) error
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*TeamData, error)
	CreateTeam(ctx context.Context, team Team) (int64, error)
	UpdateTeam(ctx context.Context, id int, team Team) error
	DeleteTeam(ctx context.Context, id int) error
	CreateSpeaker(ctx context.Context, sp *models.Speaker) (int64, error)
	UpdateSpeaker(ctx context.Context, sp *models.Speaker) error
	DeleteSpeaker(ctx context.Context, id int) error
	ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error)
	GetAdjudicator(ctx context.Context, id int) (*models.Adjudicator, error)
	CreateAdjudicator(ctx context.Context, adj Adjudicator) (int64, string, error)
	UpdateAdjudicator(ctx context.Context, id int, adj Adjudicator) error
	DeleteAdjudicator(ctx context.Context, id int) error
	GenerateBallotKey(ctx context.Context) (string, error)
	GenerateQRImage(ctx context.Context, adjudicatorID int) ([]byte, error)
	ImportRoster(ctx context.Context, tournamentID int, data []byte) (*RosterImportResult, error)
}

// RoundServicer defines the interface for round lifecycle operations
type RoundServicer interface {
	ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error)
	GetRound(ctx context.Context, id int) (*models.Round, error)
	CreateRound(ctx context.Context, tournamentID int, name, abbreviation string) (int64, error)
	StartRound(ctx context.Context, roundID int) error
	CompleteRound(ctx context.Context, roundID int) error
	SetMotion(ctx context.Context, roundID int, text, infoSlide string) error
	GetMotion(ctx context.Context, roundID int) (*models.Motion, error)
	SetBroadcaster(b Broadcaster)
}

// DrawServicer defines the interface for draw operations
type DrawServicer interface {
	GenerateDraw(ctx context.Context, roundID int) (*DrawData, error)
	GetDraw(ctx context.Context, roundID int) (*DrawData, error)
	SetBroadcaster(b Broadcaster)
}

// BallotServicer defines the interface for ballot operations
type BallotServicer interface {
	GetBallotForm(ctx context.Context, ballotKey string) (*BallotForm, error)
	SubmitBallot(ctx context.Context, ballotKey string, sub BallotSubmission) (*BallotData, error)
	ConfirmBallot(ctx context.Context, ballotKey string) (*BallotData, error)
	GetDebateBallot(ctx context.Context, debateID int) (*BallotData, error)
	ConfirmDebateBallot(ctx context.Context, debateID int) (*BallotData, error)
	SetBroadcaster(b Broadcaster)
}

// StandingsServicer defines the interface for standings operations
type StandingsServicer interface {
	GetTeamStandings(ctx context.Context, tournamentID int) ([]models.TeamStanding, error)
	GetSpeakerStandings(ctx context.Context, tournamentID int) ([]models.SpeakerStanding, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Ensure concrete types implement interfaces
var (
	_ TournamentServicer   = (*TournamentService)(nil)
	_ RegistrationServicer = (*RegistrationService)(nil)
	_ RoundServicer        = (*RoundService)(nil)
	_ DrawServicer         = (*DrawService)(nil)
	_ BallotServicer       = (*BallotService)(nil)
	_ StandingsServicer    = (*StandingsService)(nil)
	_ SettingsServicer     = (*SettingsService)(nil)
)
