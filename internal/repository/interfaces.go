package repository

import (
	"context"

	"github.com/tabbitapp/tabbit/internal/models"
)

// TournamentRepository defines tournament data operations
type TournamentRepository interface {
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CreateTournament(ctx context.Context, t *models.Tournament) (int64, error)
	UpdateTournament(ctx context.Context, t *models.Tournament) error
	DeleteTournament(ctx context.Context, id int) error
	GetTournamentStats(ctx context.Context, id int) (map[string]interface{}, error)
}

// InstitutionRepository defines institution data operations
type InstitutionRepository interface {
	ListInstitutions(ctx context.Context) ([]models.Institution, error)
	GetInstitution(ctx context.Context, id int) (*models.Institution, error)
	GetInstitutionByCode(ctx context.Context, code string) (*models.Institution, error)
	CreateInstitution(ctx context.Context, name, code string) (int64, error)
	UpdateInstitution(ctx context.Context, id int, name, code string) error
	DeleteInstitution(ctx context.Context, id int) error
}

// TeamRepository defines team and speaker data operations
type TeamRepository interface {
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	CreateTeam(ctx context.Context, t *models.Team) (int64, error)
	UpdateTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id int) error
	ListSpeakers(ctx context.Context, teamID int) ([]models.Speaker, error)
	CreateSpeaker(ctx context.Context, s *models.Speaker) (int64, error)
	UpdateSpeaker(ctx context.Context, s *models.Speaker) error
	DeleteSpeaker(ctx context.Context, id int) error
}

// AdjudicatorRepository defines adjudicator data operations
type AdjudicatorRepository interface {
	ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error)
	GetAdjudicator(ctx context.Context, id int) (*models.Adjudicator, error)
	GetAdjudicatorByKey(ctx context.Context, ballotKey string) (*models.Adjudicator, error)
	CreateAdjudicator(ctx context.Context, a *models.Adjudicator) (int64, error)
	UpdateAdjudicator(ctx context.Context, a *models.Adjudicator) error
	DeleteAdjudicator(ctx context.Context, id int) error
}

// RoundRepository defines round and motion data operations
type RoundRepository interface {
	ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error)
	GetRound(ctx context.Context, id int) (*models.Round, error)
	CreateRound(ctx context.Context, round *models.Round) (int64, error)
	UpdateRoundStatus(ctx context.Context, id int, status models.RoundStatus) error
	SetMotion(ctx context.Context, m *models.Motion) error
	GetMotion(ctx context.Context, roundID int) (*models.Motion, error)
}

// DebateRepository defines draw persistence and retrieval operations
type DebateRepository interface {
	ReplaceDraw(ctx context.Context, roundID int, debates []DrawDebate) error
	ListDebates(ctx context.Context, roundID int) ([]models.Debate, error)
	GetDebate(ctx context.Context, id int) (*models.Debate, error)
	ListRoundDebateTeams(ctx context.Context, roundID int) ([]DebateTeamRow, error)
	ListRoundDebateJudges(ctx context.Context, roundID int) ([]DebateJudgeRow, error)
	ListCompletedResults(ctx context.Context, tournamentID int) ([]ResultRow, error)
	ListCompletedPanels(ctx context.Context, tournamentID int) ([]PanelRow, error)
	ListSpeakerTotals(ctx context.Context, tournamentID int) ([]SpeakerTotalRow, error)
}

// BallotRepository defines ballot data operations
type BallotRepository interface {
	GetBallot(ctx context.Context, id int) (*models.Ballot, error)
	GetLatestBallot(ctx context.Context, debateID int) (*models.Ballot, error)
	CreateBallot(ctx context.Context, b *models.Ballot, teamScores []models.TeamScore, speakerScores []models.SpeakerScore) (int64, error)
	ConfirmBallot(ctx context.Context, id int) error
	ListTeamScores(ctx context.Context, ballotID int) ([]models.TeamScore, error)
	ListSpeakerScores(ctx context.Context, ballotID int) ([]models.SpeakerScore, error)
	CountDebatesMissingConfirmedBallot(ctx context.Context, roundID int) (int, error)
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	TournamentRepository
	InstitutionRepository
	TeamRepository
	AdjudicatorRepository
	RoundRepository
	DebateRepository
	BallotRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
