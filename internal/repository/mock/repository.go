package mock

import (
	"context"

	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.ListTeamsError = errors.New("database error")
//	svc := services.NewDrawService(log, mockRepo)
//	_, err := svc.GenerateDraw(ctx, roundID)
//	// err will now contain the injected error
type Repository struct {
	repository.FullRepository

	// ===== Tournament Errors =====
	ListTournamentsError    error
	GetTournamentError      error
	CreateTournamentError   error
	UpdateTournamentError   error
	DeleteTournamentError   error
	GetTournamentStatsError error

	// ===== Institution Errors =====
	ListInstitutionsError     error
	GetInstitutionByCodeError error
	CreateInstitutionError    error

	// ===== Team Errors =====
	ListTeamsError     error
	GetTeamError       error
	CreateTeamError    error
	ListSpeakersError  error
	CreateSpeakerError error

	// ===== Adjudicator Errors =====
	ListAdjudicatorsError    error
	GetAdjudicatorError      error
	GetAdjudicatorByKeyError error
	CreateAdjudicatorError   error

	// ===== Round Errors =====
	ListRoundsError        error
	GetRoundError          error
	CreateRoundError       error
	UpdateRoundStatusError error
	SetMotionError         error
	GetMotionError         error

	// ===== Debate Errors =====
	ReplaceDrawError           error
	ListDebatesError           error
	GetDebateError             error
	ListRoundDebateTeamsError  error
	ListRoundDebateJudgesError error
	ListCompletedResultsError  error
	ListCompletedPanelsError   error
	ListSpeakerTotalsError     error

	// ===== Ballot Errors =====
	GetLatestBallotError                    error
	CreateBallotError                       error
	ConfirmBallotError                      error
	ListTeamScoresError                     error
	ListSpeakerScoresError                  error
	CountDebatesMissingConfirmedBallotError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Tournament Methods =====

func (m *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	if m.ListTournamentsError != nil {
		return nil, m.ListTournamentsError
	}
	return m.FullRepository.ListTournaments(ctx)
}

func (m *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	if m.GetTournamentError != nil {
		return nil, m.GetTournamentError
	}
	return m.FullRepository.GetTournament(ctx, id)
}

func (m *Repository) CreateTournament(ctx context.Context, t *models.Tournament) (int64, error) {
	if m.CreateTournamentError != nil {
		return 0, m.CreateTournamentError
	}
	return m.FullRepository.CreateTournament(ctx, t)
}

func (m *Repository) UpdateTournament(ctx context.Context, t *models.Tournament) error {
	if m.UpdateTournamentError != nil {
		return m.UpdateTournamentError
	}
	return m.FullRepository.UpdateTournament(ctx, t)
}

func (m *Repository) DeleteTournament(ctx context.Context, id int) error {
	if m.DeleteTournamentError != nil {
		return m.DeleteTournamentError
	}
	return m.FullRepository.DeleteTournament(ctx, id)
}

func (m *Repository) GetTournamentStats(ctx context.Context, id int) (map[string]interface{}, error) {
	if m.GetTournamentStatsError != nil {
		return nil, m.GetTournamentStatsError
	}
	return m.FullRepository.GetTournamentStats(ctx, id)
}

// ===== Institution Methods =====

func (m *Repository) ListInstitutions(ctx context.Context) ([]models.Institution, error) {
	if m.ListInstitutionsError != nil {
		return nil, m.ListInstitutionsError
	}
	return m.FullRepository.ListInstitutions(ctx)
}

func (m *Repository) GetInstitutionByCode(ctx context.Context, code string) (*models.Institution, error) {
	if m.GetInstitutionByCodeError != nil {
		return nil, m.GetInstitutionByCodeError
	}
	return m.FullRepository.GetInstitutionByCode(ctx, code)
}

func (m *Repository) CreateInstitution(ctx context.Context, name, code string) (int64, error) {
	if m.CreateInstitutionError != nil {
		return 0, m.CreateInstitutionError
	}
	return m.FullRepository.CreateInstitution(ctx, name, code)
}

// ===== Team Methods =====

func (m *Repository) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	if m.ListTeamsError != nil {
		return nil, m.ListTeamsError
	}
	return m.FullRepository.ListTeams(ctx, tournamentID)
}

func (m *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	if m.GetTeamError != nil {
		return nil, m.GetTeamError
	}
	return m.FullRepository.GetTeam(ctx, id)
}

func (m *Repository) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	if m.CreateTeamError != nil {
		return 0, m.CreateTeamError
	}
	return m.FullRepository.CreateTeam(ctx, t)
}

func (m *Repository) ListSpeakers(ctx context.Context, teamID int) ([]models.Speaker, error) {
	if m.ListSpeakersError != nil {
		return nil, m.ListSpeakersError
	}
	return m.FullRepository.ListSpeakers(ctx, teamID)
}

func (m *Repository) CreateSpeaker(ctx context.Context, s *models.Speaker) (int64, error) {
	if m.CreateSpeakerError != nil {
		return 0, m.CreateSpeakerError
	}
	return m.FullRepository.CreateSpeaker(ctx, s)
}

// ===== Adjudicator Methods =====

func (m *Repository) ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error) {
	if m.ListAdjudicatorsError != nil {
		return nil, m.ListAdjudicatorsError
	}
	return m.FullRepository.ListAdjudicators(ctx, tournamentID)
}

func (m *Repository) GetAdjudicator(ctx context.Context, id int) (*models.Adjudicator, error) {
	if m.GetAdjudicatorError != nil {
		return nil, m.GetAdjudicatorError
	}
	return m.FullRepository.GetAdjudicator(ctx, id)
}

func (m *Repository) GetAdjudicatorByKey(ctx context.Context, ballotKey string) (*models.Adjudicator, error) {
	if m.GetAdjudicatorByKeyError != nil {
		return nil, m.GetAdjudicatorByKeyError
	}
	return m.FullRepository.GetAdjudicatorByKey(ctx, ballotKey)
}

func (m *Repository) CreateAdjudicator(ctx context.Context, a *models.Adjudicator) (int64, error) {
	if m.CreateAdjudicatorError != nil {
		return 0, m.CreateAdjudicatorError
	}
	return m.FullRepository.CreateAdjudicator(ctx, a)
}

// ===== Round Methods =====

func (m *Repository) ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error) {
	if m.ListRoundsError != nil {
		return nil, m.ListRoundsError
	}
	return m.FullRepository.ListRounds(ctx, tournamentID)
}

func (m *Repository) GetRound(ctx context.Context, id int) (*models.Round, error) {
	if m.GetRoundError != nil {
		return nil, m.GetRoundError
	}
	return m.FullRepository.GetRound(ctx, id)
}

func (m *Repository) CreateRound(ctx context.Context, round *models.Round) (int64, error) {
	if m.CreateRoundError != nil {
		return 0, m.CreateRoundError
	}
	return m.FullRepository.CreateRound(ctx, round)
}

func (m *Repository) UpdateRoundStatus(ctx context.Context, id int, status models.RoundStatus) error {
	if m.UpdateRoundStatusError != nil {
		return m.UpdateRoundStatusError
	}
	return m.FullRepository.UpdateRoundStatus(ctx, id, status)
}

func (m *Repository) SetMotion(ctx context.Context, motion *models.Motion) error {
	if m.SetMotionError != nil {
		return m.SetMotionError
	}
	return m.FullRepository.SetMotion(ctx, motion)
}

func (m *Repository) GetMotion(ctx context.Context, roundID int) (*models.Motion, error) {
	if m.GetMotionError != nil {
		return nil, m.GetMotionError
	}
	return m.FullRepository.GetMotion(ctx, roundID)
}

// ===== Debate Methods =====

func (m *Repository) ReplaceDraw(ctx context.Context, roundID int, debates []repository.DrawDebate) error {
	if m.ReplaceDrawError != nil {
		return m.ReplaceDrawError
	}
	return m.FullRepository.ReplaceDraw(ctx, roundID, debates)
}

func (m *Repository) ListDebates(ctx context.Context, roundID int) ([]models.Debate, error) {
	if m.ListDebatesError != nil {
		return nil, m.ListDebatesError
	}
	return m.FullRepository.ListDebates(ctx, roundID)
}

func (m *Repository) GetDebate(ctx context.Context, id int) (*models.Debate, error) {
	if m.GetDebateError != nil {
		return nil, m.GetDebateError
	}
	return m.FullRepository.GetDebate(ctx, id)
}

func (m *Repository) ListRoundDebateTeams(ctx context.Context, roundID int) ([]repository.DebateTeamRow, error) {
	if m.ListRoundDebateTeamsError != nil {
		return nil, m.ListRoundDebateTeamsError
	}
	return m.FullRepository.ListRoundDebateTeams(ctx, roundID)
}

func (m *Repository) ListRoundDebateJudges(ctx context.Context, roundID int) ([]repository.DebateJudgeRow, error) {
	if m.ListRoundDebateJudgesError != nil {
		return nil, m.ListRoundDebateJudgesError
	}
	return m.FullRepository.ListRoundDebateJudges(ctx, roundID)
}

func (m *Repository) ListCompletedResults(ctx context.Context, tournamentID int) ([]repository.ResultRow, error) {
	if m.ListCompletedResultsError != nil {
		return nil, m.ListCompletedResultsError
	}
	return m.FullRepository.ListCompletedResults(ctx, tournamentID)
}

func (m *Repository) ListCompletedPanels(ctx context.Context, tournamentID int) ([]repository.PanelRow, error) {
	if m.ListCompletedPanelsError != nil {
		return nil, m.ListCompletedPanelsError
	}
	return m.FullRepository.ListCompletedPanels(ctx, tournamentID)
}

func (m *Repository) ListSpeakerTotals(ctx context.Context, tournamentID int) ([]repository.SpeakerTotalRow, error) {
	if m.ListSpeakerTotalsError != nil {
		return nil, m.ListSpeakerTotalsError
	}
	return m.FullRepository.ListSpeakerTotals(ctx, tournamentID)
}

// ===== Ballot Methods =====

func (m *Repository) GetLatestBallot(ctx context.Context, debateID int) (*models.Ballot, error) {
	if m.GetLatestBallotError != nil {
		return nil, m.GetLatestBallotError
	}
	return m.FullRepository.GetLatestBallot(ctx, debateID)
}

func (m *Repository) CreateBallot(ctx context.Context, b *models.Ballot, teamScores []models.TeamScore, speakerScores []models.SpeakerScore) (int64, error) {
	if m.CreateBallotError != nil {
		return 0, m.CreateBallotError
	}
	return m.FullRepository.CreateBallot(ctx, b, teamScores, speakerScores)
}

func (m *Repository) ConfirmBallot(ctx context.Context, id int) error {
	if m.ConfirmBallotError != nil {
		return m.ConfirmBallotError
	}
	return m.FullRepository.ConfirmBallot(ctx, id)
}

func (m *Repository) ListTeamScores(ctx context.Context, ballotID int) ([]models.TeamScore, error) {
	if m.ListTeamScoresError != nil {
		return nil, m.ListTeamScoresError
	}
	return m.FullRepository.ListTeamScores(ctx, ballotID)
}

func (m *Repository) ListSpeakerScores(ctx context.Context, ballotID int) ([]models.SpeakerScore, error) {
	if m.ListSpeakerScoresError != nil {
		return nil, m.ListSpeakerScoresError
	}
	return m.FullRepository.ListSpeakerScores(ctx, ballotID)
}

func (m *Repository) CountDebatesMissingConfirmedBallot(ctx context.Context, roundID int) (int, error) {
	if m.CountDebatesMissingConfirmedBallotError != nil {
		return 0, m.CountDebatesMissingConfirmedBallotError
	}
	return m.FullRepository.CountDebatesMissingConfirmedBallot(ctx, roundID)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}
