package services

import (
	"context"

	"github.com/tabbitapp/tabbit/internal/draw"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// StandingsServiceRepository defines the repository methods needed by
// StandingsService
type StandingsServiceRepository interface {
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	ListCompletedResults(ctx context.Context, tournamentID int) ([]repository.ResultRow, error)
	ListSpeakerTotals(ctx context.Context, tournamentID int) ([]repository.SpeakerTotalRow, error)
}

// StandingsService derives the current team and speaker tabs from confirmed
// results
type StandingsService struct {
	log  logger.Logger
	repo StandingsServiceRepository
}

// NewStandingsService creates a new StandingsService
func NewStandingsService(log logger.Logger, repo StandingsServiceRepository) *StandingsService {
	return &StandingsService{log: log, repo: repo}
}

// GetTeamStandings returns the team tab over all completed rounds: wins,
// then total speaker score, with remaining ties in team ID order. The
// tournament's tie-break seed only randomizes pairing, never the published
// tab.
func (s *StandingsService) GetTeamStandings(ctx context.Context, tournamentID int) ([]models.TeamStanding, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.repo.ListTeams(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	results, err := s.repo.ListCompletedResults(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	standings, err := draw.ComputeStandings(toDrawTeams(teams), toCompletedRounds(results, nil), nil)
	if err != nil {
		return nil, mapDrawError(err)
	}

	out := make([]models.TeamStanding, 0, len(standings))
	for _, st := range standings {
		out = append(out, models.TeamStanding{
			Rank:         st.Rank,
			TeamID:       st.Team.ID,
			TeamName:     st.Team.Name,
			Wins:         st.Wins,
			SpeakerScore: st.SpeakerScore,
		})
	}
	return out, nil
}

// GetSpeakerStandings returns the speaker tab: cumulative points from the
// latest confirmed ballots of completed rounds, ranked highest first
func (s *StandingsService) GetSpeakerStandings(ctx context.Context, tournamentID int) ([]models.SpeakerStanding, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListSpeakerTotals(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	out := make([]models.SpeakerStanding, 0, len(rows))
	for i, row := range rows {
		out = append(out, models.SpeakerStanding{
			Rank:        i + 1,
			SpeakerID:   row.SpeakerID,
			SpeakerName: row.Name,
			TeamName:    row.TeamName,
			Total:       row.Total,
		})
	}
	return out, nil
}
