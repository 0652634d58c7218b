package services

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// RoundServiceRepository defines the repository methods needed by RoundService
type RoundServiceRepository interface {
	repository.RoundRepository
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	CountDebatesMissingConfirmedBallot(ctx context.Context, roundID int) (int, error)
}

// RoundService handles round creation, lifecycle transitions, and motions
type RoundService struct {
	log         logger.Logger
	repo        RoundServiceRepository
	broadcaster Broadcaster
}

// NewRoundService creates a new RoundService
func NewRoundService(log logger.Logger, repo RoundServiceRepository) *RoundService {
	return &RoundService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *RoundService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// ListRounds returns a tournament's rounds in sequence order
func (s *RoundService) ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.repo.ListRounds(ctx, tournamentID)
}

// GetRound retrieves a round by ID
func (s *RoundService) GetRound(ctx context.Context, id int) (*models.Round, error) {
	return s.repo.GetRound(ctx, id)
}

// CreateRound appends a new round to a tournament. Sequence numbers are
// assigned by the service and stay gapless.
func (s *RoundService) CreateRound(ctx context.Context, tournamentID int, name, abbreviation string) (int64, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return 0, err
	}

	existing, err := s.repo.ListRounds(ctx, tournamentID)
	if err != nil {
		return 0, err
	}
	sequence := len(existing) + 1

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Round %d", sequence)
	}
	if strings.TrimSpace(abbreviation) == "" {
		abbreviation = fmt.Sprintf("R%d", sequence)
	}

	round := &models.Round{
		TournamentID: tournamentID,
		Sequence:     sequence,
		Name:         strings.TrimSpace(name),
		Abbreviation: strings.TrimSpace(abbreviation),
		Status:       models.RoundPending,
	}
	id, err := s.repo.CreateRound(ctx, round)
	if err != nil {
		return 0, err
	}
	s.log.Info("Round created", "id", id, "tournament_id", tournamentID, "sequence", sequence)
	return id, nil
}

// StartRound moves a drawn round into progress, opening ballot entry
func (s *RoundService) StartRound(ctx context.Context, roundID int) error {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return err
	}
	switch round.Status {
	case models.RoundDrawn:
		// proceed
	case models.RoundPending:
		return ErrRoundNotDrawn
	default:
		return ErrRoundAlreadyStarted
	}

	if err := s.repo.UpdateRoundStatus(ctx, roundID, models.RoundInProgress); err != nil {
		return err
	}
	s.log.Info("Round started", "id", roundID, "sequence", round.Sequence)
	return nil
}

// CompleteRound closes a round once every non-bye debate has a confirmed
// ballot. Completed results feed the next round's standings.
func (s *RoundService) CompleteRound(ctx context.Context, roundID int) error {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return err
	}
	if round.Status != models.RoundInProgress {
		return ErrRoundNotInProgress
	}

	missing, err := s.repo.CountDebatesMissingConfirmedBallot(ctx, roundID)
	if err != nil {
		return err
	}
	if missing > 0 {
		s.log.Warn("Round completion blocked", "id", roundID, "debates_missing_ballots", missing)
		return ErrBallotsOutstanding
	}

	if err := s.repo.UpdateRoundStatus(ctx, roundID, models.RoundCompleted); err != nil {
		return err
	}
	s.log.Info("Round completed", "id", roundID, "sequence", round.Sequence)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRoundCompleted(round.TournamentID, roundID)
		s.broadcaster.BroadcastStandingsUpdated(round.TournamentID)
	}
	return nil
}

// SetMotion sets or replaces the motion debated in a round
func (s *RoundService) SetMotion(ctx context.Context, roundID int, text, infoSlide string) error {
	if strings.TrimSpace(text) == "" {
		return apperrors.Validation("motion text is required")
	}
	if _, err := s.repo.GetRound(ctx, roundID); err != nil {
		return err
	}
	return s.repo.SetMotion(ctx, &models.Motion{
		RoundID:   roundID,
		Text:      strings.TrimSpace(text),
		InfoSlide: strings.TrimSpace(infoSlide),
	})
}

// GetMotion retrieves the motion for a round
func (s *RoundService) GetMotion(ctx context.Context, roundID int) (*models.Motion, error) {
	motion, err := s.repo.GetMotion(ctx, roundID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("motion not set for this round")
	}
	if err != nil {
		return nil, err
	}
	return motion, nil
}
