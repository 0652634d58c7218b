package services

import (
	"context"
	stderrors "errors"

	"github.com/tabbitapp/tabbit/internal/draw"
	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// TournamentService handles tournament-related business logic
type TournamentService struct {
	log      logger.Logger
	repo     repository.TournamentRepository
	defaults draw.Config
}

// NewTournamentService creates a new TournamentService. The defaults fill in
// draw-configuration fields left unset when a tournament is created.
func NewTournamentService(log logger.Logger, repo repository.TournamentRepository, defaults draw.Config) *TournamentService {
	return &TournamentService{log: log, repo: repo, defaults: defaults}
}

// Tournament represents a tournament for create/update operations. Zero-value
// draw fields inherit the service defaults.
type Tournament struct {
	Name                  string
	Abbreviation          string
	Sides                 int
	PanelSize             int
	AvoidInstitutionClash *bool
	ByePolicy             string
	PairingMethod         string
	TieBreakSeed          *int64
}

// ListTournaments returns all tournaments, newest first
func (s *TournamentService) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return s.repo.ListTournaments(ctx)
}

// GetTournament retrieves a tournament by ID
func (s *TournamentService) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	return s.repo.GetTournament(ctx, id)
}

// CreateTournament creates a new tournament after validating its draw
// configuration
func (s *TournamentService) CreateTournament(ctx context.Context, in Tournament) (int64, error) {
	if in.Name == "" {
		return 0, apperrors.Validation("tournament name is required")
	}

	t := s.applyDefaults(in)
	if err := s.validateDrawConfig(t); err != nil {
		return 0, err
	}

	id, err := s.repo.CreateTournament(ctx, t)
	if err != nil {
		return 0, err
	}
	s.log.Info("Tournament created", "id", id, "name", t.Name)
	return id, nil
}

// UpdateTournament updates a tournament's details and draw configuration
func (s *TournamentService) UpdateTournament(ctx context.Context, id int, in Tournament) error {
	if in.Name == "" {
		return apperrors.Validation("tournament name is required")
	}

	// Existence check keeps updates against missing IDs a clean 404.
	if _, err := s.repo.GetTournament(ctx, id); err != nil {
		return err
	}

	t := s.applyDefaults(in)
	t.ID = id
	if err := s.validateDrawConfig(t); err != nil {
		return err
	}

	if err := s.repo.UpdateTournament(ctx, t); err != nil {
		return err
	}
	s.log.Info("Tournament updated", "id", id, "name", t.Name)
	return nil
}

// DeleteTournament deletes a tournament and everything registered under it
func (s *TournamentService) DeleteTournament(ctx context.Context, id int) error {
	if _, err := s.repo.GetTournament(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTournament(ctx, id); err != nil {
		return err
	}
	s.log.Info("Tournament deleted", "id", id)
	return nil
}

// GetStats returns registration and progress counts for a tournament
func (s *TournamentService) GetStats(ctx context.Context, id int) (map[string]interface{}, error) {
	if _, err := s.repo.GetTournament(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetTournamentStats(ctx, id)
}

// applyDefaults maps the input onto a model, filling unset draw fields from
// the service defaults
func (s *TournamentService) applyDefaults(in Tournament) *models.Tournament {
	t := &models.Tournament{
		Name:                  in.Name,
		Abbreviation:          in.Abbreviation,
		SidesPerRoom:          in.Sides,
		PanelSize:             in.PanelSize,
		AvoidInstitutionClash: s.defaults.AvoidInstitutionClash,
		ByePolicy:             models.ByePolicy(in.ByePolicy),
		PairingMethod:         models.PairingMethod(in.PairingMethod),
		TieBreakSeed:          in.TieBreakSeed,
	}
	if t.SidesPerRoom == 0 {
		t.SidesPerRoom = s.defaults.Sides
	}
	if t.PanelSize == 0 {
		t.PanelSize = s.defaults.PanelSize
	}
	if in.AvoidInstitutionClash != nil {
		t.AvoidInstitutionClash = *in.AvoidInstitutionClash
	}
	if t.ByePolicy == "" {
		t.ByePolicy = models.ByePolicy(s.defaults.ByePolicy)
	}
	if t.PairingMethod == "" {
		t.PairingMethod = models.PairingMethod(s.defaults.Method)
	}
	return t
}

// validateDrawConfig rejects draw settings the scheduling core would refuse
func (s *TournamentService) validateDrawConfig(t *models.Tournament) error {
	cfg := draw.Config{
		Sides:                 t.SidesPerRoom,
		PanelSize:             t.PanelSize,
		AvoidInstitutionClash: t.AvoidInstitutionClash,
		ByePolicy:             draw.ByePolicy(t.ByePolicy),
		Method:                draw.Method(t.PairingMethod),
		TieBreakSeed:          t.TieBreakSeed,
	}
	if err := cfg.Validate(); err != nil {
		var cfgErr *draw.ConfigError
		if stderrors.As(err, &cfgErr) {
			return apperrors.Validationf("draw configuration: %s %s", cfgErr.Field, cfgErr.Detail)
		}
		return apperrors.Wrap(err, apperrors.ErrValidation, "draw configuration")
	}
	return nil
}
