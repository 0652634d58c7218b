package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/skip2/go-qrcode"
	"gopkg.in/yaml.v3"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// RegistrationServiceRepository defines the repository methods needed by
// RegistrationService
type RegistrationServiceRepository interface {
	repository.InstitutionRepository
	repository.TeamRepository
	repository.AdjudicatorRepository
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
}

// RegistrationService handles institutions, teams, speakers, and adjudicators
type RegistrationService struct {
	log        logger.Logger
	repo       RegistrationServiceRepository
	settings   SettingsServicer
	randReader io.Reader // for testing: defaults to crypto/rand.Reader
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(log logger.Logger, repo RegistrationServiceRepository, settings SettingsServicer) *RegistrationService {
	return &RegistrationService{
		log:        log,
		repo:       repo,
		settings:   settings,
		randReader: rand.Reader,
	}
}

// SetRandReader sets a custom random reader (for testing)
func (s *RegistrationService) SetRandReader(reader io.Reader) {
	s.randReader = reader
}

// Team represents a team for create/update operations. Speakers are listed
// in speaking order and only consumed on create.
type Team struct {
	TournamentID  int
	InstitutionID *int
	Name          string
	Abbreviation  string
	Speakers      []string
}

// Adjudicator represents an adjudicator for create/update operations
type Adjudicator struct {
	TournamentID  int
	InstitutionID *int
	Name          string
	Experience    int
	Independent   bool
}

// TeamData is a team with its speakers in speaking order
type TeamData struct {
	models.Team
	Speakers []models.Speaker `json:"speakers"`
}

// ---------------------------------------------------------------------------
// Institutions
// ---------------------------------------------------------------------------

// ListInstitutions returns all institutions ordered by code
func (s *RegistrationService) ListInstitutions(ctx context.Context) ([]models.Institution, error) {
	return s.repo.ListInstitutions(ctx)
}

// CreateInstitution creates a new institution
func (s *RegistrationService) CreateInstitution(ctx context.Context, name, code string) (int64, error) {
	name, code = strings.TrimSpace(name), strings.TrimSpace(code)
	if name == "" || code == "" {
		return 0, apperrors.Validation("institution name and code are required")
	}
	id, err := s.repo.CreateInstitution(ctx, name, code)
	if err != nil {
		return 0, err
	}
	s.log.Info("Institution created", "id", id, "code", code)
	return id, nil
}

// UpdateInstitution updates an institution
func (s *RegistrationService) UpdateInstitution(ctx context.Context, id int, name, code string) error {
	name, code = strings.TrimSpace(name), strings.TrimSpace(code)
	if name == "" || code == "" {
		return apperrors.Validation("institution name and code are required")
	}
	if _, err := s.repo.GetInstitution(ctx, id); err != nil {
		return err
	}
	return s.repo.UpdateInstitution(ctx, id, name, code)
}

// DeleteInstitution deletes an institution; its teams and adjudicators
// become independent
func (s *RegistrationService) DeleteInstitution(ctx context.Context, id int) error {
	if _, err := s.repo.GetInstitution(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteInstitution(ctx, id)
}

// ---------------------------------------------------------------------------
// Teams and speakers
// ---------------------------------------------------------------------------

// ListTeams returns all teams registered for a tournament
func (s *RegistrationService) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	return s.repo.ListTeams(ctx, tournamentID)
}

// GetTeam retrieves a team with its speakers
func (s *RegistrationService) GetTeam(ctx context.Context, id int) (*TeamData, error) {
	team, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	speakers, err := s.repo.ListSpeakers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TeamData{Team: *team, Speakers: speakers}, nil
}

// CreateTeam creates a team and its speakers in speaking order
func (s *RegistrationService) CreateTeam(ctx context.Context, team Team) (int64, error) {
	if strings.TrimSpace(team.Name) == "" {
		return 0, apperrors.Validation("team name is required")
	}
	if _, err := s.repo.GetTournament(ctx, team.TournamentID); err != nil {
		return 0, err
	}

	t := &models.Team{
		TournamentID:  team.TournamentID,
		InstitutionID: team.InstitutionID,
		Name:          strings.TrimSpace(team.Name),
		Abbreviation:  strings.TrimSpace(team.Abbreviation),
	}
	id, err := s.repo.CreateTeam(ctx, t)
	if err != nil {
		return 0, err
	}

	for i, name := range team.Speakers {
		sp := &models.Speaker{TeamID: int(id), Name: strings.TrimSpace(name), Position: i + 1}
		if _, err := s.repo.CreateSpeaker(ctx, sp); err != nil {
			return 0, err
		}
	}

	s.log.Info("Team created", "id", id, "name", t.Name, "speakers", len(team.Speakers))
	return id, nil
}

// UpdateTeam updates a team's name, abbreviation, and institution. Speakers
// are managed through the speaker operations.
func (s *RegistrationService) UpdateTeam(ctx context.Context, id int, team Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return apperrors.Validation("team name is required")
	}
	existing, err := s.repo.GetTeam(ctx, id)
	if err != nil {
		return err
	}
	existing.InstitutionID = team.InstitutionID
	existing.Name = strings.TrimSpace(team.Name)
	existing.Abbreviation = strings.TrimSpace(team.Abbreviation)
	return s.repo.UpdateTeam(ctx, existing)
}

// DeleteTeam deletes a team and its speakers
func (s *RegistrationService) DeleteTeam(ctx context.Context, id int) error {
	if _, err := s.repo.GetTeam(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteTeam(ctx, id)
}

// CreateSpeaker adds a speaker to a team
func (s *RegistrationService) CreateSpeaker(ctx context.Context, sp *models.Speaker) (int64, error) {
	if strings.TrimSpace(sp.Name) == "" {
		return 0, apperrors.Validation("speaker name is required")
	}
	if _, err := s.repo.GetTeam(ctx, sp.TeamID); err != nil {
		return 0, err
	}
	return s.repo.CreateSpeaker(ctx, sp)
}

// UpdateSpeaker updates a speaker's name and position
func (s *RegistrationService) UpdateSpeaker(ctx context.Context, sp *models.Speaker) error {
	if strings.TrimSpace(sp.Name) == "" {
		return apperrors.Validation("speaker name is required")
	}
	return s.repo.UpdateSpeaker(ctx, sp)
}

// DeleteSpeaker removes a speaker
func (s *RegistrationService) DeleteSpeaker(ctx context.Context, id int) error {
	return s.repo.DeleteSpeaker(ctx, id)
}

// ---------------------------------------------------------------------------
// Adjudicators
// ---------------------------------------------------------------------------

// ListAdjudicators returns all adjudicators registered for a tournament
func (s *RegistrationService) ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error) {
	return s.repo.ListAdjudicators(ctx, tournamentID)
}

// GetAdjudicator retrieves an adjudicator by ID
func (s *RegistrationService) GetAdjudicator(ctx context.Context, id int) (*models.Adjudicator, error) {
	return s.repo.GetAdjudicator(ctx, id)
}

// CreateAdjudicator registers an adjudicator and issues their private ballot
// key. Returns the new ID and the key.
func (s *RegistrationService) CreateAdjudicator(ctx context.Context, adj Adjudicator) (int64, string, error) {
	if strings.TrimSpace(adj.Name) == "" {
		return 0, "", apperrors.Validation("adjudicator name is required")
	}
	if _, err := s.repo.GetTournament(ctx, adj.TournamentID); err != nil {
		return 0, "", err
	}

	key, err := s.GenerateBallotKey(ctx)
	if err != nil {
		return 0, "", err
	}

	a := &models.Adjudicator{
		TournamentID:  adj.TournamentID,
		InstitutionID: adj.InstitutionID,
		Name:          strings.TrimSpace(adj.Name),
		Experience:    adj.Experience,
		Independent:   adj.Independent,
		BallotKey:     key,
	}
	id, err := s.repo.CreateAdjudicator(ctx, a)
	if err != nil {
		return 0, "", err
	}
	s.log.Info("Adjudicator created", "id", id, "name", a.Name)
	return id, key, nil
}

// UpdateAdjudicator updates an adjudicator's details. The ballot key is
// never rotated by an update.
func (s *RegistrationService) UpdateAdjudicator(ctx context.Context, id int, adj Adjudicator) error {
	if strings.TrimSpace(adj.Name) == "" {
		return apperrors.Validation("adjudicator name is required")
	}
	existing, err := s.repo.GetAdjudicator(ctx, id)
	if err != nil {
		return err
	}
	existing.InstitutionID = adj.InstitutionID
	existing.Name = strings.TrimSpace(adj.Name)
	existing.Experience = adj.Experience
	existing.Independent = adj.Independent
	return s.repo.UpdateAdjudicator(ctx, existing)
}

// DeleteAdjudicator removes an adjudicator
func (s *RegistrationService) DeleteAdjudicator(ctx context.Context, id int) error {
	if _, err := s.repo.GetAdjudicator(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteAdjudicator(ctx, id)
}

// GenerateBallotKey generates a random ballot key that doesn't exist in the
// database
func (s *RegistrationService) GenerateBallotKey(ctx context.Context) (string, error) {
	maxRetries := 10

	for i := 0; i < maxRetries; i++ {
		bytes := make([]byte, 8)
		if _, err := s.randReader.Read(bytes); err != nil {
			return "", fmt.Errorf("failed to generate ballot key: %w", err)
		}
		key := hex.EncodeToString(bytes)

		// Check if this key already exists
		_, err := s.repo.GetAdjudicatorByKey(ctx, key)
		if err == repository.ErrNotFound {
			return key, nil
		}
		if err != nil {
			return "", fmt.Errorf("error checking key uniqueness: %w", err)
		}

		s.log.Debug("Generated key already exists, retrying", "attempt", i+1)
	}

	return "", fmt.Errorf("failed to generate unique ballot key after %d attempts", maxRetries)
}

// GenerateQRImage generates a QR code PNG encoding an adjudicator's private
// ballot URL
func (s *RegistrationService) GenerateQRImage(ctx context.Context, adjudicatorID int) ([]byte, error) {
	adj, err := s.repo.GetAdjudicator(ctx, adjudicatorID)
	if err != nil {
		return nil, err
	}

	baseURL, err := s.settings.GetBaseURL(ctx)
	if err != nil || baseURL == "" {
		return nil, fmt.Errorf("base_url not configured")
	}
	ballotURL := fmt.Sprintf("%s/ballots/%s", strings.TrimSuffix(baseURL, "/"), adj.BallotKey)
	return qrcode.Encode(ballotURL, qrcode.Medium, 256)
}

// ---------------------------------------------------------------------------
// Roster import
// ---------------------------------------------------------------------------

// RosterImportResult contains the result of a YAML roster import
type RosterImportResult struct {
	Status               string `json:"status"`
	InstitutionsCreated  int    `json:"institutions_created"`
	TeamsCreated         int    `json:"teams_created"`
	SpeakersCreated      int    `json:"speakers_created"`
	AdjudicatorsCreated  int    `json:"adjudicators_created"`
	InstitutionsExisting int    `json:"institutions_existing"`
}

type rosterFile struct {
	Institutions []rosterInstitution `yaml:"institutions"`
	Teams        []rosterTeam        `yaml:"teams"`
	Adjudicators []rosterAdjudicator `yaml:"adjudicators"`
}

type rosterInstitution struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

type rosterTeam struct {
	Name         string   `yaml:"name"`
	Abbreviation string   `yaml:"abbreviation"`
	Institution  string   `yaml:"institution"` // institution code, empty for independents
	Speakers     []string `yaml:"speakers"`
}

type rosterAdjudicator struct {
	Name        string `yaml:"name"`
	Institution string `yaml:"institution"`
	Experience  int    `yaml:"experience"`
	Independent bool   `yaml:"independent"`
}

// ImportRoster loads a whole tournament roster from a YAML document.
// Institutions are matched by code and reused when they already exist;
// teams, speakers, and adjudicators are always created. The document is
// validated in full before the first insert.
func (s *RegistrationService) ImportRoster(ctx context.Context, tournamentID int, data []byte) (*RosterImportResult, error) {
	if _, err := s.repo.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	var roster rosterFile
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidInput, "parsing roster")
	}
	if err := validateRoster(&roster); err != nil {
		return nil, err
	}

	result := &RosterImportResult{Status: "imported"}

	// Upsert institutions by code
	instIDs := make(map[string]int)
	for _, inst := range roster.Institutions {
		existing, err := s.repo.GetInstitutionByCode(ctx, inst.Code)
		if err == repository.ErrNotFound {
			id, err := s.repo.CreateInstitution(ctx, inst.Name, inst.Code)
			if err != nil {
				return nil, err
			}
			instIDs[inst.Code] = int(id)
			result.InstitutionsCreated++
			continue
		}
		if err != nil {
			return nil, err
		}
		instIDs[inst.Code] = existing.ID
		result.InstitutionsExisting++
	}

	// Resolve a code against the file first, then the database
	resolve := func(code string) (*int, error) {
		if code == "" {
			return nil, nil
		}
		if id, ok := instIDs[code]; ok {
			return &id, nil
		}
		existing, err := s.repo.GetInstitutionByCode(ctx, code)
		if err == repository.ErrNotFound {
			return nil, apperrors.Validationf("roster references unknown institution code %q", code)
		}
		if err != nil {
			return nil, err
		}
		instIDs[code] = existing.ID
		id := existing.ID
		return &id, nil
	}

	for _, team := range roster.Teams {
		instID, err := resolve(team.Institution)
		if err != nil {
			return nil, err
		}
		id, err := s.repo.CreateTeam(ctx, &models.Team{
			TournamentID:  tournamentID,
			InstitutionID: instID,
			Name:          team.Name,
			Abbreviation:  team.Abbreviation,
		})
		if err != nil {
			return nil, err
		}
		result.TeamsCreated++

		for i, name := range team.Speakers {
			sp := &models.Speaker{TeamID: int(id), Name: name, Position: i + 1}
			if _, err := s.repo.CreateSpeaker(ctx, sp); err != nil {
				return nil, err
			}
			result.SpeakersCreated++
		}
	}

	for _, adj := range roster.Adjudicators {
		instID, err := resolve(adj.Institution)
		if err != nil {
			return nil, err
		}
		key, err := s.GenerateBallotKey(ctx)
		if err != nil {
			return nil, err
		}
		_, err = s.repo.CreateAdjudicator(ctx, &models.Adjudicator{
			TournamentID:  tournamentID,
			InstitutionID: instID,
			Name:          adj.Name,
			Experience:    adj.Experience,
			Independent:   adj.Independent,
			BallotKey:     key,
		})
		if err != nil {
			return nil, err
		}
		result.AdjudicatorsCreated++
	}

	s.log.Info("Roster imported", "tournament_id", tournamentID,
		"teams", result.TeamsCreated, "speakers", result.SpeakersCreated,
		"adjudicators", result.AdjudicatorsCreated)
	return result, nil
}

// validateRoster rejects a roster document with missing names or codes
// before anything is written
func validateRoster(roster *rosterFile) error {
	for i, inst := range roster.Institutions {
		if strings.TrimSpace(inst.Name) == "" || strings.TrimSpace(inst.Code) == "" {
			return apperrors.Validationf("roster institution %d needs both name and code", i+1)
		}
	}
	for i, team := range roster.Teams {
		if strings.TrimSpace(team.Name) == "" {
			return apperrors.Validationf("roster team %d needs a name", i+1)
		}
		for j, sp := range team.Speakers {
			if strings.TrimSpace(sp) == "" {
				return apperrors.Validationf("roster team %q speaker %d needs a name", team.Name, j+1)
			}
		}
	}
	for i, adj := range roster.Adjudicators {
		if strings.TrimSpace(adj.Name) == "" {
			return apperrors.Validationf("roster adjudicator %d needs a name", i+1)
		}
	}
	return nil
}
