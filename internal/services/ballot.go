package services

import (
	"context"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// BallotServiceRepository defines the repository methods needed by
// BallotService
type BallotServiceRepository interface {
	repository.BallotRepository
	GetAdjudicatorByKey(ctx context.Context, ballotKey string) (*models.Adjudicator, error)
	ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error)
	GetDebate(ctx context.Context, id int) (*models.Debate, error)
	ListRoundDebateTeams(ctx context.Context, roundID int) ([]repository.DebateTeamRow, error)
	ListRoundDebateJudges(ctx context.Context, roundID int) ([]repository.DebateJudgeRow, error)
	ListSpeakers(ctx context.Context, teamID int) ([]models.Speaker, error)
	GetMotion(ctx context.Context, roundID int) (*models.Motion, error)
}

// BallotService handles ballot entry through adjudicator private keys
type BallotService struct {
	log         logger.Logger
	repo        BallotServiceRepository
	broadcaster Broadcaster
}

// NewBallotService creates a new BallotService
func NewBallotService(log logger.Logger, repo BallotServiceRepository) *BallotService {
	return &BallotService{log: log, repo: repo}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *BallotService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// BallotForm is everything an adjudicator needs to fill in a ballot for
// their current debate
type BallotForm struct {
	Adjudicator string             `json:"adjudicator"`
	IsChair     bool               `json:"is_chair"`
	RoundID     int                `json:"round_id"`
	RoundName   string             `json:"round_name"`
	RoundStatus models.RoundStatus `json:"round_status"`
	DebateID    int                `json:"debate_id"`
	Motion      *models.Motion     `json:"motion,omitempty"`
	Teams       []BallotFormTeam   `json:"teams"`
	Latest      *BallotData        `json:"latest,omitempty"`
}

// BallotFormTeam is one side of the debate with its speakers in speaking
// order
type BallotFormTeam struct {
	TeamID   int              `json:"team_id"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Speakers []models.Speaker `json:"speakers"`
}

// BallotData is a stored ballot with its scores
type BallotData struct {
	BallotID      int                   `json:"ballot_id"`
	DebateID      int                   `json:"debate_id"`
	Version       int                   `json:"version"`
	Confirmed     bool                  `json:"confirmed"`
	TeamScores    []models.TeamScore    `json:"team_scores"`
	SpeakerScores []models.SpeakerScore `json:"speaker_scores,omitempty"`
}

// BallotSubmission is the scores an adjudicator submits for their debate
type BallotSubmission struct {
	TeamScores    []TeamScoreEntry    `json:"team_scores"`
	SpeakerScores []SpeakerScoreEntry `json:"speaker_scores"`
}

// TeamScoreEntry is one team's submitted outcome
type TeamScoreEntry struct {
	TeamID int     `json:"team_id"`
	Win    bool    `json:"win"`
	Score  float64 `json:"score"`
}

// SpeakerScoreEntry is one speaker's submitted points
type SpeakerScoreEntry struct {
	SpeakerID int     `json:"speaker_id"`
	Position  int     `json:"position"`
	Score     float64 `json:"score"`
}

// assignment is an adjudicator's seat in the currently active round
type assignment struct {
	adjudicator *models.Adjudicator
	round       *models.Round
	debateID    int
	isChair     bool
}

// currentAssignment resolves a ballot key to the holder's debate in the
// active round. The lifecycle guards keep at most one round drawn or in
// progress per tournament at a time.
func (s *BallotService) currentAssignment(ctx context.Context, ballotKey string) (*assignment, error) {
	adj, err := s.repo.GetAdjudicatorByKey(ctx, ballotKey)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("unknown ballot key")
	}
	if err != nil {
		return nil, err
	}

	rounds, err := s.repo.ListRounds(ctx, adj.TournamentID)
	if err != nil {
		return nil, err
	}
	var active *models.Round
	for i := range rounds {
		if rounds[i].Status == models.RoundDrawn || rounds[i].Status == models.RoundInProgress {
			active = &rounds[i]
			break
		}
	}
	if active == nil {
		return nil, ErrNoCurrentDebate
	}

	judges, err := s.repo.ListRoundDebateJudges(ctx, active.ID)
	if err != nil {
		return nil, err
	}
	for _, row := range judges {
		if row.AdjudicatorID == adj.ID {
			return &assignment{
				adjudicator: adj,
				round:       active,
				debateID:    row.DebateID,
				isChair:     row.IsChair,
			}, nil
		}
	}
	return nil, ErrNoCurrentDebate
}

// GetBallotForm returns the ballot form for the key holder's current debate,
// including any previously submitted scores
func (s *BallotService) GetBallotForm(ctx context.Context, ballotKey string) (*BallotForm, error) {
	seat, err := s.currentAssignment(ctx, ballotKey)
	if err != nil {
		return nil, err
	}

	teamRows, err := s.repo.ListRoundDebateTeams(ctx, seat.round.ID)
	if err != nil {
		return nil, err
	}

	form := &BallotForm{
		Adjudicator: seat.adjudicator.Name,
		IsChair:     seat.isChair,
		RoundID:     seat.round.ID,
		RoundName:   seat.round.Name,
		RoundStatus: seat.round.Status,
		DebateID:    seat.debateID,
	}

	for _, row := range teamRows {
		if row.DebateID != seat.debateID {
			continue
		}
		speakers, err := s.repo.ListSpeakers(ctx, row.TeamID)
		if err != nil {
			return nil, err
		}
		form.Teams = append(form.Teams, BallotFormTeam{
			TeamID:   row.TeamID,
			Name:     row.TeamName,
			Position: row.Position,
			Speakers: speakers,
		})
	}

	motion, err := s.repo.GetMotion(ctx, seat.round.ID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	form.Motion = motion

	latest, err := s.repo.GetLatestBallot(ctx, seat.debateID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}
	if latest != nil {
		data, err := s.ballotData(ctx, latest)
		if err != nil {
			return nil, err
		}
		form.Latest = data
	}

	return form, nil
}

// SubmitBallot records a new ballot version for the key holder's current
// debate. Every seated team must be scored and exactly one marked the
// winner; speaker scores are optional but must belong to seated teams.
func (s *BallotService) SubmitBallot(ctx context.Context, ballotKey string, sub BallotSubmission) (*BallotData, error) {
	seat, err := s.currentAssignment(ctx, ballotKey)
	if err != nil {
		return nil, err
	}
	if seat.round.Status != models.RoundInProgress {
		return nil, ErrRoundNotInProgress
	}

	teamRows, err := s.repo.ListRoundDebateTeams(ctx, seat.round.ID)
	if err != nil {
		return nil, err
	}
	seated := make(map[int]bool)
	for _, row := range teamRows {
		if row.DebateID == seat.debateID {
			seated[row.TeamID] = true
		}
	}

	if err := s.validateSubmission(ctx, seated, sub); err != nil {
		return nil, err
	}

	ballot := &models.Ballot{
		DebateID:      seat.debateID,
		AdjudicatorID: &seat.adjudicator.ID,
	}
	teamScores := make([]models.TeamScore, 0, len(sub.TeamScores))
	for _, ts := range sub.TeamScores {
		teamScores = append(teamScores, models.TeamScore{TeamID: ts.TeamID, Win: ts.Win, Score: ts.Score})
	}
	speakerScores := make([]models.SpeakerScore, 0, len(sub.SpeakerScores))
	for _, ss := range sub.SpeakerScores {
		speakerScores = append(speakerScores, models.SpeakerScore{SpeakerID: ss.SpeakerID, Position: ss.Position, Score: ss.Score})
	}

	id, err := s.repo.CreateBallot(ctx, ballot, teamScores, speakerScores)
	if err != nil {
		return nil, err
	}
	s.log.Info("Ballot submitted", "debate_id", seat.debateID,
		"adjudicator_id", seat.adjudicator.ID, "version", ballot.Version)

	ballot.ID = int(id)
	return s.ballotData(ctx, ballot)
}

// validateSubmission checks a submission against the seated teams and their
// speakers
func (s *BallotService) validateSubmission(ctx context.Context, seated map[int]bool, sub BallotSubmission) error {
	scored := make(map[int]bool)
	wins := 0
	for _, ts := range sub.TeamScores {
		if !seated[ts.TeamID] {
			return ErrTeamNotInDebate
		}
		if scored[ts.TeamID] {
			return ErrScoresIncomplete
		}
		scored[ts.TeamID] = true
		if ts.Win {
			wins++
		}
		if ts.Score < 0 {
			return apperrors.Validation("team score cannot be negative")
		}
	}
	if len(scored) != len(seated) {
		return ErrScoresIncomplete
	}
	if wins != 1 {
		return ErrWinnerRequired
	}

	if len(sub.SpeakerScores) == 0 {
		return nil
	}
	allowed := make(map[int]bool)
	for teamID := range seated {
		speakers, err := s.repo.ListSpeakers(ctx, teamID)
		if err != nil {
			return err
		}
		for _, sp := range speakers {
			allowed[sp.ID] = true
		}
	}
	seen := make(map[int]bool)
	for _, ss := range sub.SpeakerScores {
		if !allowed[ss.SpeakerID] {
			return ErrSpeakerNotInDebate
		}
		if seen[ss.SpeakerID] {
			return apperrors.Validationf("speaker %d scored twice", ss.SpeakerID)
		}
		seen[ss.SpeakerID] = true
		if ss.Score < 0 || ss.Score > 100 {
			return ErrScoreOutOfRange
		}
	}
	return nil
}

// ConfirmBallot confirms the latest submitted ballot for the key holder's
// debate, locking it into standings
func (s *BallotService) ConfirmBallot(ctx context.Context, ballotKey string) (*BallotData, error) {
	seat, err := s.currentAssignment(ctx, ballotKey)
	if err != nil {
		return nil, err
	}
	if seat.round.Status != models.RoundInProgress {
		return nil, ErrRoundNotInProgress
	}

	latest, err := s.repo.GetLatestBallot(ctx, seat.debateID)
	if err == repository.ErrNotFound {
		return nil, ErrNoBallotToConfirm
	}
	if err != nil {
		return nil, err
	}
	if latest.Confirmed {
		return nil, ErrBallotAlreadyConfirmed
	}

	if err := s.repo.ConfirmBallot(ctx, latest.ID); err != nil {
		return nil, err
	}
	latest.Confirmed = true
	s.log.Info("Ballot confirmed", "debate_id", seat.debateID, "ballot_id", latest.ID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBallotConfirmed(seat.round.ID, seat.debateID)
	}
	return s.ballotData(ctx, latest)
}

// GetDebateBallot returns the latest ballot for a debate, for tab staff
func (s *BallotService) GetDebateBallot(ctx context.Context, debateID int) (*BallotData, error) {
	if _, err := s.repo.GetDebate(ctx, debateID); err != nil {
		return nil, err
	}
	latest, err := s.repo.GetLatestBallot(ctx, debateID)
	if err == repository.ErrNotFound {
		return nil, apperrors.NotFound("no ballot submitted for this debate")
	}
	if err != nil {
		return nil, err
	}
	return s.ballotData(ctx, latest)
}

// ConfirmDebateBallot confirms a debate's latest ballot without a key, for
// tab staff stepping in on a chair's behalf
func (s *BallotService) ConfirmDebateBallot(ctx context.Context, debateID int) (*BallotData, error) {
	debate, err := s.repo.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	latest, err := s.repo.GetLatestBallot(ctx, debateID)
	if err == repository.ErrNotFound {
		return nil, ErrNoBallotToConfirm
	}
	if err != nil {
		return nil, err
	}
	if latest.Confirmed {
		return nil, ErrBallotAlreadyConfirmed
	}

	if err := s.repo.ConfirmBallot(ctx, latest.ID); err != nil {
		return nil, err
	}
	latest.Confirmed = true
	s.log.Info("Ballot confirmed by staff", "debate_id", debateID, "ballot_id", latest.ID)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastBallotConfirmed(debate.RoundID, debateID)
	}
	return s.ballotData(ctx, latest)
}

// ballotData assembles a ballot with its stored scores
func (s *BallotService) ballotData(ctx context.Context, b *models.Ballot) (*BallotData, error) {
	teamScores, err := s.repo.ListTeamScores(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	speakerScores, err := s.repo.ListSpeakerScores(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &BallotData{
		BallotID:      b.ID,
		DebateID:      b.DebateID,
		Version:       b.Version,
		Confirmed:     b.Confirmed,
		TeamScores:    teamScores,
		SpeakerScores: speakerScores,
	}, nil
}
