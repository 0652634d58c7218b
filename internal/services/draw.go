package services

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tabbitapp/tabbit/internal/draw"
	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository"
)

// DrawServiceRepository defines the repository methods needed by DrawService
type DrawServiceRepository interface {
	repository.DebateRepository
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	GetRound(ctx context.Context, id int) (*models.Round, error)
	ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error)
	ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error)
	ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error)
	UpdateRoundStatus(ctx context.Context, id int, status models.RoundStatus) error
	GetMotion(ctx context.Context, roundID int) (*models.Motion, error)
	CreateBallot(ctx context.Context, b *models.Ballot, teamScores []models.TeamScore, speakerScores []models.SpeakerScore) (int64, error)
}

// DrawService orchestrates draw generation: standings, history, pairing, and
// panel allocation over a consistent snapshot, persisted atomically
type DrawService struct {
	log         logger.Logger
	repo        DrawServiceRepository
	broadcaster Broadcaster

	mu    sync.Mutex
	locks map[int]*sync.Mutex // per-round generation locks
}

// NewDrawService creates a new DrawService
func NewDrawService(log logger.Logger, repo DrawServiceRepository) *DrawService {
	return &DrawService{log: log, repo: repo, locks: make(map[int]*sync.Mutex)}
}

// SetBroadcaster sets the broadcaster for sending updates to clients
func (s *DrawService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// DrawData is a released draw as shown to participants
type DrawData struct {
	RoundID   int                `json:"round_id"`
	RoundName string             `json:"round_name"`
	Sequence  int                `json:"sequence"`
	Status    models.RoundStatus `json:"status"`
	Motion    *models.Motion     `json:"motion,omitempty"`
	Rooms     []DrawRoom         `json:"rooms"`
}

// DrawRoom is one room of a draw with its seated teams and panel
type DrawRoom struct {
	DebateID int         `json:"debate_id"`
	RoomRank int         `json:"room_rank"`
	IsBye    bool        `json:"is_bye"`
	Teams    []DrawTeam  `json:"teams"`
	Panel    []DrawJudge `json:"panel,omitempty"`
}

// DrawTeam is a team seated in a room, in side order
type DrawTeam struct {
	TeamID   int    `json:"team_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// DrawJudge is an adjudicator sitting on a room's panel
type DrawJudge struct {
	AdjudicatorID int    `json:"adjudicator_id"`
	Name          string `json:"name"`
	IsChair       bool   `json:"is_chair"`
}

// roundLock returns the generation lock for a round, creating it on first use
func (s *DrawService) roundLock(roundID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[roundID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[roundID] = l
	}
	return l
}

// GenerateDraw computes and releases the draw for a round. Standings from
// completed rounds feed power-pairing; panels are allocated from the judge
// pool; the whole draw replaces any earlier draw for the round atomically.
// Regeneration is allowed until the round starts.
func (s *DrawService) GenerateDraw(ctx context.Context, roundID int) (*DrawData, error) {
	lock := s.roundLock(roundID)
	lock.Lock()
	defer lock.Unlock()

	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != models.RoundPending && round.Status != models.RoundDrawn {
		return nil, ErrRoundAlreadyStarted
	}

	tournament, err := s.repo.GetTournament(ctx, round.TournamentID)
	if err != nil {
		return nil, err
	}

	rounds, err := s.repo.ListRounds(ctx, tournament.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range rounds {
		if r.Sequence < round.Sequence && r.Status != models.RoundCompleted {
			return nil, ErrPriorRoundsIncomplete
		}
	}

	// Load the scheduling snapshot
	g, gctx := errgroup.WithContext(ctx)
	var (
		teams   []models.Team
		pool    []models.Adjudicator
		results []repository.ResultRow
		panels  []repository.PanelRow
	)
	g.Go(func() error {
		var err error
		teams, err = s.repo.ListTeams(gctx, tournament.ID)
		return err
	})
	g.Go(func() error {
		var err error
		pool, err = s.repo.ListAdjudicators(gctx, tournament.ID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.repo.ListCompletedResults(gctx, tournament.ID)
		return err
	})
	g.Go(func() error {
		var err error
		panels, err = s.repo.ListCompletedPanels(gctx, tournament.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(teams) == 0 {
		return nil, apperrors.Validation("tournament has no teams registered")
	}

	cfg := drawConfig(tournament)
	drawTeams := toDrawTeams(teams)
	drawPool := toDrawPool(pool)
	completed := toCompletedRounds(results, panels)

	standings, err := draw.ComputeStandings(drawTeams, completed, cfg.TieBreakSeed)
	if err != nil {
		return nil, mapDrawError(err)
	}
	history, err := draw.ComputeHistory(drawTeams, drawPool, completed)
	if err != nil {
		return nil, mapDrawError(err)
	}
	rooms, err := draw.GenerateDraw(standings, history, cfg)
	if err != nil {
		return nil, mapDrawError(err)
	}
	roomPanels, err := draw.AllocatePanels(rooms, drawPool, history, cfg)
	if err != nil {
		return nil, mapDrawError(err)
	}

	panelByRank := make(map[int]draw.Panel, len(roomPanels))
	for _, p := range roomPanels {
		panelByRank[p.RoomRank] = p
	}

	debates := make([]repository.DrawDebate, 0, len(rooms))
	byes := 0
	for _, room := range rooms {
		d := repository.DrawDebate{RoomRank: room.Rank, IsBye: room.Bye}
		for i, team := range room.Teams {
			d.Teams = append(d.Teams, models.DebateTeam{TeamID: team.ID, Position: i + 1})
		}
		if p, ok := panelByRank[room.Rank]; ok {
			d.Judges = append(d.Judges, models.DebateJudge{AdjudicatorID: p.Chair.ID, IsChair: true})
			for _, w := range p.Wings {
				d.Judges = append(d.Judges, models.DebateJudge{AdjudicatorID: w.ID})
			}
		}
		if room.Bye {
			byes++
		}
		debates = append(debates, d)
	}

	if err := s.repo.ReplaceDraw(ctx, roundID, debates); err != nil {
		return nil, err
	}
	if err := s.enterByeResults(ctx, roundID, rooms); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoundStatus(ctx, roundID, models.RoundDrawn); err != nil {
		return nil, err
	}

	s.log.Info("Draw generated", "round_id", roundID, "rooms", len(rooms)-byes, "byes", byes)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastDrawReleased(roundID)
	}
	return s.GetDraw(ctx, roundID)
}

// enterByeResults records a confirmed system ballot for every bye room: a
// win with zero speaker points, so byes never block round completion
func (s *DrawService) enterByeResults(ctx context.Context, roundID int, rooms []draw.Room) error {
	byeTeams := make(map[int]int)
	for _, room := range rooms {
		if room.Bye && len(room.Teams) == 1 {
			byeTeams[room.Rank] = room.Teams[0].ID
		}
	}
	if len(byeTeams) == 0 {
		return nil
	}

	stored, err := s.repo.ListDebates(ctx, roundID)
	if err != nil {
		return err
	}
	for _, d := range stored {
		teamID, ok := byeTeams[d.RoomRank]
		if !ok {
			continue
		}
		ballot := &models.Ballot{DebateID: d.ID, Confirmed: true}
		scores := []models.TeamScore{{TeamID: teamID, Win: true, Score: 0}}
		if _, err := s.repo.CreateBallot(ctx, ballot, scores, nil); err != nil {
			return err
		}
	}
	return nil
}

// GetDraw returns the stored draw for a round that has one
func (s *DrawService) GetDraw(ctx context.Context, roundID int) (*DrawData, error) {
	round, err := s.repo.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status == models.RoundPending {
		return nil, ErrRoundNotDrawn
	}

	debates, err := s.repo.ListDebates(ctx, roundID)
	if err != nil {
		return nil, err
	}
	teamRows, err := s.repo.ListRoundDebateTeams(ctx, roundID)
	if err != nil {
		return nil, err
	}
	judgeRows, err := s.repo.ListRoundDebateJudges(ctx, roundID)
	if err != nil {
		return nil, err
	}

	motion, err := s.repo.GetMotion(ctx, roundID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	teamsByDebate := make(map[int][]DrawTeam)
	for _, row := range teamRows {
		teamsByDebate[row.DebateID] = append(teamsByDebate[row.DebateID], DrawTeam{
			TeamID:   row.TeamID,
			Name:     row.TeamName,
			Position: row.Position,
		})
	}
	judgesByDebate := make(map[int][]DrawJudge)
	for _, row := range judgeRows {
		judgesByDebate[row.DebateID] = append(judgesByDebate[row.DebateID], DrawJudge{
			AdjudicatorID: row.AdjudicatorID,
			Name:          row.Name,
			IsChair:       row.IsChair,
		})
	}

	data := &DrawData{
		RoundID:   round.ID,
		RoundName: round.Name,
		Sequence:  round.Sequence,
		Status:    round.Status,
		Motion:    motion,
	}
	for _, d := range debates {
		data.Rooms = append(data.Rooms, DrawRoom{
			DebateID: d.ID,
			RoomRank: d.RoomRank,
			IsBye:    d.IsBye,
			Teams:    teamsByDebate[d.ID],
			Panel:    judgesByDebate[d.ID],
		})
	}
	return data, nil
}

// drawConfig maps a tournament's stored draw configuration onto the
// scheduling core's config
func drawConfig(t *models.Tournament) draw.Config {
	return draw.Config{
		Sides:                 t.SidesPerRoom,
		PanelSize:             t.PanelSize,
		AvoidInstitutionClash: t.AvoidInstitutionClash,
		ByePolicy:             draw.ByePolicy(t.ByePolicy),
		Method:                draw.Method(t.PairingMethod),
		TieBreakSeed:          t.TieBreakSeed,
	}
}

func toDrawTeams(teams []models.Team) []draw.Team {
	out := make([]draw.Team, 0, len(teams))
	for _, t := range teams {
		inst := 0
		if t.InstitutionID != nil {
			inst = *t.InstitutionID
		}
		out = append(out, draw.Team{ID: t.ID, Name: t.Name, Institution: inst})
	}
	return out
}

func toDrawPool(pool []models.Adjudicator) []draw.Adjudicator {
	out := make([]draw.Adjudicator, 0, len(pool))
	for _, a := range pool {
		inst := 0
		if a.InstitutionID != nil {
			inst = *a.InstitutionID
		}
		out = append(out, draw.Adjudicator{
			ID:          a.ID,
			Name:        a.Name,
			Institution: inst,
			Experience:  a.Experience,
			Independent: a.Independent,
		})
	}
	return out
}

// toCompletedRounds regroups flat result and panel rows into per-round room
// results for the scheduling core
func toCompletedRounds(results []repository.ResultRow, panels []repository.PanelRow) []draw.CompletedRound {
	if len(results) == 0 {
		return nil
	}

	roomsBySeq := make(map[int]map[int]*draw.RoomResult)
	var seqs []int
	for _, row := range results {
		byDebate, ok := roomsBySeq[row.Sequence]
		if !ok {
			byDebate = make(map[int]*draw.RoomResult)
			roomsBySeq[row.Sequence] = byDebate
			seqs = append(seqs, row.Sequence)
		}
		room, ok := byDebate[row.DebateID]
		if !ok {
			room = &draw.RoomResult{Bye: row.IsBye}
			byDebate[row.DebateID] = room
		}
		room.Teams = append(room.Teams, draw.TeamResult{TeamID: row.TeamID, Win: row.Win, Score: row.Score})
	}
	for _, p := range panels {
		byDebate, ok := roomsBySeq[p.Sequence]
		if !ok {
			continue
		}
		if room, ok := byDebate[p.DebateID]; ok {
			room.Judges = append(room.Judges, p.AdjudicatorID)
		}
	}

	sort.Ints(seqs)
	out := make([]draw.CompletedRound, 0, len(seqs))
	for _, seq := range seqs {
		byDebate := roomsBySeq[seq]
		ids := make([]int, 0, len(byDebate))
		for id := range byDebate {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		round := draw.CompletedRound{Sequence: seq}
		for _, id := range ids {
			round.Rooms = append(round.Rooms, *byDebate[id])
		}
		out = append(out, round)
	}
	return out
}

// mapDrawError converts scheduling-core errors into classified application
// errors so handlers can pick the right status code
func mapDrawError(err error) error {
	var infErr *draw.InfeasibleError
	var integErr *draw.IntegrityError
	var cfgErr *draw.ConfigError
	// The core error text names the offending room, constraint, and
	// entities; it must survive to the API response so an operator can
	// relax configuration and retry.
	switch {
	case stderrors.As(err, &infErr):
		return apperrors.Infeasible(infErr.Error())
	case stderrors.As(err, &integErr):
		return apperrors.Integrity(integErr.Error())
	case stderrors.As(err, &cfgErr):
		return apperrors.Validation(cfgErr.Error())
	}
	return err
}
