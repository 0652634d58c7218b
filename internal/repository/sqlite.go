package repository

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/models"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite works best with single connection
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	// Run migrations
	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tournaments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			abbreviation TEXT,
			sides_per_room INTEGER NOT NULL DEFAULT 2,
			panel_size INTEGER NOT NULL DEFAULT 1,
			avoid_institution_clash BOOLEAN DEFAULT 1,
			bye_policy TEXT NOT NULL DEFAULT 'lowest_rank_bye',
			pairing_method TEXT NOT NULL DEFAULT 'adjacent',
			tie_break_seed INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS institutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			code TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			institution_id INTEGER,
			name TEXT NOT NULL,
			abbreviation TEXT,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
			FOREIGN KEY (institution_id) REFERENCES institutions(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS speakers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			team_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			position INTEGER NOT NULL DEFAULT 1,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS adjudicators (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			institution_id INTEGER,
			name TEXT NOT NULL,
			experience INTEGER NOT NULL DEFAULT 0,
			independent BOOLEAN DEFAULT 0,
			ballot_key TEXT UNIQUE NOT NULL,
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
			FOREIGN KEY (institution_id) REFERENCES institutions(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rounds (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tournament_id INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			name TEXT NOT NULL,
			abbreviation TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			FOREIGN KEY (tournament_id) REFERENCES tournaments(id) ON DELETE CASCADE,
			UNIQUE(tournament_id, sequence)
		)`,
		`CREATE TABLE IF NOT EXISTS motions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id INTEGER UNIQUE NOT NULL,
			text TEXT NOT NULL,
			info_slide TEXT,
			FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS debates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			round_id INTEGER NOT NULL,
			room_rank INTEGER NOT NULL,
			is_bye BOOLEAN DEFAULT 0,
			FOREIGN KEY (round_id) REFERENCES rounds(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS debate_teams (
			debate_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (debate_id, team_id),
			FOREIGN KEY (debate_id) REFERENCES debates(id) ON DELETE CASCADE,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS debate_judges (
			debate_id INTEGER NOT NULL,
			adjudicator_id INTEGER NOT NULL,
			is_chair BOOLEAN DEFAULT 0,
			PRIMARY KEY (debate_id, adjudicator_id),
			FOREIGN KEY (debate_id) REFERENCES debates(id) ON DELETE CASCADE,
			FOREIGN KEY (adjudicator_id) REFERENCES adjudicators(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS ballots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			debate_id INTEGER NOT NULL,
			adjudicator_id INTEGER,
			version INTEGER NOT NULL DEFAULT 1,
			confirmed BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (debate_id) REFERENCES debates(id) ON DELETE CASCADE,
			FOREIGN KEY (adjudicator_id) REFERENCES adjudicators(id) ON DELETE SET NULL,
			UNIQUE(debate_id, version)
		)`,
		`CREATE TABLE IF NOT EXISTS ballot_team_scores (
			ballot_id INTEGER NOT NULL,
			team_id INTEGER NOT NULL,
			win BOOLEAN NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (ballot_id, team_id),
			FOREIGN KEY (ballot_id) REFERENCES ballots(id) ON DELETE CASCADE,
			FOREIGN KEY (team_id) REFERENCES teams(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS ballot_speaker_scores (
			ballot_id INTEGER NOT NULL,
			speaker_id INTEGER NOT NULL,
			position INTEGER NOT NULL,
			score REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (ballot_id, speaker_id),
			FOREIGN KEY (ballot_id) REFERENCES ballots(id) ON DELETE CASCADE,
			FOREIGN KEY (speaker_id) REFERENCES speakers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_teams_tournament ON teams(tournament_id)`,
		`CREATE INDEX IF NOT EXISTS idx_speakers_team ON speakers(team_id)`,
		`CREATE INDEX IF NOT EXISTS idx_adjudicators_tournament ON adjudicators(tournament_id)`,
		`CREATE INDEX IF NOT EXISTS idx_adjudicators_key ON adjudicators(ballot_key)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_tournament ON rounds(tournament_id)`,
		`CREATE INDEX IF NOT EXISTS idx_debates_round ON debates(round_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ballots_debate ON ballots(debate_id)`,
	}

	additionalMigrations := []string{
		`ALTER TABLE tournaments ADD COLUMN tie_break_seed INTEGER`,
		`ALTER TABLE tournaments ADD COLUMN pairing_method TEXT DEFAULT 'adjacent'`,
		`ALTER TABLE teams ADD COLUMN abbreviation TEXT`,
		`ALTER TABLE rounds ADD COLUMN abbreviation TEXT`,
		`ALTER TABLE adjudicators ADD COLUMN independent BOOLEAN DEFAULT 0`,
		`ALTER TABLE motions ADD COLUMN info_slide TEXT`,
		`ALTER TABLE ballots ADD COLUMN confirmed BOOLEAN DEFAULT 0`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}

	for _, migration := range additionalMigrations {
		r.db.Exec(migration) // Ignore errors - columns may already exist
	}

	return nil
}

// ==================== Tournament Methods ====================

// ListTournaments returns all tournaments, newest first
func (r *Repository) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, abbreviation, sides_per_room, panel_size,
		       avoid_institution_clash, bye_policy, pairing_method, tie_break_seed
		FROM tournaments ORDER BY id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []models.Tournament
	for rows.Next() {
		var t models.Tournament
		var abbreviation sql.NullString
		var seed sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Name, &abbreviation, &t.SidesPerRoom, &t.PanelSize,
			&t.AvoidInstitutionClash, &t.ByePolicy, &t.PairingMethod, &seed); err != nil {
			return nil, err
		}
		t.Abbreviation = abbreviation.String
		if seed.Valid {
			s := seed.Int64
			t.TieBreakSeed = &s
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

// GetTournament returns a tournament by ID
func (r *Repository) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var t models.Tournament
	var abbreviation sql.NullString
	var seed sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, abbreviation, sides_per_room, panel_size,
		       avoid_institution_clash, bye_policy, pairing_method, tie_break_seed
		FROM tournaments WHERE id = ?
	`, id).Scan(&t.ID, &t.Name, &abbreviation, &t.SidesPerRoom, &t.PanelSize,
		&t.AvoidInstitutionClash, &t.ByePolicy, &t.PairingMethod, &seed)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("tournament not found")
	}
	if err != nil {
		return nil, err
	}
	t.Abbreviation = abbreviation.String
	if seed.Valid {
		s := seed.Int64
		t.TieBreakSeed = &s
	}
	return &t, nil
}

// CreateTournament creates a new tournament
func (r *Repository) CreateTournament(ctx context.Context, t *models.Tournament) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO tournaments (name, abbreviation, sides_per_room, panel_size,
			avoid_institution_clash, bye_policy, pairing_method, tie_break_seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Name, t.Abbreviation, t.SidesPerRoom, t.PanelSize,
		t.AvoidInstitutionClash, t.ByePolicy, t.PairingMethod, t.TieBreakSeed)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateTournament updates a tournament's name and draw configuration
func (r *Repository) UpdateTournament(ctx context.Context, t *models.Tournament) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tournaments SET name = ?, abbreviation = ?, sides_per_room = ?, panel_size = ?,
			avoid_institution_clash = ?, bye_policy = ?, pairing_method = ?, tie_break_seed = ?
		WHERE id = ?
	`, t.Name, t.Abbreviation, t.SidesPerRoom, t.PanelSize,
		t.AvoidInstitutionClash, t.ByePolicy, t.PairingMethod, t.TieBreakSeed, t.ID)
	return err
}

// DeleteTournament deletes a tournament and everything under it (cascades)
func (r *Repository) DeleteTournament(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = ?`, id)
	return err
}

// GetTournamentStats returns registration and progress counts for a tournament
func (r *Repository) GetTournamentStats(ctx context.Context, id int) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var teams int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE tournament_id = ?`, id).Scan(&teams); err != nil {
		return nil, err
	}
	stats["teams"] = teams

	var speakers int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM speakers s JOIN teams t ON s.team_id = t.id WHERE t.tournament_id = ?
	`, id).Scan(&speakers); err != nil {
		return nil, err
	}
	stats["speakers"] = speakers

	var adjudicators int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM adjudicators WHERE tournament_id = ?`, id).Scan(&adjudicators); err != nil {
		return nil, err
	}
	stats["adjudicators"] = adjudicators

	var rounds int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds WHERE tournament_id = ?`, id).Scan(&rounds); err != nil {
		return nil, err
	}
	stats["rounds"] = rounds

	var completedRounds int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rounds WHERE tournament_id = ? AND status = 'completed'
	`, id).Scan(&completedRounds); err != nil {
		return nil, err
	}
	stats["completed_rounds"] = completedRounds

	var confirmedBallots int
	if err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballots b
		JOIN debates d ON b.debate_id = d.id
		JOIN rounds r ON d.round_id = r.id
		WHERE r.tournament_id = ? AND b.confirmed = 1
	`, id).Scan(&confirmedBallots); err != nil {
		return nil, err
	}
	stats["confirmed_ballots"] = confirmedBallots

	return stats, nil
}

// ==================== Institution Methods ====================

// ListInstitutions returns all institutions ordered by code
func (r *Repository) ListInstitutions(ctx context.Context) ([]models.Institution, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code FROM institutions ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var institutions []models.Institution
	for rows.Next() {
		var inst models.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.Code); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}
	return institutions, nil
}

// GetInstitution returns an institution by ID
func (r *Repository) GetInstitution(ctx context.Context, id int) (*models.Institution, error) {
	var inst models.Institution
	err := r.db.QueryRowContext(ctx, `SELECT id, name, code FROM institutions WHERE id = ?`, id).
		Scan(&inst.ID, &inst.Name, &inst.Code)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("institution not found")
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// GetInstitutionByCode returns an institution by its short code
func (r *Repository) GetInstitutionByCode(ctx context.Context, code string) (*models.Institution, error) {
	var inst models.Institution
	err := r.db.QueryRowContext(ctx, `SELECT id, name, code FROM institutions WHERE code = ?`, code).
		Scan(&inst.ID, &inst.Name, &inst.Code)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// CreateInstitution creates a new institution
func (r *Repository) CreateInstitution(ctx context.Context, name, code string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO institutions (name, code) VALUES (?, ?)`, name, code)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateInstitution updates an institution
func (r *Repository) UpdateInstitution(ctx context.Context, id int, name, code string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE institutions SET name = ?, code = ? WHERE id = ?`, name, code, id)
	return err
}

// DeleteInstitution deletes an institution; member teams become independent
func (r *Repository) DeleteInstitution(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM institutions WHERE id = ?`, id)
	return err
}

// ==================== Team Methods ====================

// ListTeams returns all teams in a tournament
func (r *Repository) ListTeams(ctx context.Context, tournamentID int) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, institution_id, name, abbreviation
		FROM teams WHERE tournament_id = ? ORDER BY name
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		var instID sql.NullInt64
		var abbreviation sql.NullString
		if err := rows.Scan(&t.ID, &t.TournamentID, &instID, &t.Name, &abbreviation); err != nil {
			return nil, err
		}
		if instID.Valid {
			id := int(instID.Int64)
			t.InstitutionID = &id
		}
		t.Abbreviation = abbreviation.String
		teams = append(teams, t)
	}
	return teams, nil
}

// GetTeam returns a team by ID
func (r *Repository) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	var t models.Team
	var instID sql.NullInt64
	var abbreviation sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, institution_id, name, abbreviation FROM teams WHERE id = ?
	`, id).Scan(&t.ID, &t.TournamentID, &instID, &t.Name, &abbreviation)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("team not found")
	}
	if err != nil {
		return nil, err
	}
	if instID.Valid {
		iid := int(instID.Int64)
		t.InstitutionID = &iid
	}
	t.Abbreviation = abbreviation.String
	return &t, nil
}

// CreateTeam creates a new team
func (r *Repository) CreateTeam(ctx context.Context, t *models.Team) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO teams (tournament_id, institution_id, name, abbreviation) VALUES (?, ?, ?, ?)
	`, t.TournamentID, t.InstitutionID, t.Name, t.Abbreviation)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateTeam updates a team
func (r *Repository) UpdateTeam(ctx context.Context, t *models.Team) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE teams SET institution_id = ?, name = ?, abbreviation = ? WHERE id = ?
	`, t.InstitutionID, t.Name, t.Abbreviation, t.ID)
	return err
}

// DeleteTeam deletes a team and its speakers (cascades)
func (r *Repository) DeleteTeam(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = ?`, id)
	return err
}

// ==================== Speaker Methods ====================

// ListSpeakers returns a team's speakers in speaking order
func (r *Repository) ListSpeakers(ctx context.Context, teamID int) ([]models.Speaker, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, team_id, name, position FROM speakers WHERE team_id = ? ORDER BY position
	`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var speakers []models.Speaker
	for rows.Next() {
		var s models.Speaker
		if err := rows.Scan(&s.ID, &s.TeamID, &s.Name, &s.Position); err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, nil
}

// CreateSpeaker creates a new speaker
func (r *Repository) CreateSpeaker(ctx context.Context, s *models.Speaker) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO speakers (team_id, name, position) VALUES (?, ?, ?)
	`, s.TeamID, s.Name, s.Position)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateSpeaker updates a speaker
func (r *Repository) UpdateSpeaker(ctx context.Context, s *models.Speaker) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE speakers SET name = ?, position = ? WHERE id = ?
	`, s.Name, s.Position, s.ID)
	return err
}

// DeleteSpeaker deletes a speaker
func (r *Repository) DeleteSpeaker(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM speakers WHERE id = ?`, id)
	return err
}

// ==================== Adjudicator Methods ====================

// ListAdjudicators returns all adjudicators in a tournament
func (r *Repository) ListAdjudicators(ctx context.Context, tournamentID int) ([]models.Adjudicator, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, institution_id, name, experience, independent, ballot_key
		FROM adjudicators WHERE tournament_id = ? ORDER BY name
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjudicators []models.Adjudicator
	for rows.Next() {
		var a models.Adjudicator
		var instID sql.NullInt64
		if err := rows.Scan(&a.ID, &a.TournamentID, &instID, &a.Name, &a.Experience, &a.Independent, &a.BallotKey); err != nil {
			return nil, err
		}
		if instID.Valid {
			id := int(instID.Int64)
			a.InstitutionID = &id
		}
		adjudicators = append(adjudicators, a)
	}
	return adjudicators, nil
}

// GetAdjudicator returns an adjudicator by ID
func (r *Repository) GetAdjudicator(ctx context.Context, id int) (*models.Adjudicator, error) {
	var a models.Adjudicator
	var instID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, institution_id, name, experience, independent, ballot_key
		FROM adjudicators WHERE id = ?
	`, id).Scan(&a.ID, &a.TournamentID, &instID, &a.Name, &a.Experience, &a.Independent, &a.BallotKey)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("adjudicator not found")
	}
	if err != nil {
		return nil, err
	}
	if instID.Valid {
		iid := int(instID.Int64)
		a.InstitutionID = &iid
	}
	return &a, nil
}

// GetAdjudicatorByKey returns the adjudicator holding a ballot key
func (r *Repository) GetAdjudicatorByKey(ctx context.Context, ballotKey string) (*models.Adjudicator, error) {
	var a models.Adjudicator
	var instID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, institution_id, name, experience, independent, ballot_key
		FROM adjudicators WHERE ballot_key = ?
	`, ballotKey).Scan(&a.ID, &a.TournamentID, &instID, &a.Name, &a.Experience, &a.Independent, &a.BallotKey)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if instID.Valid {
		iid := int(instID.Int64)
		a.InstitutionID = &iid
	}
	return &a, nil
}

// CreateAdjudicator creates a new adjudicator
func (r *Repository) CreateAdjudicator(ctx context.Context, a *models.Adjudicator) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO adjudicators (tournament_id, institution_id, name, experience, independent, ballot_key)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.TournamentID, a.InstitutionID, a.Name, a.Experience, a.Independent, a.BallotKey)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateAdjudicator updates an adjudicator
func (r *Repository) UpdateAdjudicator(ctx context.Context, a *models.Adjudicator) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE adjudicators SET institution_id = ?, name = ?, experience = ?, independent = ? WHERE id = ?
	`, a.InstitutionID, a.Name, a.Experience, a.Independent, a.ID)
	return err
}

// DeleteAdjudicator deletes an adjudicator
func (r *Repository) DeleteAdjudicator(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM adjudicators WHERE id = ?`, id)
	return err
}

// ==================== Round Methods ====================

// ListRounds returns a tournament's rounds in sequence order
func (r *Repository) ListRounds(ctx context.Context, tournamentID int) ([]models.Round, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, sequence, name, abbreviation, status
		FROM rounds WHERE tournament_id = ? ORDER BY sequence
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []models.Round
	for rows.Next() {
		var round models.Round
		var abbreviation sql.NullString
		if err := rows.Scan(&round.ID, &round.TournamentID, &round.Sequence, &round.Name, &abbreviation, &round.Status); err != nil {
			return nil, err
		}
		round.Abbreviation = abbreviation.String
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// GetRound returns a round by ID
func (r *Repository) GetRound(ctx context.Context, id int) (*models.Round, error) {
	var round models.Round
	var abbreviation sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, tournament_id, sequence, name, abbreviation, status FROM rounds WHERE id = ?
	`, id).Scan(&round.ID, &round.TournamentID, &round.Sequence, &round.Name, &abbreviation, &round.Status)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("round not found")
	}
	if err != nil {
		return nil, err
	}
	round.Abbreviation = abbreviation.String
	return &round, nil
}

// CreateRound creates a new round
func (r *Repository) CreateRound(ctx context.Context, round *models.Round) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO rounds (tournament_id, sequence, name, abbreviation, status) VALUES (?, ?, ?, ?, ?)
	`, round.TournamentID, round.Sequence, round.Name, round.Abbreviation, round.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// UpdateRoundStatus moves a round through its lifecycle
func (r *Repository) UpdateRoundStatus(ctx context.Context, id int, status models.RoundStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE rounds SET status = ? WHERE id = ?`, status, id)
	return err
}

// SetMotion creates or replaces a round's motion
func (r *Repository) SetMotion(ctx context.Context, m *models.Motion) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO motions (round_id, text, info_slide)
		VALUES (?, ?, ?)
		ON CONFLICT(round_id) DO UPDATE SET
			text = excluded.text,
			info_slide = excluded.info_slide
	`, m.RoundID, m.Text, m.InfoSlide)
	return err
}

// GetMotion returns a round's motion
func (r *Repository) GetMotion(ctx context.Context, roundID int) (*models.Motion, error) {
	var m models.Motion
	var infoSlide sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, round_id, text, info_slide FROM motions WHERE round_id = ?
	`, roundID).Scan(&m.ID, &m.RoundID, &m.Text, &infoSlide)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.InfoSlide = infoSlide.String
	return &m, nil
}

// ==================== Debate Methods ====================

// DrawDebate is one room of a generated draw pending persistence. The
// debate IDs on Teams and Judges are filled in during the insert.
type DrawDebate struct {
	RoomRank int
	IsBye    bool
	Teams    []models.DebateTeam
	Judges   []models.DebateJudge
}

// ReplaceDraw atomically replaces a round's debates with a new draw.
// Old debates, seatings, panels, and ballots for the round cascade away.
func (r *Repository) ReplaceDraw(ctx context.Context, roundID int, debates []DrawDebate) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM debates WHERE round_id = ?`, roundID); err != nil {
		return err
	}

	for _, d := range debates {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO debates (round_id, room_rank, is_bye) VALUES (?, ?, ?)`,
			roundID, d.RoomRank, d.IsBye)
		if err != nil {
			return err
		}
		debateID, err := result.LastInsertId()
		if err != nil {
			return err
		}
		for _, dt := range d.Teams {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO debate_teams (debate_id, team_id, position) VALUES (?, ?, ?)`,
				debateID, dt.TeamID, dt.Position); err != nil {
				return err
			}
		}
		for _, dj := range d.Judges {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO debate_judges (debate_id, adjudicator_id, is_chair) VALUES (?, ?, ?)`,
				debateID, dj.AdjudicatorID, dj.IsChair); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListDebates returns a round's debates ordered by room rank
func (r *Repository) ListDebates(ctx context.Context, roundID int) ([]models.Debate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, round_id, room_rank, is_bye FROM debates WHERE round_id = ? ORDER BY room_rank
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debates []models.Debate
	for rows.Next() {
		var d models.Debate
		if err := rows.Scan(&d.ID, &d.RoundID, &d.RoomRank, &d.IsBye); err != nil {
			return nil, err
		}
		debates = append(debates, d)
	}
	return debates, nil
}

// GetDebate returns a debate by ID
func (r *Repository) GetDebate(ctx context.Context, id int) (*models.Debate, error) {
	var d models.Debate
	err := r.db.QueryRowContext(ctx, `
		SELECT id, round_id, room_rank, is_bye FROM debates WHERE id = ?
	`, id).Scan(&d.ID, &d.RoundID, &d.RoomRank, &d.IsBye)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("debate not found")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DebateTeamRow is a team seated in a room, with its display name
type DebateTeamRow struct {
	DebateID int
	TeamID   int
	TeamName string
	Position int
}

// ListRoundDebateTeams returns every team seating in a round's draw
func (r *Repository) ListRoundDebateTeams(ctx context.Context, roundID int) ([]DebateTeamRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dt.debate_id, dt.team_id, t.name, dt.position
		FROM debate_teams dt
		JOIN debates d ON dt.debate_id = d.id
		JOIN teams t ON dt.team_id = t.id
		WHERE d.round_id = ?
		ORDER BY d.room_rank, dt.position
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seatings []DebateTeamRow
	for rows.Next() {
		var row DebateTeamRow
		if err := rows.Scan(&row.DebateID, &row.TeamID, &row.TeamName, &row.Position); err != nil {
			return nil, err
		}
		seatings = append(seatings, row)
	}
	return seatings, nil
}

// DebateJudgeRow is a panel assignment in a room, with the judge's name
type DebateJudgeRow struct {
	DebateID      int
	AdjudicatorID int
	Name          string
	IsChair       bool
}

// ListRoundDebateJudges returns every panel assignment in a round's draw
func (r *Repository) ListRoundDebateJudges(ctx context.Context, roundID int) ([]DebateJudgeRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dj.debate_id, dj.adjudicator_id, a.name, dj.is_chair
		FROM debate_judges dj
		JOIN debates d ON dj.debate_id = d.id
		JOIN adjudicators a ON dj.adjudicator_id = a.id
		WHERE d.round_id = ?
		ORDER BY d.room_rank, dj.is_chair DESC, a.name
	`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var panels []DebateJudgeRow
	for rows.Next() {
		var row DebateJudgeRow
		if err := rows.Scan(&row.DebateID, &row.AdjudicatorID, &row.Name, &row.IsChair); err != nil {
			return nil, err
		}
		panels = append(panels, row)
	}
	return panels, nil
}

// ==================== Result Methods ====================

// ResultRow is one team's outcome in one completed debate, taken from the
// latest confirmed ballot for that debate
type ResultRow struct {
	Sequence int
	DebateID int
	RoomRank int
	IsBye    bool
	TeamID   int
	Win      bool
	Score    float64
}

// ListCompletedResults returns team outcomes for all completed rounds of a
// tournament, ordered by round sequence then room rank
func (r *Repository) ListCompletedResults(ctx context.Context, tournamentID int) ([]ResultRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rd.sequence, d.id, d.room_rank, d.is_bye, ts.team_id, ts.win, ts.score
		FROM rounds rd
		JOIN debates d ON d.round_id = rd.id
		JOIN ballots b ON b.debate_id = d.id AND b.confirmed = 1
		JOIN ballot_team_scores ts ON ts.ballot_id = b.id
		WHERE rd.tournament_id = ? AND rd.status = 'completed'
		  AND b.version = (
			SELECT MAX(b2.version) FROM ballots b2
			WHERE b2.debate_id = d.id AND b2.confirmed = 1
		  )
		ORDER BY rd.sequence, d.room_rank
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultRow
	for rows.Next() {
		var row ResultRow
		if err := rows.Scan(&row.Sequence, &row.DebateID, &row.RoomRank, &row.IsBye, &row.TeamID, &row.Win, &row.Score); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, nil
}

// PanelRow is one adjudicator's sitting in one completed debate
type PanelRow struct {
	Sequence      int
	DebateID      int
	AdjudicatorID int
}

// ListCompletedPanels returns panel sittings for all completed rounds of a
// tournament
func (r *Repository) ListCompletedPanels(ctx context.Context, tournamentID int) ([]PanelRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT rd.sequence, dj.debate_id, dj.adjudicator_id
		FROM rounds rd
		JOIN debates d ON d.round_id = rd.id
		JOIN debate_judges dj ON dj.debate_id = d.id
		WHERE rd.tournament_id = ? AND rd.status = 'completed'
		ORDER BY rd.sequence, d.room_rank
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var panels []PanelRow
	for rows.Next() {
		var row PanelRow
		if err := rows.Scan(&row.Sequence, &row.DebateID, &row.AdjudicatorID); err != nil {
			return nil, err
		}
		panels = append(panels, row)
	}
	return panels, nil
}

// SpeakerTotalRow is a speaker's cumulative points over completed rounds
type SpeakerTotalRow struct {
	SpeakerID int
	Name      string
	TeamName  string
	Total     float64
}

// ListSpeakerTotals returns cumulative speaker points from the latest
// confirmed ballots of completed rounds, highest first
func (r *Repository) ListSpeakerTotals(ctx context.Context, tournamentID int) ([]SpeakerTotalRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.name, t.name, SUM(ss.score) as total
		FROM rounds rd
		JOIN debates d ON d.round_id = rd.id
		JOIN ballots b ON b.debate_id = d.id AND b.confirmed = 1
		JOIN ballot_speaker_scores ss ON ss.ballot_id = b.id
		JOIN speakers s ON ss.speaker_id = s.id
		JOIN teams t ON s.team_id = t.id
		WHERE rd.tournament_id = ? AND rd.status = 'completed'
		  AND b.version = (
			SELECT MAX(b2.version) FROM ballots b2
			WHERE b2.debate_id = d.id AND b2.confirmed = 1
		  )
		GROUP BY s.id, s.name, t.name
		ORDER BY total DESC, s.id
	`, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []SpeakerTotalRow
	for rows.Next() {
		var row SpeakerTotalRow
		if err := rows.Scan(&row.SpeakerID, &row.Name, &row.TeamName, &row.Total); err != nil {
			return nil, err
		}
		totals = append(totals, row)
	}
	return totals, nil
}

// ==================== Ballot Methods ====================

// GetBallot returns a ballot by ID
func (r *Repository) GetBallot(ctx context.Context, id int) (*models.Ballot, error) {
	var b models.Ballot
	var adjID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, debate_id, adjudicator_id, version, confirmed FROM ballots WHERE id = ?
	`, id).Scan(&b.ID, &b.DebateID, &adjID, &b.Version, &b.Confirmed)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("ballot not found")
	}
	if err != nil {
		return nil, err
	}
	if adjID.Valid {
		aid := int(adjID.Int64)
		b.AdjudicatorID = &aid
	}
	return &b, nil
}

// GetLatestBallot returns the newest ballot version for a debate
func (r *Repository) GetLatestBallot(ctx context.Context, debateID int) (*models.Ballot, error) {
	var b models.Ballot
	var adjID sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT id, debate_id, adjudicator_id, version, confirmed
		FROM ballots WHERE debate_id = ? ORDER BY version DESC LIMIT 1
	`, debateID).Scan(&b.ID, &b.DebateID, &adjID, &b.Version, &b.Confirmed)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if adjID.Valid {
		aid := int(adjID.Int64)
		b.AdjudicatorID = &aid
	}
	return &b, nil
}

// CreateBallot inserts a ballot with its scores in one transaction. The
// version is assigned here, one above the debate's current maximum, and is
// written back to b.
func (r *Repository) CreateBallot(ctx context.Context, b *models.Ballot, teamScores []models.TeamScore, speakerScores []models.SpeakerScore) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var maxVersion sql.NullInt64
	if err := tx.QueryRowContext(ctx,
		`SELECT MAX(version) FROM ballots WHERE debate_id = ?`, b.DebateID).Scan(&maxVersion); err != nil {
		return 0, err
	}
	b.Version = int(maxVersion.Int64) + 1

	result, err := tx.ExecContext(ctx, `
		INSERT INTO ballots (debate_id, adjudicator_id, version, confirmed) VALUES (?, ?, ?, ?)
	`, b.DebateID, b.AdjudicatorID, b.Version, b.Confirmed)
	if err != nil {
		return 0, err
	}
	ballotID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, ts := range teamScores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ballot_team_scores (ballot_id, team_id, win, score) VALUES (?, ?, ?, ?)
		`, ballotID, ts.TeamID, ts.Win, ts.Score); err != nil {
			return 0, err
		}
	}
	for _, ss := range speakerScores {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO ballot_speaker_scores (ballot_id, speaker_id, position, score) VALUES (?, ?, ?, ?)
		`, ballotID, ss.SpeakerID, ss.Position, ss.Score); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return ballotID, nil
}

// ConfirmBallot marks a ballot as confirmed
func (r *Repository) ConfirmBallot(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE ballots SET confirmed = 1 WHERE id = ?`, id)
	return err
}

// ListTeamScores returns a ballot's team outcomes
func (r *Repository) ListTeamScores(ctx context.Context, ballotID int) ([]models.TeamScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ballot_id, team_id, win, score FROM ballot_team_scores WHERE ballot_id = ?
	`, ballotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.TeamScore
	for rows.Next() {
		var ts models.TeamScore
		if err := rows.Scan(&ts.BallotID, &ts.TeamID, &ts.Win, &ts.Score); err != nil {
			return nil, err
		}
		scores = append(scores, ts)
	}
	return scores, nil
}

// ListSpeakerScores returns a ballot's speaker points
func (r *Repository) ListSpeakerScores(ctx context.Context, ballotID int) ([]models.SpeakerScore, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ballot_id, speaker_id, position, score FROM ballot_speaker_scores WHERE ballot_id = ? ORDER BY position
	`, ballotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []models.SpeakerScore
	for rows.Next() {
		var ss models.SpeakerScore
		if err := rows.Scan(&ss.BallotID, &ss.SpeakerID, &ss.Position, &ss.Score); err != nil {
			return nil, err
		}
		scores = append(scores, ss)
	}
	return scores, nil
}

// CountDebatesMissingConfirmedBallot returns how many of a round's debates
// still have no confirmed ballot
func (r *Repository) CountDebatesMissingConfirmedBallot(ctx context.Context, roundID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM debates d
		WHERE d.round_id = ? AND NOT EXISTS (
			SELECT 1 FROM ballots b WHERE b.debate_id = d.id AND b.confirmed = 1
		)
	`, roundID).Scan(&count)
	return count, err
}

// ==================== Settings Methods ====================

// GetSetting retrieves a setting value
func (r *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return value, err
}

// SetSetting updates a setting value
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}
