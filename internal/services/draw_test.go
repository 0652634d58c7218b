package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/logger"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/repository/mock"
	"github.com/tabbitapp/tabbit/internal/services"
)

func TestGenerateDraw_FirstRound(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "First Draw Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)
	if err := ts.rounds.SetMotion(ctx, roundID, "This House would ban homework", ""); err != nil {
		t.Fatalf("SetMotion failed: %v", err)
	}

	data, err := ts.draws.GenerateDraw(ctx, roundID)
	if err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}
	if len(data.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(data.Rooms))
	}
	if data.Motion == nil || data.Motion.Text != "This House would ban homework" {
		t.Errorf("draw should carry the round motion, got %+v", data.Motion)
	}

	seated := make(map[int]bool)
	for _, room := range data.Rooms {
		if room.IsBye {
			t.Errorf("room %d is a bye with an even roster", room.RoomRank)
		}
		if len(room.Teams) != 2 {
			t.Fatalf("room %d has %d teams, want 2", room.RoomRank, len(room.Teams))
		}
		for i, team := range room.Teams {
			if team.Position != i+1 {
				t.Errorf("room %d team %d has position %d", room.RoomRank, i, team.Position)
			}
			if seated[team.TeamID] {
				t.Errorf("team %d seated twice", team.TeamID)
			}
			seated[team.TeamID] = true
		}
		chairs := 0
		for _, judge := range room.Panel {
			if judge.IsChair {
				chairs++
			}
		}
		if len(room.Panel) != 1 || chairs != 1 {
			t.Errorf("room %d panel = %d judges, %d chairs", room.RoomRank, len(room.Panel), chairs)
		}
	}
	if len(seated) != 4 {
		t.Errorf("%d teams seated, want 4", len(seated))
	}

	round, err := ts.rounds.GetRound(ctx, roundID)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if round.Status != models.RoundDrawn {
		t.Errorf("Status = %q after draw, want drawn", round.Status)
	}
}

func TestGenerateDraw_OddRosterGetsBye(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Odd Roster Open")

	teamIDs := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		id, err := ts.registration.CreateTeam(ctx, services.Team{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Team %d", i+1),
			Speakers:     []string{fmt.Sprintf("Speaker %da", i+1), fmt.Sprintf("Speaker %db", i+1)},
		})
		if err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
		teamIDs = append(teamIDs, int(id))
	}
	for i := 0; i < 2; i++ {
		if _, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Judge %d", i+1),
			Experience:   i + 1,
		}); err != nil {
			t.Fatalf("CreateAdjudicator failed: %v", err)
		}
	}

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	data, err := ts.draws.GenerateDraw(ctx, roundID)
	if err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}
	if len(data.Rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(data.Rooms))
	}

	bye := data.Rooms[2]
	if !bye.IsBye {
		t.Fatal("last room should be the bye")
	}
	if len(bye.Teams) != 1 {
		t.Fatalf("bye room has %d teams", len(bye.Teams))
	}
	if len(bye.Panel) != 0 {
		t.Errorf("bye room should have no panel, got %d judges", len(bye.Panel))
	}

	// The bye result is entered automatically, so only the two judged
	// debates still owe ballots
	missing, err := ts.repo.CountDebatesMissingConfirmedBallot(ctx, roundID)
	if err != nil {
		t.Fatalf("CountDebatesMissingConfirmedBallot failed: %v", err)
	}
	if missing != 2 {
		t.Errorf("missing ballots = %d, want 2", missing)
	}

	// Play the round out; the bye must not block completion
	if err := ts.rounds.StartRound(ctx, roundID); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}
	enterRoundBallots(t, ts, adjudicatorKeys(t, ts, tournamentID))
	if err := ts.rounds.CompleteRound(ctx, roundID); err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}

	standings, err := ts.standings.GetTeamStandings(ctx, tournamentID)
	if err != nil {
		t.Fatalf("GetTeamStandings failed: %v", err)
	}
	byeTeamID := bye.Teams[0].TeamID
	if byeTeamID != teamIDs[4] {
		t.Errorf("bye went to team %d, want bottom-ranked team %d", byeTeamID, teamIDs[4])
	}
	for _, st := range standings {
		if st.TeamID != byeTeamID {
			continue
		}
		if st.Wins != 1 {
			t.Errorf("bye team wins = %d, want 1", st.Wins)
		}
		if st.SpeakerScore != 0 {
			t.Errorf("bye team speaker score = %.1f, want 0", st.SpeakerScore)
		}
	}
}

func TestGenerateDraw_NoByePolicyRefusesOddRoster(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	tid64, err := ts.tournaments.CreateTournament(ctx, services.Tournament{
		Name:      "Strict Open",
		ByePolicy: "no_bye",
	})
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}
	tournamentID := int(tid64)
	for i := 0; i < 3; i++ {
		if _, err := ts.registration.CreateTeam(ctx, services.Team{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Team %d", i+1),
		}); err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
	}
	if _, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
		TournamentID: tournamentID,
		Name:         "Judge 1",
	}); err != nil {
		t.Fatalf("CreateAdjudicator failed: %v", err)
	}
	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	_, err = ts.draws.GenerateDraw(ctx, int(id64))
	if apperrors.KindOf(err) != apperrors.ErrInfeasible {
		t.Fatalf("expected infeasible error, got %v", err)
	}
	for _, want := range []string{"roster_size", "byes are disabled"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}

func TestGenerateDraw_UnavoidableRematchNamesRoom(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	tid64, err := ts.tournaments.CreateTournament(ctx, services.Tournament{Name: "Two Team Open"})
	if err != nil {
		t.Fatalf("CreateTournament failed: %v", err)
	}
	tournamentID := int(tid64)
	for _, name := range []string{"Arden A", "Blackwood A"} {
		if _, err := ts.registration.CreateTeam(ctx, services.Team{
			TournamentID: tournamentID,
			Name:         name,
			Speakers:     []string{name + " One", name + " Two"},
		}); err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
	}
	if _, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
		TournamentID: tournamentID,
		Name:         "Judge 1",
	}); err != nil {
		t.Fatalf("CreateAdjudicator failed: %v", err)
	}

	r1, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	if _, err := ts.draws.GenerateDraw(ctx, int(r1)); err != nil {
		t.Fatalf("GenerateDraw round 1 failed: %v", err)
	}
	if err := ts.rounds.StartRound(ctx, int(r1)); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}
	enterRoundBallots(t, ts, adjudicatorKeys(t, ts, tournamentID))
	if err := ts.rounds.CompleteRound(ctx, int(r1)); err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}

	// With only two teams a second round must rematch them; the failure
	// has to tell the operator which room and which teams are stuck
	r2, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	_, err = ts.draws.GenerateDraw(ctx, int(r2))
	if apperrors.KindOf(err) != apperrors.ErrInfeasible {
		t.Fatalf("expected infeasible error, got %v", err)
	}
	for _, want := range []string{"room 1", "rematch", "Arden A", "Blackwood A"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}

func TestGenerateDraw_EmptyRoster(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Empty Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	_, err = ts.draws.GenerateDraw(ctx, int(id64))
	if apperrors.KindOf(err) != apperrors.ErrValidation {
		t.Fatalf("expected validation error for empty roster, got %v", err)
	}
}

func TestGenerateDraw_BlockedOnceStarted(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "Locked Draw Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	if _, err := ts.draws.GenerateDraw(ctx, roundID); err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}
	if err := ts.rounds.StartRound(ctx, roundID); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}
	if _, err := ts.draws.GenerateDraw(ctx, roundID); err != services.ErrRoundAlreadyStarted {
		t.Fatalf("expected ErrRoundAlreadyStarted, got %v", err)
	}
}

func TestGenerateDraw_RedrawReplaces(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "Redraw Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	if _, err := ts.draws.GenerateDraw(ctx, roundID); err != nil {
		t.Fatalf("first GenerateDraw failed: %v", err)
	}
	data, err := ts.draws.GenerateDraw(ctx, roundID)
	if err != nil {
		t.Fatalf("second GenerateDraw failed: %v", err)
	}

	if len(data.Rooms) != 2 {
		t.Fatalf("redraw left %d rooms, want 2", len(data.Rooms))
	}
	seated := make(map[int]bool)
	for _, room := range data.Rooms {
		for _, team := range room.Teams {
			if seated[team.TeamID] {
				t.Fatalf("team %d seated twice after redraw", team.TeamID)
			}
			seated[team.TeamID] = true
		}
	}
	if len(seated) != 4 {
		t.Errorf("%d teams seated after redraw, want 4", len(seated))
	}
}

func TestGetDraw_PendingRound(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Pending Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	if _, err := ts.draws.GetDraw(ctx, int(id64)); err != services.ErrRoundNotDrawn {
		t.Fatalf("expected ErrRoundNotDrawn, got %v", err)
	}
}

func TestGenerateDraw_AvoidsInstitutionClash(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Clash Open")

	instID64, err := ts.registration.CreateInstitution(ctx, "Ashford College", "ASH")
	if err != nil {
		t.Fatalf("CreateInstitution failed: %v", err)
	}
	inst := int(instID64)

	newTeam := func(name string, institution *int) int {
		t.Helper()
		id, err := ts.registration.CreateTeam(ctx, services.Team{
			TournamentID:  tournamentID,
			InstitutionID: institution,
			Name:          name,
		})
		if err != nil {
			t.Fatalf("CreateTeam %s failed: %v", name, err)
		}
		return int(id)
	}
	// Registered adjacent, so a naive pairing would put the two Ashford
	// teams in the same room
	ashfordA := newTeam("Ashford A", &inst)
	ashfordB := newTeam("Ashford B", &inst)
	newTeam("Birchwood A", nil)
	newTeam("Carlton A", nil)

	affiliatedID64, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
		TournamentID:  tournamentID,
		InstitutionID: &inst,
		Name:          "Dana Reyes",
		Experience:    3,
	})
	if err != nil {
		t.Fatalf("CreateAdjudicator failed: %v", err)
	}
	affiliated := int(affiliatedID64)
	for i, name := range []string{"Priya Shah", "Marcus Webb"} {
		if _, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
			TournamentID: tournamentID,
			Name:         name,
			Experience:   2 - i,
		}); err != nil {
			t.Fatalf("CreateAdjudicator %s failed: %v", name, err)
		}
	}

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	data, err := ts.draws.GenerateDraw(ctx, int(id64))
	if err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}

	for _, room := range data.Rooms {
		hasA, hasB := false, false
		for _, team := range room.Teams {
			hasA = hasA || team.TeamID == ashfordA
			hasB = hasB || team.TeamID == ashfordB
		}
		if hasA && hasB {
			t.Errorf("room %d seats both Ashford teams", room.RoomRank)
		}
		// The Ashford-affiliated judge cannot sit where an Ashford team speaks
		for _, judge := range room.Panel {
			if judge.AdjudicatorID == affiliated && (hasA || hasB) {
				t.Errorf("room %d is judged by an Ashford judge over an Ashford team", room.RoomRank)
			}
		}
	}
}

func TestGenerateDraw_RepositoryErrors(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "Mock Draw Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	tests := []struct {
		name   string
		inject func(m *mock.Repository, err error)
	}{
		{"teams load", func(m *mock.Repository, err error) { m.ListTeamsError = err }},
		{"results load", func(m *mock.Repository, err error) { m.ListCompletedResultsError = err }},
		{"draw write", func(m *mock.Repository, err error) { m.ReplaceDrawError = err }},
		{"status write", func(m *mock.Repository, err error) { m.UpdateRoundStatusError = err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := mock.NewRepository(ts.repo)
			boom := errors.New("database error")
			tt.inject(mockRepo, boom)

			svc := services.NewDrawService(logger.New(), mockRepo)
			if _, err := svc.GenerateDraw(ctx, roundID); !errors.Is(err, boom) {
				t.Fatalf("expected injected error, got %v", err)
			}
		})
	}
}
