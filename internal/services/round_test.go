package services_test

import (
	"context"
	"fmt"
	"testing"

	apperrors "github.com/tabbitapp/tabbit/internal/errors"
	"github.com/tabbitapp/tabbit/internal/models"
	"github.com/tabbitapp/tabbit/internal/services"
)

// seedSmallTournament registers four teams and two judges so rounds can draw
func seedSmallTournament(t *testing.T, ts *testServices, name string) int {
	t.Helper()
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, name)
	for i := 0; i < 4; i++ {
		_, err := ts.registration.CreateTeam(ctx, services.Team{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Team %d", i+1),
			Speakers:     []string{fmt.Sprintf("Speaker %da", i+1), fmt.Sprintf("Speaker %db", i+1)},
		})
		if err != nil {
			t.Fatalf("CreateTeam failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		_, _, err := ts.registration.CreateAdjudicator(ctx, services.Adjudicator{
			TournamentID: tournamentID,
			Name:         fmt.Sprintf("Judge %d", i+1),
			Experience:   i + 1,
		})
		if err != nil {
			t.Fatalf("CreateAdjudicator failed: %v", err)
		}
	}
	return tournamentID
}

func TestCreateRound_AssignsSequence(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Sequence Open")

	for i := 0; i < 3; i++ {
		if _, err := ts.rounds.CreateRound(ctx, tournamentID, "", ""); err != nil {
			t.Fatalf("CreateRound %d failed: %v", i+1, err)
		}
	}

	rounds, err := ts.rounds.ListRounds(ctx, tournamentID)
	if err != nil {
		t.Fatalf("ListRounds failed: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	for i, r := range rounds {
		if r.Sequence != i+1 {
			t.Errorf("rounds[%d].Sequence = %d, want %d", i, r.Sequence, i+1)
		}
		if r.Name != fmt.Sprintf("Round %d", i+1) {
			t.Errorf("rounds[%d].Name = %q", i, r.Name)
		}
		if r.Abbreviation != fmt.Sprintf("R%d", i+1) {
			t.Errorf("rounds[%d].Abbreviation = %q", i, r.Abbreviation)
		}
		if r.Status != models.RoundPending {
			t.Errorf("rounds[%d].Status = %q, want pending", i, r.Status)
		}
	}
}

func TestCreateRound_CustomName(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Named Rounds Open")

	id, err := ts.rounds.CreateRound(ctx, tournamentID, "Grand Final", "GF")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	round, err := ts.rounds.GetRound(ctx, int(id))
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if round.Name != "Grand Final" || round.Abbreviation != "GF" {
		t.Errorf("round = %q / %q", round.Name, round.Abbreviation)
	}
}

func TestCreateRound_UnknownTournament(t *testing.T) {
	ts := newTestServices(t)

	_, err := ts.rounds.CreateRound(context.Background(), 999, "", "")
	if apperrors.KindOf(err) != apperrors.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartRound_RequiresDraw(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "Start Guard Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	if err := ts.rounds.StartRound(ctx, roundID); err != services.ErrRoundNotDrawn {
		t.Fatalf("expected ErrRoundNotDrawn for a pending round, got %v", err)
	}

	if _, err := ts.draws.GenerateDraw(ctx, roundID); err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}
	if err := ts.rounds.StartRound(ctx, roundID); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	round, err := ts.rounds.GetRound(ctx, roundID)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if round.Status != models.RoundInProgress {
		t.Errorf("Status = %q, want in_progress", round.Status)
	}

	// Starting twice is a conflict
	if err := ts.rounds.StartRound(ctx, roundID); err != services.ErrRoundAlreadyStarted {
		t.Fatalf("expected ErrRoundAlreadyStarted, got %v", err)
	}
}

func TestCompleteRound_Guards(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := seedSmallTournament(t, ts, "Complete Guard Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	// Not in progress yet
	if err := ts.rounds.CompleteRound(ctx, roundID); err != services.ErrRoundNotInProgress {
		t.Fatalf("expected ErrRoundNotInProgress, got %v", err)
	}

	if _, err := ts.draws.GenerateDraw(ctx, roundID); err != nil {
		t.Fatalf("GenerateDraw failed: %v", err)
	}
	if err := ts.rounds.StartRound(ctx, roundID); err != nil {
		t.Fatalf("StartRound failed: %v", err)
	}

	// Ballots outstanding
	if err := ts.rounds.CompleteRound(ctx, roundID); err != services.ErrBallotsOutstanding {
		t.Fatalf("expected ErrBallotsOutstanding, got %v", err)
	}

	enterRoundBallots(t, ts, adjudicatorKeys(t, ts, tournamentID))
	if err := ts.rounds.CompleteRound(ctx, roundID); err != nil {
		t.Fatalf("CompleteRound failed: %v", err)
	}

	round, err := ts.rounds.GetRound(ctx, roundID)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if round.Status != models.RoundCompleted {
		t.Errorf("Status = %q, want completed", round.Status)
	}

	// Completing twice is a conflict
	if err := ts.rounds.CompleteRound(ctx, roundID); err != services.ErrRoundNotInProgress {
		t.Fatalf("expected ErrRoundNotInProgress after completion, got %v", err)
	}
}

func TestMotion_SetAndGet(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Motion Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	roundID := int(id64)

	if _, err := ts.rounds.GetMotion(ctx, roundID); apperrors.KindOf(err) != apperrors.ErrNotFound {
		t.Fatalf("expected not found before the motion is set, got %v", err)
	}

	if err := ts.rounds.SetMotion(ctx, roundID, "  This House would ban homework  ", "Assume a national school system."); err != nil {
		t.Fatalf("SetMotion failed: %v", err)
	}
	motion, err := ts.rounds.GetMotion(ctx, roundID)
	if err != nil {
		t.Fatalf("GetMotion failed: %v", err)
	}
	if motion.Text != "This House would ban homework" {
		t.Errorf("Text = %q", motion.Text)
	}
	if motion.InfoSlide != "Assume a national school system." {
		t.Errorf("InfoSlide = %q", motion.InfoSlide)
	}

	// Setting again replaces the motion
	if err := ts.rounds.SetMotion(ctx, roundID, "This House would abolish exams", ""); err != nil {
		t.Fatalf("SetMotion replace failed: %v", err)
	}
	motion, err = ts.rounds.GetMotion(ctx, roundID)
	if err != nil {
		t.Fatalf("GetMotion failed: %v", err)
	}
	if motion.Text != "This House would abolish exams" {
		t.Errorf("Text = %q after replace", motion.Text)
	}
}

func TestSetMotion_Validation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()
	tournamentID := newTestTournament(t, ts, "Motion Guard Open")

	id64, err := ts.rounds.CreateRound(ctx, tournamentID, "", "")
	if err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	if err := ts.rounds.SetMotion(ctx, int(id64), "   ", ""); apperrors.KindOf(err) != apperrors.ErrValidation {
		t.Errorf("blank motion: expected validation error, got %v", err)
	}
	if err := ts.rounds.SetMotion(ctx, 999, "This House would do things", ""); apperrors.KindOf(err) != apperrors.ErrNotFound {
		t.Errorf("unknown round: expected not found, got %v", err)
	}
}
