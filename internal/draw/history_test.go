package draw

import (
	"errors"
	"testing"
)

func TestComputeHistory_NoRounds_IsEmpty(t *testing.T) {
	teams := mkTeams(4)

	hist, err := ComputeHistory(teams, nil, nil)
	if err != nil {
		t.Fatalf("ComputeHistory returned error: %v", err)
	}

	if hist.Met(1, 2) {
		t.Error("expected no met pairs with no completed rounds")
	}
	if hist.HasJudged(1, 1) {
		t.Error("expected no judged teams with no completed rounds")
	}
}

func TestComputeHistory_MetPairsAreUnordered(t *testing.T) {
	teams := mkTeams(4)
	rounds := []CompletedRound{
		{
			Sequence: 1,
			Rooms: []RoomResult{
				{Teams: []TeamResult{result(1, true, 150), result(2, false, 140)}},
				{Teams: []TeamResult{result(3, true, 160), result(4, false, 130)}},
			},
		},
	}

	hist, err := ComputeHistory(teams, nil, rounds)
	if err != nil {
		t.Fatalf("ComputeHistory returned error: %v", err)
	}

	if !hist.Met(1, 2) || !hist.Met(2, 1) {
		t.Error("expected teams 1 and 2 to have met in both argument orders")
	}
	if !hist.Met(3, 4) {
		t.Error("expected teams 3 and 4 to have met")
	}
	if hist.Met(1, 3) || hist.Met(2, 4) {
		t.Error("expected teams from different rooms not to have met")
	}
}

func TestComputeHistory_MultiSideRoomsMeetPairwise(t *testing.T) {
	teams := mkTeams(4)
	rounds := []CompletedRound{
		{
			Sequence: 1,
			Rooms: []RoomResult{
				{Teams: []TeamResult{
					result(1, true, 150), result(2, false, 140),
					result(3, false, 130), result(4, false, 120),
				}},
			},
		},
	}

	hist, err := ComputeHistory(teams, nil, rounds)
	if err != nil {
		t.Fatalf("ComputeHistory returned error: %v", err)
	}

	pairs := [][2]int{{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4}}
	for _, p := range pairs {
		if !hist.Met(p[0], p[1]) {
			t.Errorf("expected teams %d and %d to have met", p[0], p[1])
		}
	}
}

func TestComputeHistory_InstitutionClash(t *testing.T) {
	teams := []Team{
		{ID: 1, Name: "A1", Institution: 100},
		{ID: 2, Name: "A2", Institution: 100},
		{ID: 3, Name: "B1", Institution: 200},
		{ID: 4, Name: "Solo"},
		{ID: 5, Name: "Ronin"},
	}

	hist, err := ComputeHistory(teams, nil, nil)
	if err != nil {
		t.Fatalf("ComputeHistory returned error: %v", err)
	}

	if !hist.InstitutionClash(1, 2) {
		t.Error("expected teams from the same institution to clash")
	}
	if hist.InstitutionClash(1, 3) {
		t.Error("expected teams from different institutions not to clash")
	}
	if hist.InstitutionClash(4, 5) {
		t.Error("independent teams must never clash")
	}
}

func TestComputeHistory_JudgedTeamsAndInstitutions(t *testing.T) {
	teams := []Team{
		{ID: 1, Name: "A", Institution: 100},
		{ID: 2, Name: "B", Institution: 200},
		{ID: 3, Name: "C", Institution: 300},
		{ID: 4, Name: "D"},
	}
	pool := []Adjudicator{
		{ID: 10, Name: "Judge X", Experience: 5},
		{ID: 11, Name: "Judge Y", Experience: 3},
	}
	rounds := []CompletedRound{
		{
			Sequence: 1,
			Rooms: []RoomResult{
				{
					Teams:  []TeamResult{result(1, true, 150), result(2, false, 140)},
					Judges: []int{10},
				},
				{
					Teams:  []TeamResult{result(3, true, 160), result(4, false, 130)},
					Judges: []int{11},
				},
			},
		},
	}

	hist, err := ComputeHistory(teams, pool, rounds)
	if err != nil {
		t.Fatalf("ComputeHistory returned error: %v", err)
	}

	if !hist.HasJudged(10, 1) || !hist.HasJudged(10, 2) {
		t.Error("expected judge 10 to have judged both teams in its room")
	}
	if hist.HasJudged(10, 3) {
		t.Error("expected judge 10 not to have judged teams in other rooms")
	}
	if !hist.HasJudgedInstitution(10, 100) || !hist.HasJudgedInstitution(10, 200) {
		t.Error("expected judge 10 to have judged institutions 100 and 200")
	}
	if hist.HasJudgedInstitution(11, 100) {
		t.Error("expected judge 11 not to have judged institution 100")
	}
	// team 4 is independent, so judging it adds no institution
	if hist.HasJudgedInstitution(11, 0) {
		t.Error("independent teams must not register a judged institution")
	}
}

func TestComputeHistory_UnknownTeamFails(t *testing.T) {
	teams := mkTeams(2)
	rounds := []CompletedRound{
		{
			Sequence: 1,
			Rooms: []RoomResult{
				{Teams: []TeamResult{result(1, true, 150), result(42, false, 140)}},
			},
		},
	}

	_, err := ComputeHistory(teams, nil, rounds)
	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected *IntegrityError, got %T: %v", err, err)
	}
	if integrityErr.Entity != "team" || integrityErr.ID != 42 {
		t.Errorf("expected team 42 in error, got %s %d", integrityErr.Entity, integrityErr.ID)
	}
}

func TestComputeHistory_UnknownAdjudicatorFails(t *testing.T) {
	teams := mkTeams(2)
	pool := []Adjudicator{{ID: 10, Name: "Judge X"}}
	rounds := []CompletedRound{
		{
			Sequence: 1,
			Rooms: []RoomResult{
				{
					Teams:  []TeamResult{result(1, true, 150), result(2, false, 140)},
					Judges: []int{77},
				},
			},
		},
	}

	_, err := ComputeHistory(teams, pool, rounds)
	var integrityErr *IntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected *IntegrityError, got %T: %v", err, err)
	}
	if integrityErr.Entity != "adjudicator" || integrityErr.ID != 77 {
		t.Errorf("expected adjudicator 77 in error, got %s %d", integrityErr.Entity, integrityErr.ID)
	}
}
