package draw

import "fmt"

// GenerateDraw partitions the ranked teams into rooms for the next round
// using power-pairing: teams are taken in rank order and chunked into rooms
// of cfg.Sides, with the within-bracket order controlled by cfg.Method. A
// room that violates a hard constraint (a rematch, or an institution clash
// when cfg.AvoidInstitutionClash is set) triggers a bounded swap search over
// nearby unplaced teams, tried in strict rank-distance order. If no swap
// resolves the violation the draw fails with an InfeasibleError; an illegal
// room is never emitted.
//
// A roster that does not divide evenly is resolved by cfg.ByePolicy:
// LowestRankBye gives each leftover bottom-ranked team its own bye room,
// NoBye fails. hist must be non-nil; compute it even when no rounds have
// completed. The result is deterministic for identical inputs.
func GenerateDraw(standings []Standing, hist *History, cfg Config) ([]Room, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]Standing, len(standings))
	copy(ranked, standings)

	leftover := len(ranked) % cfg.Sides
	if leftover != 0 && cfg.ByePolicy == NoBye {
		return nil, &InfeasibleError{
			Constraint: ConstraintRosterSize,
			Detail: fmt.Sprintf("%d teams do not divide into rooms of %d and byes are disabled",
				len(ranked), cfg.Sides),
		}
	}
	var byeTeams []Standing
	if leftover != 0 {
		byeTeams = ranked[len(ranked)-leftover:]
		ranked = ranked[:len(ranked)-leftover]
	}

	if cfg.Method == MethodFold {
		ranked = foldLineup(ranked, cfg.Sides)
	}

	roomCount := len(ranked) / cfg.Sides
	rooms := make([]Room, 0, roomCount+len(byeTeams))
	for r := 0; r < roomCount; r++ {
		start := r * cfg.Sides
		if err := resolveRoom(ranked, start, hist, cfg); err != nil {
			return nil, err
		}
		teams := make([]Team, cfg.Sides)
		for i, s := range ranked[start : start+cfg.Sides] {
			teams[i] = s.Team
		}
		rooms = append(rooms, Room{Rank: r + 1, Teams: teams})
	}
	for _, s := range byeTeams {
		rooms = append(rooms, Room{Rank: len(rooms) + 1, Teams: []Team{s.Team}, Bye: true})
	}
	return rooms, nil
}

// resolveRoom checks the room starting at start for hard-constraint
// violations and, when one is found, searches for a legal swap between a
// room member and an unplaced team. Candidates are limited to the next two
// rooms' worth of positions to keep swaps within equal or adjacent rank, and
// are tried closest first. The search never touches finalized rooms.
func resolveRoom(ranked []Standing, start int, hist *History, cfg Config) error {
	end := start + cfg.Sides
	ok, constraint, detail := roomLegal(ranked[start:end], hist, cfg)
	if ok {
		return nil
	}

	limit := end + 2*cfg.Sides
	if limit > len(ranked) {
		limit = len(ranked)
	}
	for d := 1; d < limit-start; d++ {
		for p := end - 1; p >= start; p-- {
			q := p + d
			if q < end || q >= limit {
				continue
			}
			ranked[p], ranked[q] = ranked[q], ranked[p]
			if legal, _, _ := roomLegal(ranked[start:end], hist, cfg); legal {
				return nil
			}
			ranked[p], ranked[q] = ranked[q], ranked[p]
		}
	}
	return &InfeasibleError{
		Room:       start/cfg.Sides + 1,
		Constraint: constraint,
		Detail:     detail + ", and no nearby swap resolves it",
	}
}

// roomLegal checks every pair in the candidate room against the hard
// constraints.
func roomLegal(room []Standing, hist *History, cfg Config) (bool, string, string) {
	for i := range room {
		for j := i + 1; j < len(room); j++ {
			a, b := room[i].Team, room[j].Team
			if hist.Met(a.ID, b.ID) {
				return false, ConstraintRematch,
					fmt.Sprintf("%s and %s have already met", a.Name, b.Name)
			}
			if cfg.AvoidInstitutionClash && hist.InstitutionClash(a.ID, b.ID) {
				return false, ConstraintInstitution,
					fmt.Sprintf("%s and %s share an institution", a.Name, b.Name)
			}
		}
	}
	return true, "", ""
}

// foldLineup reorders each equal-wins bracket so that chunking pairs its top
// half against its bottom half instead of consecutive ranks.
func foldLineup(ranked []Standing, sides int) []Standing {
	out := make([]Standing, 0, len(ranked))
	start := 0
	for i := 1; i <= len(ranked); i++ {
		if i < len(ranked) && ranked[i].Wins == ranked[start].Wins {
			continue
		}
		out = append(out, foldBracket(ranked[start:i], sides)...)
		start = i
	}
	return out
}

func foldBracket(bracket []Standing, sides int) []Standing {
	k := len(bracket) / sides
	if k == 0 {
		return bracket
	}
	out := make([]Standing, 0, len(bracket))
	for j := 0; j < k; j++ {
		for side := 0; side < sides; side++ {
			out = append(out, bracket[j+side*k])
		}
	}
	// teams past the last full room keep rank order and spill into the
	// next bracket's chunk
	out = append(out, bracket[k*sides:]...)
	return out
}
