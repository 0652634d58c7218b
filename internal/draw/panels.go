package draw

import (
	"fmt"
	"sort"
)

// AllocatePanels assigns a panel of cfg.PanelSize adjudicators to every
// non-bye room, working through rooms in rank order so the most senior
// eligible panels land on the top rooms. An adjudicator is skipped for a
// room when they have judged any team in it, have judged any participating
// team's institution, share an institution with a participating team (unless
// flagged independent), or are already booked this round. The chair is the
// highest-experience member of each panel.
//
// A room that cannot reach cfg.PanelSize fails the whole allocation with an
// InfeasibleError naming that room. Unused adjudicators are left unassigned;
// that is not an error. hist must be non-nil.
func AllocatePanels(rooms []Room, pool []Adjudicator, hist *History, cfg Config) ([]Panel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ranked := make([]Room, len(rooms))
	copy(ranked, rooms)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Rank < ranked[j].Rank
	})

	judges := make([]Adjudicator, len(pool))
	copy(judges, pool)
	sort.Slice(judges, func(i, j int) bool {
		if judges[i].Experience != judges[j].Experience {
			return judges[i].Experience > judges[j].Experience
		}
		return judges[i].ID < judges[j].ID
	})

	booked := make(map[int]bool, len(judges))
	panels := make([]Panel, 0, len(ranked))
	for _, room := range ranked {
		if room.Bye {
			continue
		}
		picked := make([]Adjudicator, 0, cfg.PanelSize)
		for _, j := range judges {
			if len(picked) == cfg.PanelSize {
				break
			}
			if booked[j.ID] || conflicted(j, room, hist) {
				continue
			}
			picked = append(picked, j)
		}
		if len(picked) < cfg.PanelSize {
			return nil, &InfeasibleError{
				Room:       room.Rank,
				Constraint: ConstraintPanelSize,
				Detail: fmt.Sprintf("only %d of %d required adjudicators are eligible",
					len(picked), cfg.PanelSize),
			}
		}
		for _, j := range picked {
			booked[j.ID] = true
		}
		panels = append(panels, Panel{
			RoomRank: room.Rank,
			Chair:    picked[0],
			Wings:    picked[1:],
		})
	}
	return panels, nil
}

// conflicted reports whether the adjudicator is barred from the room.
func conflicted(j Adjudicator, room Room, hist *History) bool {
	for _, t := range room.Teams {
		if hist.HasJudged(j.ID, t.ID) {
			return true
		}
		if !j.Independent && j.Institution != 0 && j.Institution == t.Institution {
			return true
		}
		if hist.HasJudgedInstitution(j.ID, t.Institution) {
			return true
		}
	}
	return false
}
