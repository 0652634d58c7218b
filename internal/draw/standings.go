package draw

import (
	"math/rand"
	"sort"
)

// ComputeStandings derives the ranked team order from completed rounds.
// Teams are ordered by total wins, then cumulative speaker score, then team
// ID so the order is always total. When seed is non-nil, teams tied on both
// wins and speaker score are instead shuffled with the seeded source, which
// keeps the result reproducible for a given seed.
//
// Every roster team appears in the output, including teams with no results
// yet. A result referencing a team outside the roster, or a team recorded
// twice in one round, fails with an IntegrityError.
func ComputeStandings(teams []Team, rounds []CompletedRound, seed *int64) ([]Standing, error) {
	byID := make(map[int]*Standing, len(teams))
	standings := make([]Standing, len(teams))
	for i, t := range teams {
		standings[i] = Standing{Team: t}
		byID[t.ID] = &standings[i]
	}

	for _, rnd := range rounds {
		seen := make(map[int]bool)
		for _, room := range rnd.Rooms {
			for _, res := range room.Teams {
				s, ok := byID[res.TeamID]
				if !ok {
					return nil, &IntegrityError{
						Entity: "team",
						ID:     res.TeamID,
						Detail: "referenced by a ballot but not in the roster",
					}
				}
				if seen[res.TeamID] {
					return nil, &IntegrityError{
						Entity: "team",
						ID:     res.TeamID,
						Detail: "appears more than once in one round",
					}
				}
				seen[res.TeamID] = true
				if res.Win {
					s.Wins++
				}
				s.SpeakerScore += res.Score
			}
		}
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		if standings[i].SpeakerScore != standings[j].SpeakerScore {
			return standings[i].SpeakerScore > standings[j].SpeakerScore
		}
		return standings[i].Team.ID < standings[j].Team.ID
	})

	if seed != nil {
		shuffleTieGroups(standings, *seed)
	}

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings, nil
}

// shuffleTieGroups reorders each run of exact ties (equal wins and equal
// speaker score) with a single seeded source.
func shuffleTieGroups(standings []Standing, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	start := 0
	for i := 1; i <= len(standings); i++ {
		if i < len(standings) &&
			standings[i].Wins == standings[start].Wins &&
			standings[i].SpeakerScore == standings[start].SpeakerScore {
			continue
		}
		if i-start > 1 {
			group := standings[start:i]
			rng.Shuffle(len(group), func(a, b int) {
				group[a], group[b] = group[b], group[a]
			})
		}
		start = i
	}
}
