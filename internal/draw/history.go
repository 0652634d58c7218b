package draw

// teamPair is an unordered team pair, normalized so A < B.
type teamPair struct {
	A, B int
}

func pairOf(a, b int) teamPair {
	if a > b {
		a, b = b, a
	}
	return teamPair{A: a, B: b}
}

type adjTeam struct {
	Adj, Team int
}

type adjInst struct {
	Adj, Inst int
}

// History holds the hard avoidance constraints derived from completed
// rounds: which teams have met, and which teams and institutions each
// adjudicator has judged. These sets are exclusion constraints, never
// heuristic scores.
type History struct {
	metPairs    map[teamPair]bool
	judgedTeams map[adjTeam]bool
	judgedInsts map[adjInst]bool
	teamInsts   map[int]int // roster team -> institution, 0 when independent
}

// ComputeHistory derives avoidance sets from completed rounds. Pending or
// in-progress rounds must not be passed in; their outcomes are unknown and
// never constrain a draw. Results referencing teams or adjudicators outside
// the rosters fail with an IntegrityError.
func ComputeHistory(teams []Team, pool []Adjudicator, rounds []CompletedRound) (*History, error) {
	h := &History{
		metPairs:    make(map[teamPair]bool),
		judgedTeams: make(map[adjTeam]bool),
		judgedInsts: make(map[adjInst]bool),
		teamInsts:   make(map[int]int, len(teams)),
	}
	for _, t := range teams {
		h.teamInsts[t.ID] = t.Institution
	}
	adjIDs := make(map[int]bool, len(pool))
	for _, a := range pool {
		adjIDs[a.ID] = true
	}

	for _, rnd := range rounds {
		for _, room := range rnd.Rooms {
			for _, res := range room.Teams {
				if _, ok := h.teamInsts[res.TeamID]; !ok {
					return nil, &IntegrityError{
						Entity: "team",
						ID:     res.TeamID,
						Detail: "appears in round history but not in the roster",
					}
				}
			}
			for i, a := range room.Teams {
				for _, b := range room.Teams[i+1:] {
					h.metPairs[pairOf(a.TeamID, b.TeamID)] = true
				}
			}
			for _, judge := range room.Judges {
				if !adjIDs[judge] {
					return nil, &IntegrityError{
						Entity: "adjudicator",
						ID:     judge,
						Detail: "appears in round history but not in the pool",
					}
				}
				for _, res := range room.Teams {
					h.judgedTeams[adjTeam{judge, res.TeamID}] = true
					if inst := h.teamInsts[res.TeamID]; inst != 0 {
						h.judgedInsts[adjInst{judge, inst}] = true
					}
				}
			}
		}
	}
	return h, nil
}

// Met reports whether two teams have shared a room in a completed round.
func (h *History) Met(a, b int) bool {
	return h.metPairs[pairOf(a, b)]
}

// InstitutionClash reports whether two teams belong to the same institution.
// Independent teams never clash.
func (h *History) InstitutionClash(a, b int) bool {
	ia := h.teamInsts[a]
	return ia != 0 && ia == h.teamInsts[b]
}

// HasJudged reports whether the adjudicator has judged the team in a
// completed round.
func (h *History) HasJudged(adjudicator, team int) bool {
	return h.judgedTeams[adjTeam{adjudicator, team}]
}

// HasJudgedInstitution reports whether the adjudicator has judged any team
// from the given institution.
func (h *History) HasJudgedInstitution(adjudicator, institution int) bool {
	if institution == 0 {
		return false
	}
	return h.judgedInsts[adjInst{adjudicator, institution}]
}
