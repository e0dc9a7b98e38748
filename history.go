package main

import "sort"

// pairKey identifies an unordered pair of player ids; a < b always.
type pairKey struct{ a, b int }

func makePairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// teamKey is the canonical identity of a 4-player composition: member ids in
// ascending order.
type teamKey [TeamSize]int

func makeTeamKey(t *Team) teamKey {
	var k teamKey
	for i, m := range t.Members {
		k[i] = m.ID
	}
	sort.Ints(k[:])
	return k
}

// History carries the three cross-round counters for one generation run.
// Entries default to zero and are only ever incremented, once per round,
// after that round's winning partition is finalized.
type History struct {
	pairs   map[pairKey]int
	teams   map[teamKey]int
	leaders map[int]int
}

func NewHistory() *History {
	return &History{
		pairs:   make(map[pairKey]int),
		teams:   make(map[teamKey]int),
		leaders: make(map[int]int),
	}
}

// PairCount returns how many rounds players a and b shared a team.
func (h *History) PairCount(a, b int) int { return h.pairs[makePairKey(a, b)] }

// TeamCount returns how many rounds this exact composition occurred.
func (h *History) TeamCount(t *Team) int { return h.teams[makeTeamKey(t)] }

// LeaderCount returns how many rounds the player led a team.
func (h *History) LeaderCount(id int) int { return h.leaders[id] }

// Update records a finalized round: every within-team pair, every exact
// composition, and every leader (member 0) gains one count.
func (h *History) Update(teams []Team) {
	for ti := range teams {
		t := &teams[ti]
		for i := 0; i < len(t.Members); i++ {
			for j := i + 1; j < len(t.Members); j++ {
				h.pairs[makePairKey(t.Members[i].ID, t.Members[j].ID)]++
			}
		}
		h.teams[makeTeamKey(t)]++
		h.leaders[t.Leader().ID]++
	}
}
