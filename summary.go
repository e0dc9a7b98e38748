package main

// Summarize computes cross-round fairness statistics from the final history.
// Every roster player appears in LeaderCounts, at zero if they never led, so
// the min reflects players who were skipped entirely.
func Summarize(h *History, players []Player) Summary {
	s := Summary{LeaderCounts: make(map[int]int, len(players))}

	for _, c := range h.pairs {
		if c > 1 {
			s.PairDuplicateTotal += c - 1
		}
		if c > s.MaxPairCount {
			s.MaxPairCount = c
		}
	}

	for _, c := range h.teams {
		if c > 1 {
			s.RepeatedTeamCount++
		}
	}

	first := true
	for _, p := range players {
		c := h.LeaderCount(p.ID)
		s.LeaderCounts[p.ID] = c
		if first {
			s.MaxLeaderCount = c
			s.MinLeaderCount = c
			first = false
			continue
		}
		if c > s.MaxLeaderCount {
			s.MaxLeaderCount = c
		}
		if c < s.MinLeaderCount {
			s.MinLeaderCount = c
		}
	}

	s.LeaderImbalance = s.MaxLeaderCount-s.MinLeaderCount >= 2
	return s
}
