package main

// ── Scoring model ───────────────────────────────────────────────────
//
// All terms are pure functions of the partition and the current (pre-round)
// history snapshot; nothing here mutates History.

// Evaluate computes the full scoring breakdown for a partition. The leader
// term is charged against each team's current position 0.
func Evaluate(teams []Team, h *History, opts Options) Metrics {
	var m Metrics

	// Team-sum spread. Variance is the raw sum of squared deviations from
	// the mean, deliberately not divided by the team count: larger rosters
	// pay more for the same relative spread.
	m.MaxSum = teams[0].Sum
	m.MinSum = teams[0].Sum
	total := 0
	for ti := range teams {
		s := teams[ti].Sum
		total += s
		if s > m.MaxSum {
			m.MaxSum = s
		}
		if s < m.MinSum {
			m.MinSum = s
		}
	}
	m.AvgSum = float64(total) / float64(len(teams))
	for ti := range teams {
		d := float64(teams[ti].Sum) - m.AvgSum
		m.Variance += d * d
	}
	m.BalancePenalty = float64(m.MaxSum-m.MinSum)*10 + m.Variance

	// Quadratic repeat-pairing cost: the second repeat of a pair costs
	// disproportionately more than the first.
	for ti := range teams {
		t := &teams[ti]
		for i := 0; i < len(t.Members); i++ {
			for j := i + 1; j < len(t.Members); j++ {
				c := float64(h.PairCount(t.Members[i].ID, t.Members[j].ID) + 1)
				m.DiversityPenalty += c * c
			}
		}
	}

	for ti := range teams {
		c := float64(h.LeaderCount(teams[ti].Leader().ID) + 1)
		m.LeaderPenalty += c * c
	}

	for ti := range teams {
		if h.TeamCount(&teams[ti]) > 0 {
			m.HardPenalty += opts.HardPenalty
		}
	}

	m.TotalScore = opts.BalanceWeight*m.BalancePenalty +
		opts.DiversityWeight*m.DiversityPenalty +
		opts.LeaderWeight*m.LeaderPenalty +
		m.HardPenalty
	return m
}
