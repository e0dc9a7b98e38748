package main

import (
	"fmt"
	"strconv"
	"strings"
)

// formatDiff renders a team's offset from the round average: exactly zero is
// "±0", positive values carry a "+", negatives print as-is. Fractional
// averages keep a minimal decimal form ("+0.5").
func formatDiff(d float64) string {
	if d == 0 {
		return "±0"
	}
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if d > 0 {
		return "+" + s
	}
	return s
}

// FormatRound produces the clipboard export text for one round. The format is
// consumed verbatim by external tooling; do not change it casually.
func FormatRound(rr *RoundResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[Round %d]\n", rr.Round)
	for ti := range rr.Teams {
		t := &rr.Teams[ti]
		parts := make([]string, 0, len(t.Members))
		for mi, m := range t.Members {
			if mi == 0 {
				parts = append(parts, fmt.Sprintf("(L)%s(%s)", m.Name, m.Rank))
			} else {
				parts = append(parts, fmt.Sprintf("%s(%s)", m.Name, m.Rank))
			}
		}
		diff := float64(t.Sum) - rr.Metrics.AvgSum
		fmt.Fprintf(&b, "Party %d (sum=%d, diff=%s): %s\n",
			ti+1, t.Sum, formatDiff(diff), strings.Join(parts, " / "))
	}

	b.WriteString("Matchups:\n")
	for _, mu := range rr.Matchups {
		fmt.Fprintf(&b, "- Party %d vs Party %d\n", mu[0]+1, mu[1]+1)
	}
	return b.String()
}
