package main

import "testing"

func TestFormatDiff(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "±0"},
		{2, "+2"},
		{-3, "-3"},
		{0.5, "+0.5"},
		{-0.5, "-0.5"},
	}
	for _, c := range cases {
		if got := formatDiff(c.in); got != c.want {
			t.Errorf("formatDiff(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatRoundExact(t *testing.T) {
	rr := RoundResult{
		Round: 2,
		Teams: []Team{
			{Members: []Player{
				NewPlayer(3, "mika", RankS), NewPlayer(2, "rin", RankB),
				NewPlayer(5, "yui", RankB), NewPlayer(4, "nao", RankC),
			}, Sum: 13},
			{Members: []Player{
				NewPlayer(1, "aoi", RankA), NewPlayer(6, "ken", RankA),
				NewPlayer(7, "tomo", RankB), NewPlayer(8, "sora", RankC),
			}, Sum: 13},
		},
		Matchups: [][2]int{{0, 1}},
		Metrics:  Metrics{AvgSum: 13},
	}

	want := "[Round 2]\n" +
		"Party 1 (sum=13, diff=±0): (L)mika(S) / rin(B) / yui(B) / nao(C)\n" +
		"Party 2 (sum=13, diff=±0): (L)aoi(A) / ken(A) / tomo(B) / sora(C)\n" +
		"Matchups:\n" +
		"- Party 1 vs Party 2\n"

	if got := FormatRound(&rr); got != want {
		t.Errorf("export text mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatRoundFractionalDiff(t *testing.T) {
	rr := RoundResult{
		Round: 1,
		Teams: []Team{
			{Members: []Player{
				NewPlayer(1, "a", RankS), NewPlayer(2, "b", RankA),
				NewPlayer(3, "c", RankB), NewPlayer(4, "d", RankC),
			}, Sum: 14},
			{Members: []Player{
				NewPlayer(5, "e", RankA), NewPlayer(6, "f", RankA),
				NewPlayer(7, "g", RankB), NewPlayer(8, "h", RankC),
			}, Sum: 13},
		},
		Matchups: [][2]int{{1, 0}},
		Metrics:  Metrics{AvgSum: 13.5},
	}

	want := "[Round 1]\n" +
		"Party 1 (sum=14, diff=+0.5): (L)a(S) / b(A) / c(B) / d(C)\n" +
		"Party 2 (sum=13, diff=-0.5): (L)e(A) / f(A) / g(B) / h(C)\n" +
		"Matchups:\n" +
		"- Party 2 vs Party 1\n"

	if got := FormatRound(&rr); got != want {
		t.Errorf("export text mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
