package main

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ── Randomness ──────────────────────────────────────────────────────
//
// Every stage takes an explicit *rand.Rand so runs are reproducible. Parallel
// attempts get independent generators seeded from a splitmix64 stream drawn
// up front, so goroutine scheduling cannot change the outcome.

type seedStream struct{ state uint64 }

func newSeedStream(base uint64) seedStream { return seedStream{state: base} }

func (s *seedStream) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return z
}

func (s *seedStream) rand() *mrand.Rand {
	return mrand.New(mrand.NewSource(int64(s.next())))
}

func secureBaseSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err == nil {
		return binary.LittleEndian.Uint64(b[:]) ^ uint64(time.Now().UnixNano())
	}
	return uint64(time.Now().UnixNano()) ^ 0xA5A5A5A5A5A5A5A5
}

// ── Candidate builder ───────────────────────────────────────────────

// buildCandidate greedily partitions the roster into teams of TeamSize.
// Players are placed in descending score order (roster order among equals),
// each onto the open team with the lowest
// sum + score + Σ(pairCount+1)² cost; ties go to the lowest team index.
// Strong players spread across teams, frequent teammates repel each other.
func buildCandidate(players []Player, h *History) []Team {
	ordered := make([]Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	teams := make([]Team, len(players)/TeamSize)
	for ti := range teams {
		teams[ti].Members = make([]Player, 0, TeamSize)
	}

	for _, p := range ordered {
		best := -1
		bestCost := 0
		for ti := range teams {
			t := &teams[ti]
			if len(t.Members) >= TeamSize {
				continue
			}
			cost := t.Sum + p.Score
			for _, m := range t.Members {
				c := h.PairCount(m.ID, p.ID) + 1
				cost += c * c
			}
			if best < 0 || cost < bestCost {
				best = ti
				bestCost = cost
			}
		}
		teams[best].Members = append(teams[best].Members, p)
		teams[best].Sum += p.Score
	}
	return teams
}

// ── Local search ────────────────────────────────────────────────────

// localSearch runs strict-improvement hill climbing over random cross-team
// member swaps. Equal or worse trial states are always rejected, so the total
// score never increases across the iteration sequence. The result is a local
// optimum for the fixed budget, not a global one.
func localSearch(teams []Team, h *History, opts Options, rng *mrand.Rand) Metrics {
	current := Evaluate(teams, h, opts)
	if len(teams) < 2 {
		return current
	}

	for it := 0; it < opts.SwapIterations; it++ {
		ti := rng.Intn(len(teams))
		tj := rng.Intn(len(teams) - 1)
		if tj >= ti {
			tj++
		}
		pi := rng.Intn(TeamSize)
		pj := rng.Intn(TeamSize)

		a, b := &teams[ti], &teams[tj]
		a.Members[pi], b.Members[pj] = b.Members[pj], a.Members[pi]
		delta := a.Members[pi].Score - b.Members[pj].Score
		a.Sum += delta
		b.Sum -= delta

		trial := Evaluate(teams, h, opts)
		if trial.TotalScore < current.TotalScore {
			current = trial
			continue
		}
		// revert
		a.Members[pi], b.Members[pj] = b.Members[pj], a.Members[pi]
		a.Sum -= delta
		b.Sum += delta
	}
	return current
}

// ── Leader selector ─────────────────────────────────────────────────

// chooseLeaders reorders each team ascending by current leader count, with
// randomized order among equal counts, so the member left at position 0 is a
// least-led candidate chosen without deterministic bias.
func chooseLeaders(teams []Team, h *History, rng *mrand.Rand) {
	for ti := range teams {
		members := teams[ti].Members
		rng.Shuffle(len(members), func(i, j int) {
			members[i], members[j] = members[j], members[i]
		})
		sort.SliceStable(members, func(i, j int) bool {
			return h.LeaderCount(members[i].ID) < h.LeaderCount(members[j].ID)
		})
	}
}

// ── Matchup pairer ──────────────────────────────────────────────────

// pairMatchups shuffles team indices uniformly and pairs consecutive entries.
// Purely a viewing schedule; it never feeds back into scoring.
func pairMatchups(teamCount int, rng *mrand.Rand) [][2]int {
	perm := rng.Perm(teamCount)
	pairs := make([][2]int, 0, teamCount/2)
	for i := 0; i+1 < teamCount; i += 2 {
		pairs = append(pairs, [2]int{perm[i], perm[i+1]})
	}
	return pairs
}

// ── Round orchestrator ──────────────────────────────────────────────

// Generator runs multi-round team generation over one shared History.
type Generator struct {
	players []Player
	opts    Options
	history *History
}

func NewGenerator(players []Player, opts Options) *Generator {
	return &Generator{players: players, opts: opts, history: NewHistory()}
}

type attemptResult struct {
	idx     int
	teams   []Team
	metrics Metrics
}

// runAttempt executes one full build → optimize → leader pipeline against the
// read-only history snapshot.
func (g *Generator) runAttempt(rng *mrand.Rand) ([]Team, Metrics) {
	teams := buildCandidate(g.players, g.history)
	localSearch(teams, g.history, g.opts, rng)
	chooseLeaders(teams, g.history, rng)
	return teams, Evaluate(teams, g.history, g.opts)
}

// runRound fans candidate attempts out over a worker pool and reduces to the
// minimum-score attempt, ties broken by attempt index. History is read-only
// for the whole loop and only updated by the caller once the winner is fixed.
func (g *Generator) runRound(seeds *seedStream) ([]Team, Metrics) {
	attempts := g.opts.CandidateAttempts
	attemptSeeds := make([]uint64, attempts)
	for i := range attemptSeeds {
		attemptSeeds[i] = seeds.next()
	}

	var (
		bestTeams   []Team
		bestMetrics Metrics
		bestIdx     = -1
	)

	if attempts > 0 {
		workers := runtime.GOMAXPROCS(0)
		if workers > attempts {
			workers = attempts
		}
		idxCh := make(chan int, attempts)
		resultCh := make(chan attemptResult, attempts)
		for i := 0; i < attempts; i++ {
			idxCh <- i
		}
		close(idxCh)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for idx := range idxCh {
					rng := mrand.New(mrand.NewSource(int64(attemptSeeds[idx])))
					teams, m := g.runAttempt(rng)
					resultCh <- attemptResult{idx: idx, teams: teams, metrics: m}
				}
			}()
		}
		go func() {
			wg.Wait()
			close(resultCh)
		}()

		bestScore := math.Inf(1)
		for r := range resultCh {
			if r.metrics.TotalScore < bestScore ||
				(r.metrics.TotalScore == bestScore && r.idx < bestIdx) {
				bestScore = r.metrics.TotalScore
				bestTeams = r.teams
				bestMetrics = r.metrics
				bestIdx = r.idx
			}
		}
	}

	if bestIdx < 0 {
		// Defensive fallback: a round result must always exist, even with a
		// zero attempt budget.
		rng := mrand.New(mrand.NewSource(int64(seeds.next())))
		bestTeams = buildCandidate(g.players, g.history)
		chooseLeaders(bestTeams, g.history, rng)
		bestMetrics = Evaluate(bestTeams, g.history, g.opts)
	}
	return bestTeams, bestMetrics
}

// Generate runs the given number of strictly sequential rounds and returns
// every round result plus the cross-round summary. The same seed always
// yields the same output.
func (g *Generator) Generate(rounds int, seed uint64) ([]RoundResult, Summary) {
	seeds := newSeedStream(seed)
	results := make([]RoundResult, 0, rounds)

	for round := 1; round <= rounds; round++ {
		teams, metrics := g.runRound(&seeds)
		matchups := pairMatchups(len(teams), seeds.rand())

		rr := RoundResult{
			Round:    round,
			Teams:    teams,
			Matchups: matchups,
			Metrics:  metrics,
		}
		rr.Text = FormatRound(&rr)
		results = append(results, rr)

		// Rounds stay sequential: round k+1 scores against the history
		// exactly as left by round k.
		g.history.Update(teams)

		log.Debug().
			Int("round", round).
			Float64("totalScore", metrics.TotalScore).
			Int("maxSum", metrics.MaxSum).
			Int("minSum", metrics.MinSum).
			Msg("round finalized")
	}

	return results, Summarize(g.history, g.players)
}

// GenerateTeams is the single entry point shared by the CLI, the HTTP API and
// the lambda handler. Validation failures come back as human-readable
// messages and suppress generation entirely.
func GenerateTeams(players []Player, rounds int, opts Options, seed uint64) ([]RoundResult, Summary, []string) {
	if msgs := ValidateRoster(players); len(msgs) > 0 {
		return nil, Summary{}, msgs
	}
	if rounds < 1 {
		rounds = 1
	}
	g := NewGenerator(players, opts)
	results, summary := g.Generate(rounds, seed)
	return results, summary, nil
}
