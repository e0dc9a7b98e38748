package main

import "encoding/json"

// TeamSize is the fixed number of members per party.
const TeamSize = 4

// validRosterSizes are the roster sizes the generator accepts.
var validRosterSizes = []int{8, 12, 16, 20}

// Rank is an ordinal skill tier, S highest through D lowest.
type Rank int

const (
	RankNone Rank = iota
	RankD
	RankC
	RankB
	RankA
	RankS
)

func parseRank(s string) Rank {
	switch s {
	case "S":
		return RankS
	case "A":
		return RankA
	case "B":
		return RankB
	case "C":
		return RankC
	case "D":
		return RankD
	}
	return RankNone
}

func (r Rank) String() string {
	switch r {
	case RankS:
		return "S"
	case RankA:
		return "A"
	case RankB:
		return "B"
	case RankC:
		return "C"
	case RankD:
		return "D"
	}
	return "?"
}

// Score maps a rank to its numeric strength.
func (r Rank) Score() int {
	switch r {
	case RankS:
		return 5
	case RankA:
		return 4
	case RankB:
		return 3
	case RankC:
		return 2
	case RankD:
		return 1
	}
	return 0
}

// MarshalJSON renders the rank as its letter so API and store payloads stay
// readable.
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rank) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = parseRank(s)
	return nil
}

// Player is an immutable roster entry. Score is derived from Rank at
// construction and never changes afterwards.
type Player struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Rank  Rank   `json:"rank"`
	Score int    `json:"score"`
}

// NewPlayer builds a Player with the derived score filled in.
func NewPlayer(id int, name string, rank Rank) Player {
	return Player{ID: id, Name: name, Rank: rank, Score: rank.Score()}
}

// Team is an ordered party of exactly TeamSize players; position 0 is the
// leader. Sum caches the total member score and is kept in sync by every
// mutation path.
type Team struct {
	Members []Player `json:"members"`
	Sum     int      `json:"sum"`
}

// Leader returns the member at position 0.
func (t *Team) Leader() Player { return t.Members[0] }

// Metrics is the per-round scoring breakdown.
type Metrics struct {
	BalancePenalty   float64 `json:"balancePenalty"`
	DiversityPenalty float64 `json:"diversityPenalty"`
	LeaderPenalty    float64 `json:"leaderPenalty"`
	HardPenalty      float64 `json:"hardPenalty"`
	TotalScore       float64 `json:"totalScore"`
	MaxSum           int     `json:"maxSum"`
	MinSum           int     `json:"minSum"`
	AvgSum           float64 `json:"avgSum"`
	Variance         float64 `json:"variance"`
}

// RoundResult holds one round's winning partition, its viewing schedule,
// scoring breakdown and rendered export text.
type RoundResult struct {
	Round    int      `json:"round"`
	Teams    []Team   `json:"teams"`
	Matchups [][2]int `json:"matchups"` // pairs of team indices
	Metrics  Metrics  `json:"metrics"`
	Text     string   `json:"text"`
}

// Summary aggregates cross-round fairness statistics from the final history.
type Summary struct {
	PairDuplicateTotal int         `json:"pairDuplicateTotal"`
	MaxPairCount       int         `json:"maxPairCount"`
	RepeatedTeamCount  int         `json:"repeatedTeamCount"`
	LeaderCounts       map[int]int `json:"leaderCounts"`
	MaxLeaderCount     int         `json:"maxLeaderCount"`
	MinLeaderCount     int         `json:"minLeaderCount"`
	LeaderImbalance    bool        `json:"leaderImbalance"`
}
