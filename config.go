package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds the generation tuning knobs. Adjust the weights to trade one
// fairness goal against another.
type Options struct {
	// CandidateAttempts is the number of independent build+optimize pipelines
	// run per round; only the best-scoring attempt is kept.
	CandidateAttempts int `json:"candidateAttempts" yaml:"candidateAttempts"`
	// SwapIterations is the local-search budget per attempt.
	SwapIterations int `json:"swapIterations" yaml:"swapIterations"`
	// BalanceWeight scales the team-strength spread penalty.
	BalanceWeight float64 `json:"balanceWeight" yaml:"balanceWeight"`
	// DiversityWeight scales the repeated-pairing penalty.
	DiversityWeight float64 `json:"diversityWeight" yaml:"diversityWeight"`
	// LeaderWeight scales the repeated-leadership penalty.
	LeaderWeight float64 `json:"leaderWeight" yaml:"leaderWeight"`
	// HardPenalty is added unweighted for every exact team-composition repeat.
	HardPenalty float64 `json:"hardPenaltyConstant" yaml:"hardPenaltyConstant"`
}

// DefaultOptions returns the caller-facing defaults.
func DefaultOptions() Options {
	return Options{
		CandidateAttempts: 20,
		SwapIterations:    200,
		BalanceWeight:     1,
		DiversityWeight:   1,
		LeaderWeight:      1,
		HardPenalty:       10000,
	}
}

// LoadOptionsFile overlays a YAML options file on top of the defaults.
// Fields absent from the file keep their default values.
func LoadOptionsFile(path string) (Options, error) {
	opts := DefaultOptions()
	raw, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return opts, fmt.Errorf("parse %s: %w", path, err)
	}
	return opts, nil
}
