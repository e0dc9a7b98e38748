//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `Usage: party-balancer [flags] <roster.json>

Positional arguments:
  roster.json     Roster file: [{"id":1,"name":"aoi","rank":"S"}, ...]

Flags:
`

func main() {
	rounds := flag.Int("rounds", 3, "Number of rounds to generate")
	attempts := flag.Int("attempts", 0, "Candidate attempts per round (0 = use config/default)")
	swaps := flag.Int("swaps", -1, "Local-search swap iterations per attempt (-1 = use config/default)")
	seedFlag := flag.Uint64("seed", 0, "Random seed (0 = random)")
	configPath := flag.String("config", "", "YAML options file")
	jsonOut := flag.Bool("json", false, "Output results as JSON")
	dbPath := flag.String("db", "", "sqlite run archive path (empty = no archive)")
	serve := flag.Bool("serve", false, "Run the HTTP API instead of a one-shot generation")
	port := flag.String("port", getenv("PORT", "8080"), "HTTP port for -serve")
	verbose := flag.Bool("verbose", false, "Log round progress")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	_ = godotenv.Load()
	initLogger(*verbose)

	opts := DefaultOptions()
	if *configPath != "" {
		var err error
		opts, err = LoadOptionsFile(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load options")
		}
	}
	if *attempts > 0 {
		opts.CandidateAttempts = *attempts
	}
	if *swaps >= 0 {
		opts.SwapIterations = *swaps
	}

	var store *RunStore
	if *dbPath != "" {
		var err error
		store, err = OpenRunStore(context.Background(), *dbPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *dbPath).Msg("open run archive")
		}
		defer store.Close()
	}

	if *serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := Serve(ctx, ":"+*port, store); err != nil {
			log.Fatal().Err(err).Msg("server")
		}
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	players, problems, err := LoadRoster(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("load roster")
	}

	seed := *seedFlag
	if seed == 0 {
		seed = secureBaseSeed()
	}

	results, summary, msgs := GenerateTeams(players, *rounds, opts, seed)
	problems = append(problems, msgs...)
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintf(os.Stderr, "roster: %s\n", p)
		}
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(generateResponse{Seed: seed, Rounds: results, Summary: summary})
	} else {
		for _, rr := range results {
			fmt.Println(rr.Text)
		}
		printSummary(players, summary)
	}

	if store != nil {
		run := RunRecord{
			ID:        NewRunID(),
			CreatedAt: time.Now().UTC(),
			Seed:      seed,
			Roster:    players,
			Options:   opts,
			Rounds:    results,
			Summary:   summary,
		}
		if err := store.SaveRun(context.Background(), run); err != nil {
			log.Error().Err(err).Msg("archive run")
		} else {
			log.Info().Str("runId", run.ID).Msg("run archived")
		}
	}
}

func initLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func printSummary(players []Player, s Summary) {
	fmt.Println("[Summary]")
	fmt.Printf("Pair repeats: %d (max pair count %d)\n", s.PairDuplicateTotal, s.MaxPairCount)
	fmt.Printf("Repeated team compositions: %d\n", s.RepeatedTeamCount)
	fmt.Printf("Leader counts (max %d, min %d):\n", s.MaxLeaderCount, s.MinLeaderCount)

	byID := make([]Player, len(players))
	copy(byID, players)
	sort.Slice(byID, func(i, j int) bool { return byID[i].ID < byID[j].ID })
	for _, p := range byID {
		fmt.Printf("  %-20s %d\n", p.Name, s.LeaderCounts[p.ID])
	}
	if s.LeaderImbalance {
		fmt.Println("WARNING: leader counts differ by 2 or more")
	}
}
