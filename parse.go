package main

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// ── Roster input ────────────────────────────────────────────────────
//
// The roster arrives from an external collaborator as JSON, either a bare
// array or wrapped in {"players": [...]}:
//
//	[{"id": 1, "name": "aoi", "rank": "S"}, ...]
//
// Problems are accumulated as human-readable messages instead of errors;
// generation refuses to run while any is present.

// ParseRoster decodes a roster JSON document. Malformed entries produce
// messages rather than panics or partial players.
func ParseRoster(doc string) ([]Player, []string) {
	root := gjson.Parse(doc)
	list := root
	if !root.IsArray() {
		list = root.Get("players")
	}
	if !list.IsArray() {
		return nil, []string{"roster JSON must be an array of players or contain a \"players\" array"}
	}

	var players []Player
	var problems []string
	nextID := 1

	list.ForEach(func(_, v gjson.Result) bool {
		name := v.Get("name").String()
		rank := parseRank(v.Get("rank").String())

		id := nextID
		if idv := v.Get("id"); idv.Exists() {
			id = int(idv.Int())
		}
		if id >= nextID {
			nextID = id + 1
		}

		players = append(players, NewPlayer(id, name, rank))
		return true
	})

	return players, problems
}

// ValidateRoster checks the structural input contract: non-empty names, valid
// ranks, unique ids, and a supported roster size.
func ValidateRoster(players []Player) []string {
	var msgs []string

	if len(players) == 0 {
		return []string{"roster is empty"}
	}

	sizeOK := false
	for _, n := range validRosterSizes {
		if len(players) == n {
			sizeOK = true
			break
		}
	}
	if !sizeOK {
		msgs = append(msgs, fmt.Sprintf("roster size %d is unsupported, want one of %v", len(players), validRosterSizes))
	}

	seen := make(map[int]string, len(players))
	for i, p := range players {
		if p.Name == "" {
			msgs = append(msgs, fmt.Sprintf("player %d: missing name", i+1))
		}
		if p.Rank == RankNone {
			msgs = append(msgs, fmt.Sprintf("player %d (%q): missing or invalid rank", i+1, p.Name))
		}
		if prev, dup := seen[p.ID]; dup {
			msgs = append(msgs, fmt.Sprintf("player %d (%q): id %d already used by %q", i+1, p.Name, p.ID, prev))
		} else {
			seen[p.ID] = p.Name
		}
	}
	return msgs
}

// LoadRoster reads and parses a roster file.
func LoadRoster(path string) ([]Player, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	players, problems := ParseRoster(string(raw))
	return players, problems, nil
}
