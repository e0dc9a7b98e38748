//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type lambdaRequest struct {
	Roster  json.RawMessage `json:"roster"`
	Rounds  int             `json:"rounds"`
	Seed    *uint64         `json:"seed"`
	Options *Options        `json:"options"`
}

func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req lambdaRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if len(req.Roster) == 0 {
		return errResp(400, "missing roster field")
	}

	players, problems := ParseRoster(string(req.Roster))
	if len(problems) == 0 {
		problems = ValidateRoster(players)
	}
	if len(problems) > 0 {
		respJSON, _ := json.Marshal(map[string]any{"errors": problems})
		return events.LambdaFunctionURLResponse{StatusCode: 422, Headers: jsonHeader, Body: string(respJSON)}, nil
	}

	opts := DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	rounds := req.Rounds
	if rounds == 0 {
		rounds = 1
	}
	seed := secureBaseSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	results, summary, _ := GenerateTeams(players, rounds, opts, seed)
	respJSON, _ := json.Marshal(generateResponse{Seed: seed, Rounds: results, Summary: summary})
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
