package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spigell/fitmatch/internal/filtering"
	"github.com/spigell/fitmatch/internal/profile"
	"github.com/spigell/fitmatch/internal/scoring"
	"github.com/spigell/fitmatch/internal/store"
)

func awkwardMatches() *filtering.Matches {
	pair := func(startupID, investorID string, score int) *filtering.Match {
		return &filtering.Match{
			Startup:  profile.StartupProfile{ID: startupID},
			Investor: profile.InvestorProfile{ID: investorID},
			Result:   scoring.MatchResult{Score: score},
		}
	}
	return &filtering.Matches{Items: []*filtering.Match{
		pair("acme labs", "fund/one", 80),
		pair("acme/labs", "fund one", 70),
		pair("plain", "back", 60),
	}}
}

func TestResolveExcludeChoiceByIndex(t *testing.T) {
	matches := awkwardMatches()

	items := excludeItems(matches, true)
	if len(items) != matches.Len()+2 || items[3] != PromptAppendAll || items[4] != PromptBack {
		t.Fatalf("unexpected prompt items %q", items)
	}

	for i, want := range matches.Items {
		choice, got := resolveExcludeChoice(i, matches, true)
		if choice != choiceMatch || got != want {
			t.Fatalf("index %d: expected match %s/%s, got %v %+v", i, want.Startup.ID, want.Investor.ID, choice, got)
		}
	}

	if choice, _ := resolveExcludeChoice(3, matches, true); choice != choiceAppendAll {
		t.Fatalf("expected append all, got %v", choice)
	}
	if choice, _ := resolveExcludeChoice(3, matches, false); choice != choiceBack {
		t.Fatalf("expected back without append all, got %v", choice)
	}
}

func TestRemoveMatchKeepsLookalikes(t *testing.T) {
	matches := awkwardMatches()
	target := matches.Items[1]

	picked := removeMatch(matches, target)
	if picked.Len() != 1 || picked.Items[0] != target {
		t.Fatalf("expected only the chosen match, got %+v", picked.Items)
	}
	if matches.Len() != 2 || matches.Items[0].Startup.ID != "acme labs" || matches.Items[1].Investor.ID != "back" {
		t.Fatalf("unexpected remaining matches %+v", matches.Items)
	}

	excluded := picked.ToExcluded(filtering.ExcludeActorUser, "")
	if excluded.Items[0].StartupID != "acme/labs" || excluded.Items[0].InvestorID != "fund one" {
		t.Fatalf("ids must survive untouched, got %+v", excluded.Items[0])
	}
}

func TestRedactedConfigHidesSecrets(t *testing.T) {
	config := &Config{
		Profile: "v1-legacy",
		Store:   store.Config{Driver: store.DriverMySQL, DSN: "fitmatch:hunter2@tcp(db:3306)/fitmatch"},
		AI:      &AIConfig{Gemini: &GeminiConfig{APIKey: "AIza-secret", Model: "gemini-2.5-flash"}},
	}

	data, err := json.Marshal(redactedConfig(config))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)

	for _, secret := range []string{"AIza-secret", "hunter2"} {
		if strings.Contains(out, secret) {
			t.Fatalf("secret %q leaked: %s", secret, out)
		}
	}
	if !strings.Contains(out, "gemini-2.5-flash") || !strings.Contains(out, "db:3306") {
		t.Fatalf("non-secret settings must stay visible: %s", out)
	}

	if config.AI.Gemini.APIKey != "AIza-secret" || !strings.Contains(config.Store.DSN, "hunter2") {
		t.Fatal("the original config must not be modified")
	}

	if redactedConfig(&Config{Profile: "x"}).Profile != "x" || redactedConfig(nil) != nil {
		t.Fatal("configs without secrets must pass through")
	}
}
