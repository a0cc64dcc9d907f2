package tuning

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		expect  string
		wantErr bool
	}{
		{name: "empty falls back to default", input: "", expect: DefaultProfile},
		{name: "legacy", input: "v1-legacy", expect: ProfileLegacy},
		{name: "case and spaces", input: "  V2-Quality ", expect: ProfileQuality},
		{name: "tier adjusted", input: ProfileTierAdjusted, expect: ProfileTierAdjusted},
		{name: "unknown", input: "v9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := Lookup(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				if !strings.Contains(err.Error(), ProfileLegacy) {
					t.Fatalf("expected available profiles in error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, p.Name)
			}
		})
	}
}

func TestBuiltinProfilesValid(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if err := p.Validate(); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
}

func TestProfilesLayerOnLegacy(t *testing.T) {
	legacy, quality, adjusted := Legacy(), Quality(), TierAdjusted()

	if legacy.Tier.Enabled || legacy.FundingVelocity.Enabled {
		t.Fatal("legacy profile must not apply tier or funding velocity adjustments")
	}
	if !quality.Tier.Enabled || quality.FundingVelocity.Enabled {
		t.Fatal("quality profile applies tier adjustments only")
	}
	if !adjusted.Tier.Enabled || !adjusted.FundingVelocity.Enabled {
		t.Fatal("tier adjusted profile applies both adjustments")
	}
	if quality.Sector != legacy.Sector || adjusted.Stage != legacy.Stage {
		t.Fatal("derived profiles must keep legacy fit points")
	}
}

func TestValidateRejectsBrokenProfiles(t *testing.T) {
	p := Legacy()
	p.Rescale = []Segment{{Max: 60}, {Max: 30}}
	p.Bounds = Bounds{Min: 95, Max: 10}

	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"max must increase", "bounds"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLadder(t *testing.T) {
	steps := []Step{{At: 20, Points: 8}, {At: 10, Points: 5}, {At: 5, Points: 2}}

	cases := map[float64]int{25: 8, 20: 8, 19.9: 5, 10: 5, 5: 2, 4.99: 0, -1: 0}
	for v, want := range cases {
		if got := Ladder(v, steps); got != want {
			t.Fatalf("Ladder(%v) = %d, want %d", v, got, want)
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	cases := map[float64]int{2.5: 3, -2.5: -2, 1.49: 1, -0.5: 0, 15: 15, 0.75: 1}
	for in, want := range cases {
		if got := RoundHalfUp(in); got != want {
			t.Fatalf("RoundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}
