package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"vetremind/internal/model"
)

func TestMatch(t *testing.T) {
	engine := New(Defaults())

	tests := []struct {
		name    string
		item    string
		wantKey string
		wantOK  bool
	}{
		{name: "longest key wins", item: "Bravecto Plus 250mg", wantKey: "bravecto plus", wantOK: true},
		{name: "shorter key when longer absent", item: "Bravecto 1400mg", wantKey: "bravecto", wantOK: true},
		{name: "case insensitive", item: "RABIES VACCINE 1ML", wantKey: "rabies", wantOK: true},
		{name: "whole word only", item: "Groominator", wantOK: false},
		{name: "word followed by punctuation", item: "Full groom, medium dog", wantKey: "groom", wantOK: true},
		{name: "multi word key", item: "Dental Scale and Polish - Grade 2", wantKey: "dental scale and polish", wantOK: true},
		{name: "key with punctuation", item: "Ultrasound - Cardiac (follow up)", wantKey: "ultrasound - cardiac", wantOK: true},
		{name: "dhppil preferred over dhpp", item: "DHPPIL", wantKey: "dhppil", wantOK: true},
		{name: "no rule", item: "Consultation", wantOK: false},
		{name: "empty", item: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.Match(tt.item)
			if diff := cmp.Diff(tt.wantOK, ok); diff != "" {
				t.Fatalf("Match() ok mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantKey, got.Key); diff != "" {
				t.Errorf("Match() key mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchTieBreakIsStable(t *testing.T) {
	rules := map[string]model.Rule{
		"milpro": {Days: 90, VisibleText: "Deworming"},
		"milbem": {Days: 30, VisibleText: "Other"},
	}
	for i := 0; i < 20; i++ {
		got, ok := New(rules).Match("Milbem Milpro combo")
		if !ok {
			t.Fatal("expected a match")
		}
		if diff := cmp.Diff("milbem", got.Key); diff != "" {
			t.Fatalf("tie-break mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestInterval(t *testing.T) {
	engine := New(Defaults())

	tests := []struct {
		name   string
		item   string
		qty    int
		want   int
		wantOK bool
	}{
		{name: "fixed interval ignores quantity", item: "Rabies Vaccine", qty: 3, want: 365, wantOK: true},
		{name: "per dose interval", item: "Bravecto 1400mg", qty: 2, want: 180, wantOK: true},
		{name: "per dose single", item: "Feliway diffuser", qty: 1, want: 60, wantOK: true},
		{name: "non-positive quantity counts as one", item: "Samylin small", qty: 0, want: 30, wantOK: true},
		{name: "unmatched", item: "Groominator", qty: 1, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := engine.Interval(tt.item, tt.qty)
			if diff := cmp.Diff(tt.wantOK, ok); diff != "" {
				t.Fatalf("Interval() ok mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Interval() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIntervalQuantityLaw(t *testing.T) {
	rules := map[string]model.Rule{"wormer": {Days: 45, UseQty: true, VisibleText: "Wormer"}}
	engine := New(rules)
	for qty := 1; qty <= 6; qty++ {
		got, ok := engine.Interval("Wormer tablet", qty)
		if !ok || got != 45*qty {
			t.Errorf("Interval(qty=%d) = %d, %v; want %d", qty, got, ok, 45*qty)
		}
	}
}

func TestLabel(t *testing.T) {
	engine := New(Defaults())

	tests := []struct {
		item string
		want string
	}{
		{item: "Rabies Vaccine 1ml", want: "Rabies Vaccine"},
		{item: "Groom - full", want: "Groom"},
		{item: "  Consultation  ", want: "Consultation"},
		{item: "Lepto Vaccine and Parvo Vaccine", want: "Lepto and Parvo Vaccines"},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, engine.Label(tt.item)); diff != "" {
			t.Errorf("Label(%q) mismatch (-want +got):\n%s", tt.item, diff)
		}
	}
}

func TestApply(t *testing.T) {
	rows := []model.Row{
		{ItemName: "Bravecto 1400mg", Quantity: 2},
		{ItemName: "Consultation", Quantity: 1},
	}
	New(Defaults()).Apply(rows)

	want := []model.Row{
		{ItemName: "Bravecto 1400mg", Quantity: 2, IntervalDays: 180, Label: "Bravecto"},
		{ItemName: "Consultation", Quantity: 1, Label: "Consultation"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		rule    model.Rule
		wantErr bool
	}{
		{name: "valid", key: "groom", rule: model.Rule{Days: 90}},
		{name: "blank key", key: "  ", rule: model.Rule{Days: 90}, wantErr: true},
		{name: "zero days", key: "groom", rule: model.Rule{Days: 0}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRule(tt.key, tt.rule)
			if diff := cmp.Diff(tt.wantErr, err != nil); diff != "" {
				t.Errorf("ValidateRule() error mismatch (-want +got):\n%s\nerr: %v", diff, err)
			}
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	for key, rule := range Defaults() {
		if err := ValidateRule(key, rule); err != nil {
			t.Errorf("default rule %q: %v", key, err)
		}
		if key != NormalizeKey(key) {
			t.Errorf("default key %q is not normalized", key)
		}
	}
}
