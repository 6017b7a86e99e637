package bot

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"vetremind/internal/model"
	"vetremind/internal/pipeline"
)

func TestParseRuleArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    RuleArgs
		wantErr bool
	}{
		{
			name: "days key and label",
			args: "365 rabies = Rabies Vaccine",
			want: RuleArgs{Key: "rabies", Rule: model.Rule{Days: 365, VisibleText: "Rabies Vaccine"}},
		},
		{
			name: "quantity rule",
			args: "30 qty frontline = Flea Treatment",
			want: RuleArgs{Key: "frontline", Rule: model.Rule{Days: 30, UseQty: true, VisibleText: "Flea Treatment"}},
		},
		{
			name: "multi-word key lower-cased",
			args: "30 Kennel Cough",
			want: RuleArgs{Key: "kennel cough", Rule: model.Rule{Days: 30}},
		},
		{
			name: "qty alone is the key",
			args: "10 qty",
			want: RuleArgs{Key: "qty", Rule: model.Rule{Days: 10}},
		},
		{name: "empty", args: "", wantErr: true},
		{name: "days only", args: "30", wantErr: true},
		{name: "days not a number", args: "often rabies", wantErr: true},
		{name: "zero days", args: "0 rabies", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRuleArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRuleArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIDArg(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    int64
		wantErr bool
	}{
		{name: "valid", args: "42", want: 42},
		{name: "with whitespace", args: "  7  ", want: 7},
		{name: "empty", args: "", wantErr: true},
		{name: "not a number", args: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDArg(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSecretArgs(t *testing.T) {
	tests := []struct {
		args       string
		wantSecret string
		wantRest   string
	}{
		{args: "s3cret 5", wantSecret: "s3cret", wantRest: "5"},
		{args: "  s3cret  ", wantSecret: "s3cret", wantRest: ""},
		{args: "", wantSecret: "", wantRest: ""},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			secret, rest := ParseSecretArgs(tt.args)
			if diff := cmp.Diff([2]string{tt.wantSecret, tt.wantRest}, [2]string{secret, rest}); diff != "" {
				t.Errorf("ParseSecretArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseStartDate(t *testing.T) {
	now := time.Date(2025, time.March, 4, 15, 30, 0, 0, time.UTC)
	want := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		caption string
		want    time.Time
		wantErr bool
	}{
		{name: "empty is today", caption: "", want: time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)},
		{name: "iso", caption: "2025-01-10", want: want},
		{name: "day first", caption: "10/01/2025", want: want},
		{name: "display format", caption: " 10 Jan 2025 ", want: want},
		{name: "garbage", caption: "next week", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStartDate(tt.caption, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseStartDate(%q) = %v, want %v", tt.caption, got, tt.want)
			}
		})
	}
}

func TestFormatRules(t *testing.T) {
	tests := []struct {
		name  string
		rules map[string]model.Rule
		want  string
	}{
		{
			name:  "empty",
			rules: map[string]model.Rule{},
			want:  "No rules. Use /setrule to add one or /resetrules to restore the defaults.",
		},
		{
			name: "sorted by key",
			rules: map[string]model.Rule{
				"rabies":    {Days: 365, VisibleText: "Rabies Vaccine"},
				"frontline": {Days: 30, UseQty: true},
			},
			want: "Rules (2):\n\nfrontline: 30 days per unit -> (item name)\nrabies: 365 days -> Rabies Vaccine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FormatRules(tt.rules)); diff != "" {
				t.Errorf("FormatRules() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormatExclusions(t *testing.T) {
	if diff := cmp.Diff("Excluded terms:\n\n- dental\n- groom", FormatExclusions([]string{"dental", "groom"})); diff != "" {
		t.Errorf("FormatExclusions() mismatch (-want +got):\n%s", diff)
	}
	requireContains(t, FormatExclusions(nil), "No exclusions")
}

func TestFormatReport(t *testing.T) {
	rep := &pipeline.Report{
		Start: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC),
		Files: []pipeline.FileSummary{
			{
				Name: "jan.csv", Vendor: "VETport", Rows: 3, Dropped: 1, Dated: 2, Matched: 2,
				First: time.Date(2024, time.January, 12, 0, 0, 0, 0, time.UTC),
				Last:  time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC),
			},
			{Name: "notes.csv", Err: errors.New("notes.csv: unrecognized export format")},
		},
		Reminders: []model.Reminder{{}},
	}

	want := "Window: 10 Jan 2025 to 16 Jan 2025\n" +
		"\njan.csv (VETport): 3 rows, 2 dated, 2 matched, 1 without client\nCharges from 12 Jan 2024 to 14 Jan 2024" +
		"\nnotes.csv: unrecognized export format" +
		"\n\n1 reminder due."
	if diff := cmp.Diff(want, FormatReport(rep)); diff != "" {
		t.Errorf("FormatReport() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatReminder(t *testing.T) {
	r := model.Reminder{
		DueDate:    "11 Jan 2025",
		ChargeDate: "12 Jan 2024",
		ClientName: "John Smith",
		ItemLabel:  "Rabies Vaccine",
		Quantity:   1,
		Days:       "365",
		Message:    "Hi John",
	}

	want := "Due 11 Jan 2025: John Smith\n(no animal): Rabies Vaccine (qty 1, every 365 days, last charged 12 Jan 2024)\n\nHi John"
	if diff := cmp.Diff(want, FormatReminder(r)); diff != "" {
		t.Errorf("FormatReminder() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatFeedbackList(t *testing.T) {
	at := time.Date(2025, time.January, 2, 9, 5, 0, 0, time.UTC)

	tests := []struct {
		name    string
		entries []model.Feedback
		want    string
	}{
		{name: "empty", want: "No feedback yet."},
		{
			name: "name and email",
			entries: []model.Feedback{
				{ID: 2, CreatedAt: at, Name: "ann", Email: "ann@example.com", Message: "works"},
				{ID: 1, CreatedAt: at, Message: "hello"},
			},
			want: "#2 2025-01-02 09:05 UTC from ann <ann@example.com>\nworks\n\n#1 2025-01-02 09:05 UTC from anonymous\nhello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, FormatFeedbackList(tt.entries)); diff != "" {
				t.Errorf("FormatFeedbackList() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
