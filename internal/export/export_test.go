package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"vetremind/internal/model"
)

func sampleReminders() []model.Reminder {
	return []model.Reminder{
		{
			DueDate:      "01 Mar 2025",
			ChargeDate:   "01 Mar 2024",
			ClientName:   "Ali",
			Animals:      []string{"Luna", "Milo"},
			AnimalName:   "Luna and Milo",
			ItemLabel:    "DHPPIL Vaccine and Rabies Vaccine",
			Quantity:     2,
			IntervalDays: []int{365},
			Days:         "365",
			Message:      "Hi Ali, this is a reminder, with a comma.",
		},
		{
			DueDate:      "02 Mar 2025",
			ChargeDate:   "02 Dec 2024",
			ClientName:   "Bo",
			Animals:      []string{"Rex"},
			AnimalName:   "Rex",
			ItemLabel:    "Groom",
			Quantity:     1,
			IntervalDays: []int{90},
			Days:         "90",
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReminders()); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}

	want := [][]string{
		Columns,
		{"01 Mar 2025", "01 Mar 2024", "Ali", "Luna and Milo", "DHPPIL Vaccine and Rabies Vaccine", "2", "365", "Hi Ali, this is a reminder, with a comma."},
		{"02 Mar 2025", "02 Dec 2024", "Bo", "Rex", "Groom", "1", "90", ""},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("WriteCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([][]string{Columns}, records); diff != "" {
		t.Errorf("WriteCSV() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	meta := Meta{
		RunID: "run-1",
		Start: time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Now:   time.Date(2025, time.February, 27, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, meta, sampleReminders()); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var got jsonExport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if diff := cmp.Diff("2025-02-27T08:00:00Z", got.ExportedAt); diff != "" {
		t.Errorf("exported_at mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("27 Feb 2025", got.WindowStart); diff != "" {
		t.Errorf("window_start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("05 Mar 2025", got.WindowEnd); diff != "" {
		t.Errorf("window_end mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(2, got.Count); diff != "" {
		t.Errorf("count mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("run-1", got.RunID); diff != "" {
		t.Errorf("run_id mismatch (-want +got):\n%s", diff)
	}

	want := jsonReminder{
		DueDate: "02 Mar 2025", ChargeDate: "02 Dec 2024", ClientName: "Bo",
		Animals: []string{"Rex"}, AnimalName: "Rex", PlanItem: "Groom", Quantity: 1, IntervalDays: []int{90},
	}
	if diff := cmp.Diff(want, got.Reminders[1]); diff != "" {
		t.Errorf("reminder mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSONEmptyList(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Meta{}, nil); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"reminders": []`)) {
		t.Errorf("expected empty reminders array, got:\n%s", buf.String())
	}
}

func TestToFiles(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	jsonPath := filepath.Join(dir, "out.json")

	if err := ToCSV(sampleReminders(), csvPath); err != nil {
		t.Fatalf("ToCSV() error: %v", err)
	}
	if err := ToJSON(Meta{RunID: "r"}, sampleReminders(), jsonPath); err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}

	for _, p := range []string{csvPath, jsonPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", p)
		}
	}

	if err := ToCSV(nil, filepath.Join(dir, "missing", "out.csv")); err == nil {
		t.Error("expected error for missing directory")
	}
}
