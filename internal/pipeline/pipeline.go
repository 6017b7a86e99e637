// Package pipeline runs a batch of uploaded exports through detection,
// staging, rule matching, projection and grouping.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"vetremind/internal/dates"
	"vetremind/internal/ingest"
	"vetremind/internal/model"
	"vetremind/internal/reminder"
	"vetremind/internal/rules"
	"vetremind/internal/schema"
	"vetremind/internal/table"
)

var (
	// ErrNoInput is returned when Run is called without files.
	ErrNoInput = errors.New("no input files")
	// ErrUndetectedSchema is recorded for a file whose headers match no vendor.
	ErrUndetectedSchema = errors.New("columns do not match any known practice management export")
	// ErrMixedSchemas is returned when a batch holds exports from more than one vendor.
	ErrMixedSchemas = errors.New("files come from different practice management systems")
)

// Input is one uploaded file.
type Input struct {
	Name string
	Data []byte
}

// Options control a single run.
type Options struct {
	// Start is the first day of the reminder window. Zero means today.
	Start time.Time
	// Search keeps only rows whose client, animal or item contains the text.
	Search string
	// Now is used when Start is zero. Defaults to time.Now.
	Now func() time.Time
}

// FileSummary reports what happened to one input file.
type FileSummary struct {
	Name    string
	Vendor  string
	Rows    int
	Dropped int
	Dated   int
	Matched int
	First   time.Time
	Last    time.Time
	Err     error
}

// Report is the outcome of a run.
type Report struct {
	RunID     string
	Start     time.Time
	End       time.Time
	Vendor    string
	Files     []FileSummary
	Rows      []model.Row
	Reminders []model.Reminder
}

// Failed returns the number of files that could not be processed.
func (r *Report) Failed() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

type detected struct {
	idx    int
	tbl    table.Table
	vendor schema.Vendor
}

// Run processes inputs with settings s. Per-file problems are recorded in the
// report summaries and do not stop the batch. ErrMixedSchemas is returned
// together with the report when the files come from different vendors; no
// reminders are produced in that case.
func Run(inputs []Input, s model.Settings, opts Options, log *slog.Logger) (*Report, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	start := opts.Start
	if start.IsZero() {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		start = now()
	}
	from, to := reminder.Window(start)

	rep := &Report{
		RunID: uuid.NewString(),
		Start: from,
		End:   to,
		Files: make([]FileSummary, len(inputs)),
	}
	log = log.With("run_id", rep.RunID)
	log.Info("batch started", "files", len(inputs), "start", dates.Format(from), "end", dates.Format(to))

	var found []detected
	for i, in := range inputs {
		sum := &rep.Files[i]
		sum.Name = in.Name

		d, err := load(in)
		if err != nil {
			sum.Err = err
			log.Warn("file skipped", "file", in.Name, "error", err)
			continue
		}
		d.idx = i
		sum.Vendor = d.vendor.Name
		sum.Rows = len(d.tbl.Rows)
		found = append(found, d)
	}

	vendors := distinctVendors(found)
	if len(vendors) > 1 {
		log.Warn("batch refused", "vendors", strings.Join(vendors, ", "))
		return rep, fmt.Errorf("%w: %s", ErrMixedSchemas, strings.Join(vendors, ", "))
	}
	if len(vendors) == 1 {
		rep.Vendor = vendors[0]
	}

	engine := rules.New(s.Rules)
	for _, d := range found {
		rows, st := ingest.Stage(d.tbl, d.vendor)
		engine.Apply(rows)
		reminder.Project(rows)

		sum := &rep.Files[d.idx]
		sum.Rows = st.Rows
		sum.Dropped = st.Dropped
		sum.Dated = st.Dated
		sum.First, sum.Last = st.First, st.Last
		for _, r := range rows {
			if r.IntervalDays > 0 {
				sum.Matched++
			}
		}
		log.Debug("file staged", "file", sum.Name, "vendor", sum.Vendor,
			"rows", sum.Rows, "dropped", sum.Dropped, "dated", sum.Dated, "matched", sum.Matched)

		rep.Rows = append(rep.Rows, rows...)
	}

	rep.Rows = Search(rep.Rows, opts.Search)
	rep.Reminders = reminder.Group(rep.Rows, from, s.Exclusions)
	reminder.Render(rep.Reminders, s.UserName)

	log.Info("batch finished", "vendor", rep.Vendor, "rows", len(rep.Rows),
		"reminders", len(rep.Reminders), "failed_files", rep.Failed())
	return rep, nil
}

// Search keeps rows whose client, animal or item contains q, ignoring case.
// An empty query keeps every row.
func Search(rows []model.Row, q string) []model.Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	var out []model.Row
	for _, r := range rows {
		if strings.Contains(r.ClientLC, q) || strings.Contains(r.AnimalLC, q) || strings.Contains(r.ItemLC, q) {
			out = append(out, r)
		}
	}
	return out
}

func load(in Input) (detected, error) {
	if !table.Supported(in.Name) {
		return detected{}, fmt.Errorf("%s: %w", in.Name, table.ErrUnsupportedFileType)
	}
	tbl, err := table.Read(in.Name, in.Data)
	if err != nil {
		return detected{}, fmt.Errorf("read %s: %w", in.Name, err)
	}
	v, ok := schema.Detect(tbl.Headers)
	if !ok {
		return detected{}, fmt.Errorf("%s: %w", in.Name, ErrUndetectedSchema)
	}
	return detected{tbl: tbl, vendor: v}, nil
}

func distinctVendors(found []detected) []string {
	var names []string
	for _, d := range found {
		if !slices.Contains(names, d.vendor.Name) {
			names = append(names, d.vendor.Name)
		}
	}
	return names
}
