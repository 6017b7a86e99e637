package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vetremind/internal/dates"
	"vetremind/internal/export"
	"vetremind/internal/pipeline"
)

func remindCmd() *cobra.Command {
	var (
		start    string
		search   string
		csvPath  string
		jsonPath string
		messages bool
	)

	cmd := &cobra.Command{
		Use:   "remind FILE...",
		Short: "Build reminders from one or more exports of the same system",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var from time.Time
			if start != "" {
				t, err := dates.Parse("%Y-%m-%d", start)
				if err != nil {
					return fmt.Errorf("invalid --start %q, use YYYY-MM-DD", start)
				}
				from = t
			}

			inputs := make([]pipeline.Input, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				inputs = append(inputs, pipeline.Input{Name: filepath.Base(path), Data: data})
			}

			st, err := getSettings()
			if err != nil {
				return err
			}

			rep, err := pipeline.Run(inputs, st.Settings(), pipeline.Options{Start: from, Search: search}, log)
			if rep != nil {
				printReport(rep)
			}
			if err != nil {
				return err
			}
			if rep.Failed() == len(rep.Files) {
				return errors.New("no file could be processed")
			}

			printReminders(rep, messages)

			if csvPath != "" {
				if err := export.ToCSV(rep.Reminders, csvPath); err != nil {
					return err
				}
				fmt.Printf("CSV written to %s\n", csvPath)
			}
			if jsonPath != "" {
				meta := export.Meta{RunID: rep.RunID, Start: rep.Start, End: rep.End}
				if err := export.ToJSON(meta, rep.Reminders, jsonPath); err != nil {
					return err
				}
				fmt.Printf("JSON written to %s\n", jsonPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day of the window (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&search, "search", "", "keep rows whose client, animal or item contains text")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write reminders to a CSV file")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write reminders to a JSON file")
	cmd.Flags().BoolVarP(&messages, "messages", "m", false, "print the client message under each reminder")
	return cmd
}

func printReport(rep *pipeline.Report) {
	fmt.Printf("Window: %s to %s\n", dates.Format(rep.Start), dates.Format(rep.End))
	for _, f := range rep.Files {
		if f.Err != nil {
			fmt.Printf("  %s: %v\n", f.Name, f.Err)
			continue
		}
		fmt.Printf("  %s (%s): %d rows, %d dated, %d matched", f.Name, f.Vendor, f.Rows, f.Dated, f.Matched)
		if f.Dropped > 0 {
			fmt.Printf(", %d without client", f.Dropped)
		}
		fmt.Println()
	}
}

func printReminders(rep *pipeline.Report, messages bool) {
	if len(rep.Reminders) == 0 {
		fmt.Println("No reminders due in this window.")
		return
	}

	fmt.Printf("%d reminders due:\n", len(rep.Reminders))
	for _, r := range rep.Reminders {
		fmt.Printf("%s  %-24s  %-16s  %s (qty %d, %s days)\n",
			r.DueDate, truncate(r.ClientName, 24), truncate(r.AnimalName, 16), r.ItemLabel, r.Quantity, r.Days)
		if messages {
			fmt.Printf("    %s\n", r.Message)
		}
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
