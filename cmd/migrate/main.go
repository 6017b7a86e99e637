// Command migrate manages the feedback database schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"vetremind/migrations"
)

type command struct {
	name  string
	help  string
	apply func(db *sql.DB, dir string) error
}

var commands = []command{
	{"up", "Create or upgrade the feedback table to the latest schema", func(db *sql.DB, dir string) error { return goose.Up(db, dir) }},
	{"up-one", "Apply the next pending schema change", func(db *sql.DB, dir string) error { return goose.UpByOne(db, dir) }},
	{"down", "Undo the latest schema change", func(db *sql.DB, dir string) error { return goose.Down(db, dir) }},
	{"redo", "Undo and reapply the latest schema change", func(db *sql.DB, dir string) error { return goose.Redo(db, dir) }},
	{"status", "List schema changes and whether they are applied", func(db *sql.DB, dir string) error { return goose.Status(db, dir) }},
	{"version", "Print the schema version of the feedback store", func(db *sql.DB, dir string) error { return goose.Version(db, dir) }},
	{"reset", "Undo every schema change (drops stored feedback)", func(db *sql.DB, dir string) error { return goose.Reset(db, dir) }},
}

func main() {
	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/feedback.db"), "feedback database file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open feedback database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if err := migrate(db, flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

// migrate runs the named schema command against db.
func migrate(db *sql.DB, name string) error {
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := migrations.Setup(); err != nil {
			return err
		}
		if err := c.apply(db, "."); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", name)
}

func usage() {
	w := flag.CommandLine.Output()
	fmt.Fprintln(w, "Usage: migrate [-db feedback.db] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manages the schema of the feedback store (DATABASE_PATH).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.help)
	}
	fmt.Fprintln(w)
	flag.PrintDefaults()
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
