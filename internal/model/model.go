// Package model defines the domain types used across the application.
package model

import "time"

// Rule maps a lower-case item-text pattern to a recurrence interval.
type Rule struct {
	Days        int    `json:"days"`
	UseQty      bool   `json:"use_qty"`
	VisibleText string `json:"visible_text"`
}

// Settings is the persisted, user-editable configuration of the reminder pipeline.
type Settings struct {
	Rules      map[string]Rule `json:"rules"`
	Exclusions []string        `json:"exclusions"`
	UserName   string          `json:"user_name"`
}

// Row is a canonical invoice line, identical in shape for every vendor.
// A zero PerformedAt or DueAt means the date is unknown.
type Row struct {
	PerformedAt time.Time
	ClientName  string
	AnimalName  string
	ItemName    string
	Quantity    int

	ClientLC string
	AnimalLC string
	ItemLC   string

	// IntervalDays is zero when no rule matched.
	IntervalDays int
	Label        string
	DueAt        time.Time
	ChargeDate   string
	DueDate      string
}

// Reminder is a group of due rows for one client on one due date.
type Reminder struct {
	DueAt           time.Time
	DueDate         string
	LastPerformedAt time.Time
	ChargeDate      string
	ClientName      string
	Animals         []string
	AnimalName      string
	Labels          []string
	ItemLabel       string
	Quantity        int
	IntervalDays    []int
	Days            string
	Message         string
}

// Feedback is a single user submission kept in the feedback store.
type Feedback struct {
	ID        int64
	CreatedAt time.Time
	Name      string
	Email     string
	Message   string
}
