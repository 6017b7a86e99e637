package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"vetremind/internal/dates"
	"vetremind/internal/model"
)

// captionFormats are accepted for the window start date in a document caption.
var captionFormats = []string{"%Y-%m-%d", "%d/%m/%Y", "%d %b %Y"}

// RuleArgs holds the parsed arguments of /setrule.
type RuleArgs struct {
	Key  string
	Rule model.Rule
}

// ParseRuleArgs parses arguments for /setrule.
// Format: <days> [qty] <key> [= <label>]
func ParseRuleArgs(args string) (RuleArgs, error) {
	const usage = "usage: /setrule <days> [qty] <key> = <label>"

	head, label, _ := strings.Cut(args, "=")
	parts := strings.Fields(head)
	if len(parts) < 2 {
		return RuleArgs{}, errors.New(usage)
	}

	days, err := strconv.Atoi(parts[0])
	if err != nil || days < 1 {
		return RuleArgs{}, fmt.Errorf("days must be a positive number, got %q", parts[0])
	}

	rest := parts[1:]
	useQty := false
	if strings.EqualFold(rest[0], "qty") && len(rest) > 1 {
		useQty = true
		rest = rest[1:]
	}

	key := strings.ToLower(strings.Join(rest, " "))
	if key == "" {
		return RuleArgs{}, errors.New(usage)
	}

	return RuleArgs{
		Key:  key,
		Rule: model.Rule{Days: days, UseQty: useQty, VisibleText: strings.TrimSpace(label)},
	}, nil
}

// ParseIDArg extracts a numeric ID from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("ID is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return id, nil
}

// ParseSecretArgs splits "<secret> [rest...]" into the secret and the remainder.
func ParseSecretArgs(args string) (string, string) {
	secret, rest, _ := strings.Cut(strings.TrimSpace(args), " ")
	return secret, strings.TrimSpace(rest)
}

// ParseStartDate reads the window start from a document caption. An empty
// caption means today.
func ParseStartDate(caption string, now time.Time) (time.Time, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return dates.Day(now), nil
	}
	for _, f := range captionFormats {
		if t, err := dates.Parse(f, caption); err == nil {
			return dates.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot read start date %q, use YYYY-MM-DD", caption)
}
