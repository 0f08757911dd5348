package bot

import (
	"regexp"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindAdd
	KindSchedule
	KindDelete
	KindArchive
)

// Command is one decoded chat command. Malformed means the keyword was
// recognized but the rest of the line did not parse; those get a usage reply
// while KindUnknown text is dropped silently.
type Command struct {
	Kind      Kind
	Title     string
	DueRaw    string // add: the raw date text, normalized to single spaces
	ID        string // delete
	Malformed bool
}

var addRe = regexp.MustCompile(`(?i)^!?add\s+(.+)\s+on\s+(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2})\s*$`)

// Parse matches the command surface case-insensitively. A leading "!" is
// accepted for compatibility with the original bot syntax.
func Parse(text string) Command {
	trimmed := strings.TrimSpace(text)
	lower := strings.TrimPrefix(strings.ToLower(trimmed), "!")

	switch lower {
	case "schedule", "s":
		return Command{Kind: KindSchedule}
	case "archive", "a":
		return Command{Kind: KindArchive}
	case "add":
		return Command{Kind: KindAdd, Malformed: true}
	case "delete":
		return Command{Kind: KindDelete, Malformed: true}
	}

	switch {
	case strings.HasPrefix(lower, "add "):
		m := addRe.FindStringSubmatch(trimmed)
		if m == nil {
			return Command{Kind: KindAdd, Malformed: true}
		}
		return Command{
			Kind:   KindAdd,
			Title:  strings.TrimSpace(m[1]),
			DueRaw: strings.Join(strings.Fields(m[2]), " "),
		}
	case strings.HasPrefix(lower, "delete "):
		fields := strings.Fields(trimmed)
		if len(fields) != 2 {
			return Command{Kind: KindDelete, Malformed: true}
		}
		return Command{Kind: KindDelete, ID: fields[1]}
	}

	return Command{Kind: KindUnknown}
}
