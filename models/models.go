package models

import "strings"

// NameDelimiter joins multiple subject package names in a single record.
const NameDelimiter = ","

// CitationRecord is one row of the citations feed. All fields are plain
// strings so the struct stays comparable; an empty string means the field is
// absent (the feed's literal "NA" is normalized away at the reader boundary).
type CitationRecord struct {
	Citation        string `json:"citation"`
	Name            string `json:"name"`
	DOI             string `json:"doi,omitempty"`
	ResearchSnippet string `json:"research_snippet,omitempty"`
	ImagePath       string `json:"img_path,omitempty"`
}

// Names splits the comma-joined subject package names.
func (r CitationRecord) Names() []string {
	if r.Name == "" {
		return nil
	}
	parts := strings.Split(r.Name, NameDelimiter)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Author is one extracted author from a citation string.
type Author struct {
	Family string `json:"family"`
	Given  string `json:"given,omitempty"`
}

// Outcome reports what the publisher did with a record.
type Outcome int

const (
	OutcomePosted Outcome = iota
	// OutcomeDuplicateSkipped means an announcement with the same text was
	// already visible in recent history. Not an error.
	OutcomeDuplicateSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomePosted:
		return "posted"
	case OutcomeDuplicateSkipped:
		return "duplicate-skipped"
	default:
		return "unknown"
	}
}

// ArchiveEntry is a persisted citation record together with its storage key.
type ArchiveEntry struct {
	Key    string         `json:"key"`
	Record CitationRecord `json:"record"`
}
