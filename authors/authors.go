// Package authors extracts author names from free-text bibliographic
// citations.
package authors

import (
	"regexp"
	"strings"

	"citebot/models"
)

// Parser turns a citation string into an ordered author list. Implementations
// may call out to an external service; the zero-dependency default below
// handles the APA-style references the citations feed carries.
type Parser interface {
	Parse(citation string) ([]models.Author, error)
}

// Heuristic is the default Parser. It reads the author block that precedes
// the publication year and matches "Family, I. N." name pairs.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

var (
	// "Sutherland, W. J." / "O'Brien, T." / "van der Berg, J."
	namePair = regexp.MustCompile(`([\p{Lu}][\p{L}'’-]*(?:\s[\p{Ll}'’-]+)*(?:\s[\p{Lu}][\p{L}'’-]+)*),\s*((?:[\p{Lu}]\.[\s-]?)+)`)
	yearOpen = regexp.MustCompile(`\(\d{4}`)
)

func (h *Heuristic) Parse(citation string) ([]models.Author, error) {
	head := citation
	if loc := yearOpen.FindStringIndex(citation); loc != nil {
		head = citation[:loc[0]]
	} else if i := strings.IndexByte(citation, '('); i >= 0 {
		head = citation[:i]
	}
	head = strings.TrimSpace(head)

	var result []models.Author
	for _, match := range namePair.FindAllStringSubmatch(head, -1) {
		result = append(result, models.Author{
			Family: strings.TrimSpace(match[1]),
			Given:  strings.TrimSpace(match[2]),
		})
	}
	if len(result) > 0 {
		return result, nil
	}

	// No "Family, Initials" pattern. Some citations open with a bare name or
	// collective author; use the first token of the head as the family name.
	fields := strings.Fields(strings.Trim(head, " .,;"))
	if len(fields) == 0 {
		return nil, nil
	}
	return []models.Author{{Family: strings.Trim(fields[0], ".,;")}}, nil
}
