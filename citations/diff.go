// Package citations holds the set arithmetic of the bot: deciding which feed
// records are new relative to the archive and collapsing duplicate citations.
package citations

import (
	"citebot/models"
)

// Diff returns the feed records whose structural value does not appear in
// archive. The comparison is a multiset difference: each archive record cancels
// at most one matching feed record, and duplicates in the feed that are not
// covered by the archive survive, in feed order. Neither input is modified.
func Diff(feed, archive []models.CitationRecord) ([]models.CitationRecord, error) {
	if err := validate(feed); err != nil {
		return nil, err
	}
	if err := validate(archive); err != nil {
		return nil, err
	}

	seen := make(map[models.CitationRecord]int, len(archive))
	for _, record := range archive {
		seen[record]++
	}

	var fresh []models.CitationRecord
	for _, record := range feed {
		if seen[record] > 0 {
			seen[record]--
			continue
		}
		fresh = append(fresh, record)
	}

	return fresh, nil
}

func validate(records []models.CitationRecord) error {
	for _, record := range records {
		if record.Citation == "" {
			return &models.DataError{Field: "citation", Msg: "required field missing"}
		}
		if record.Name == "" {
			return &models.DataError{Field: "name", Msg: "required field missing"}
		}
	}
	return nil
}
