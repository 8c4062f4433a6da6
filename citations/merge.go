package citations

import (
	"strings"

	"citebot/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Merge collapses records that share an identical citation string into a
// single record whose name is the comma-join of all subject package names, in
// feed order; the remaining fields come from the first occurrence. The merged
// record is appended after the untouched records.
//
// Only the first repeated citation encountered is collapsed. A batch with two
// or more distinct duplicate groups leaves the later groups as separate
// records; in practice one citation covers a handful of packages fetched in
// the same run and multiple simultaneous groups do not occur.
//
// Returns nil for empty input. When there are no duplicates the result is a
// structural copy of the input, so callers may mutate their copy freely.
func Merge(records []models.CitationRecord) []models.CitationRecord {
	if len(records) == 0 {
		return nil
	}

	repeated, found := repeatedCitation(records)
	if !found {
		out := make([]models.CitationRecord, len(records))
		copy(out, records)
		return out
	}

	group := lo.Filter(records, func(r models.CitationRecord, _ int) bool {
		return r.Citation == repeated
	})
	names := lo.Map(group, func(r models.CitationRecord, _ int) string {
		return r.Name
	})

	merged := group[0]
	merged.Name = strings.Join(names, models.NameDelimiter)

	log.WithFields(log.Fields{
		"citation": repeated,
		"names":    merged.Name,
	}).Info("Merged duplicate citation group")

	out := lo.Filter(records, func(r models.CitationRecord, _ int) bool {
		return r.Citation != repeated
	})
	return append(out, merged)
}

// repeatedCitation returns the first citation string, in feed order, that
// appears on more than one record.
func repeatedCitation(records []models.CitationRecord) (string, bool) {
	counts := lo.CountValuesBy(records, func(r models.CitationRecord) string {
		return r.Citation
	})
	for _, record := range records {
		if counts[record.Citation] > 1 {
			return record.Citation, true
		}
	}
	return "", false
}
