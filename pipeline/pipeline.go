// Package pipeline sequences one full run of the bot: read the feed, diff it
// against the archive, merge duplicate citations, persist the diff, and
// publish one announcement per merged record.
package pipeline

import (
	"context"
	"errors"

	"citebot/citations"
	"citebot/models"

	log "github.com/sirupsen/logrus"
)

// ErrNoNewCitations is returned by Run when the feed contains nothing the
// archive has not already seen.
var ErrNoNewCitations = errors.New("no new citations")

// FeedReader yields the current feed records in feed order.
type FeedReader interface {
	Read(ctx context.Context) ([]models.CitationRecord, error)
}

// Archive is the durable record of everything previously processed.
type Archive interface {
	ReadAll(ctx context.Context) ([]models.CitationRecord, error)
	WriteAll(ctx context.Context, records []models.CitationRecord) error
}

// Publisher emits one announcement per record, at most once.
type Publisher interface {
	Publish(ctx context.Context, record models.CitationRecord) (models.Outcome, error)
}

type Pipeline struct {
	feed      FeedReader
	archive   Archive
	publisher Publisher
}

func New(feed FeedReader, archive Archive, publisher Publisher) *Pipeline {
	return &Pipeline{
		feed:      feed,
		archive:   archive,
		publisher: publisher,
	}
}

// Run executes one pass and returns the merged records that were considered
// for publication, or ErrNoNewCitations when there was nothing to do.
//
// The archive receives the pre-merge diff output, so every record keeps its
// individual provenance; publishing works on the independently copied merged
// records. A record that fails to publish does not stop its siblings.
func (p *Pipeline) Run(ctx context.Context) ([]models.CitationRecord, error) {
	log.Info("Getting citations from feed")
	feed, err := p.feed.Read(ctx)
	if err != nil {
		return nil, err
	}
	feedRecordsFetched.Add(float64(len(feed)))

	log.Info("Getting archived citations")
	archived, err := p.archive.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	fresh, err := citations.Diff(feed, archived)
	if err != nil {
		return nil, err
	}
	newCitations.Add(float64(len(fresh)))

	merged := citations.Merge(fresh)
	if len(merged) == 0 {
		log.Info("No new citations")
		return nil, ErrNoNewCitations
	}

	log.WithFields(log.Fields{
		"new":    len(fresh),
		"merged": len(merged),
	}).Info("Archiving new citations")
	if err := p.archive.WriteAll(ctx, fresh); err != nil {
		return nil, err
	}

	for _, record := range merged {
		outcome, err := p.publisher.Publish(ctx, record)
		if err != nil {
			publishErrors.Inc()
			log.WithFields(log.Fields{
				"name": record.Name,
			}).Errorf("Failed to publish citation: %s", err)
			continue
		}

		switch outcome {
		case models.OutcomePosted:
			announcementsPosted.Inc()
		case models.OutcomeDuplicateSkipped:
			announcementsSkipped.Inc()
		}
	}

	return merged, nil
}
