// Package publisher renders citation records into bounded announcements and
// emits each one at most once.
package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"citebot/models"

	log "github.com/sirupsen/logrus"
)

// Timeline is the posting surface. Recent returns the text of announcements
// still visible in bounded history, newest first.
type Timeline interface {
	Recent(ctx context.Context) ([]string, error)
	Post(ctx context.Context, text string, image io.Reader) error
}

// Handles resolves package names to social handles.
type Handles interface {
	Lookup(ctx context.Context) (map[string]string, error)
}

// Assets fetches announcement images by path.
type Assets interface {
	Fetch(ctx context.Context, imagePath string) ([]byte, error)
}

type Publisher struct {
	renderer *Renderer
	timeline Timeline
	handles  Handles
	assets   Assets
}

func New(renderer *Renderer, timeline Timeline, handles Handles, assets Assets) *Publisher {
	return &Publisher{
		renderer: renderer,
		timeline: timeline,
		handles:  handles,
		assets:   assets,
	}
}

// Publish renders record and posts it unless an announcement with the same
// text (compared case-insensitively) is already visible in recent history.
func (p *Publisher) Publish(ctx context.Context, record models.CitationRecord) (models.Outcome, error) {
	handles, err := p.handles.Lookup(ctx)
	if err != nil {
		return 0, err
	}

	text, err := p.renderer.Render(record, handles)
	if err != nil {
		return 0, err
	}

	recent, err := p.timeline.Recent(ctx)
	if err != nil {
		return 0, &models.TransientError{Op: "fetch announcement history", Err: err}
	}

	for _, sent := range recent {
		if strings.EqualFold(text, sent) {
			log.WithFields(log.Fields{
				"name": record.Name,
			}).Info("Skipping, announcement already sent")
			return models.OutcomeDuplicateSkipped, nil
		}
	}

	log.WithFields(log.Fields{
		"name": record.Name,
		"text": text,
	}).Info("New citation, sending announcement")

	if record.ImagePath == "" {
		if err := p.timeline.Post(ctx, text, nil); err != nil {
			return 0, &models.TransientError{Op: "post announcement", Err: err}
		}
		return models.OutcomePosted, nil
	}

	if err := p.postWithImage(ctx, text, record.ImagePath); err != nil {
		return 0, err
	}
	return models.OutcomePosted, nil
}

// postWithImage stages the remote image in a temporary file for the duration
// of the post call and removes it afterwards, whether the post succeeded or
// not.
func (p *Publisher) postWithImage(ctx context.Context, text, imagePath string) error {
	data, err := p.assets.Fetch(ctx, imagePath)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "announcement-*"+filepath.Ext(imagePath))
	if err != nil {
		return fmt.Errorf("stage image: %w", err)
	}
	defer func() {
		tmp.Close()
		log.WithFields(log.Fields{
			"file": tmp.Name(),
		}).Debug("Deleting staged image")
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("stage image: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("stage image: %w", err)
	}

	if err := p.timeline.Post(ctx, text, tmp); err != nil {
		return &models.TransientError{Op: "post announcement", Err: err}
	}
	return nil
}
