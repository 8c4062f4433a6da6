package publisher

import (
	"context"
	"errors"
	"io"
	"testing"

	"citebot/authors"
	"citebot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimeline struct {
	recent    []string
	recentErr error
	postErr   error

	posted []string
	images [][]byte
}

func (f *fakeTimeline) Recent(context.Context) ([]string, error) {
	return f.recent, f.recentErr
}

func (f *fakeTimeline) Post(_ context.Context, text string, image io.Reader) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, text)
	if image != nil {
		data, err := io.ReadAll(image)
		if err != nil {
			return err
		}
		f.images = append(f.images, data)
	} else {
		f.images = append(f.images, nil)
	}
	return nil
}

type fakeHandles struct {
	handles map[string]string
	err     error
}

func (f *fakeHandles) Lookup(context.Context) (map[string]string, error) {
	return f.handles, f.err
}

type fakeAssets struct {
	data []byte
	err  error
}

func (f *fakeAssets) Fetch(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

func newTestPublisher(timeline *fakeTimeline, assets *fakeAssets) *Publisher {
	renderer := NewRenderer(testOptions(), authors.NewHeuristic())
	return New(renderer, timeline, &fakeHandles{}, assets)
}

func TestPublishPostsNewAnnouncement(t *testing.T) {
	timeline := &fakeTimeline{}
	pub := newTestPublisher(timeline, &fakeAssets{})

	outcome, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation: "X (2020)",
		Name:     "foo",
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomePosted, outcome)
	require.Len(t, timeline.posted, 1)
	assert.Equal(t, "New @rOpenSci citation: X used #rstats 📦 #foo in their research", timeline.posted[0])
	assert.Nil(t, timeline.images[0])
}

func TestPublishSkipsDuplicate(t *testing.T) {
	record := models.CitationRecord{Citation: "X (2020)", Name: "foo"}

	// First run posts; second run sees the first run's exact text in history
	// and must skip without posting.
	first := &fakeTimeline{}
	pub := newTestPublisher(first, &fakeAssets{})
	outcome, err := pub.Publish(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, models.OutcomePosted, outcome)

	second := &fakeTimeline{recent: first.posted}
	pub = newTestPublisher(second, &fakeAssets{})
	outcome, err = pub.Publish(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDuplicateSkipped, outcome)
	assert.Empty(t, second.posted)
}

func TestPublishDuplicateCheckIsCaseInsensitive(t *testing.T) {
	timeline := &fakeTimeline{
		recent: []string{"NEW @ROPENSCI CITATION: X USED #RSTATS 📦 #FOO IN THEIR RESEARCH"},
	}
	pub := newTestPublisher(timeline, &fakeAssets{})

	outcome, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation: "X (2020)",
		Name:     "foo",
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDuplicateSkipped, outcome)
	assert.Empty(t, timeline.posted)
}

func TestPublishAttachesImage(t *testing.T) {
	timeline := &fakeTimeline{}
	pub := newTestPublisher(timeline, &fakeAssets{data: []byte("png-bytes")})

	outcome, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation:  "X (2020)",
		Name:      "foo",
		ImagePath: "Smith2020.png",
	})

	require.NoError(t, err)
	assert.Equal(t, models.OutcomePosted, outcome)
	require.Len(t, timeline.images, 1)
	assert.Equal(t, []byte("png-bytes"), timeline.images[0])
}

func TestPublishSurfacesPostFailure(t *testing.T) {
	timeline := &fakeTimeline{postErr: errors.New("boom")}
	pub := newTestPublisher(timeline, &fakeAssets{})

	_, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation: "X (2020)",
		Name:     "foo",
	})

	require.Error(t, err)
	var te *models.TransientError
	assert.ErrorAs(t, err, &te)
}

func TestPublishZeroAuthorsIsDataError(t *testing.T) {
	renderer := NewRenderer(testOptions(), &fakeParser{})
	pub := New(renderer, &fakeTimeline{}, &fakeHandles{}, &fakeAssets{})

	_, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation: "???",
		Name:     "foo",
	})

	require.Error(t, err)
	assert.True(t, models.IsDataError(err))
}

func TestPublishSurfacesHistoryFailure(t *testing.T) {
	timeline := &fakeTimeline{recentErr: errors.New("boom")}
	pub := newTestPublisher(timeline, &fakeAssets{})

	_, err := pub.Publish(context.Background(), models.CitationRecord{
		Citation: "X (2020)",
		Name:     "foo",
	})

	require.Error(t, err)
	assert.Empty(t, timeline.posted)
}
