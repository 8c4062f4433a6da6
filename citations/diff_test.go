package citations

import (
	"testing"

	"citebot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(citation, name string) models.CitationRecord {
	return models.CitationRecord{Citation: citation, Name: name}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		feed     []models.CitationRecord
		archive  []models.CitationRecord
		expected []models.CitationRecord
	}{
		{
			name:     "empty feed",
			feed:     nil,
			archive:  []models.CitationRecord{record("A (2020)", "pkg1")},
			expected: nil,
		},
		{
			name:     "empty archive returns feed unchanged",
			feed:     []models.CitationRecord{record("A (2020)", "pkg1"), record("B (2021)", "pkg2")},
			archive:  nil,
			expected: []models.CitationRecord{record("A (2020)", "pkg1"), record("B (2021)", "pkg2")},
		},
		{
			name:     "disjoint sets return feed",
			feed:     []models.CitationRecord{record("A (2020)", "pkg1")},
			archive:  []models.CitationRecord{record("B (2021)", "pkg2")},
			expected: []models.CitationRecord{record("A (2020)", "pkg1")},
		},
		{
			name: "fully archived feed returns empty",
			feed: []models.CitationRecord{record("A (2020)", "pkg1"), record("B (2021)", "pkg2")},
			archive: []models.CitationRecord{
				record("B (2021)", "pkg2"),
				record("A (2020)", "pkg1"),
				record("C (2022)", "pkg3"),
			},
			expected: nil,
		},
		{
			name: "archive record cancels only one matching feed record",
			feed: []models.CitationRecord{
				record("A (2020)", "pkg1"),
				record("A (2020)", "pkg1"),
			},
			archive:  []models.CitationRecord{record("A (2020)", "pkg1")},
			expected: []models.CitationRecord{record("A (2020)", "pkg1")},
		},
		{
			name: "field-level difference is a different record",
			feed: []models.CitationRecord{
				{Citation: "A (2020)", Name: "pkg1", DOI: "10.1/xyz"},
			},
			archive:  []models.CitationRecord{record("A (2020)", "pkg1")},
			expected: []models.CitationRecord{{Citation: "A (2020)", Name: "pkg1", DOI: "10.1/xyz"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh, err := Diff(tt.feed, tt.archive)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fresh)
		})
	}
}

func TestDiffValidatesRequiredFields(t *testing.T) {
	_, err := Diff([]models.CitationRecord{{Citation: "A (2020)"}}, nil)
	require.Error(t, err)
	assert.True(t, models.IsDataError(err))

	_, err = Diff(nil, []models.CitationRecord{{Name: "pkg1"}})
	require.Error(t, err)
	assert.True(t, models.IsDataError(err))
}

func TestDiffDoesNotMutateInputs(t *testing.T) {
	feed := []models.CitationRecord{record("A (2020)", "pkg1"), record("B (2021)", "pkg2")}
	archive := []models.CitationRecord{record("A (2020)", "pkg1")}

	_, err := Diff(feed, archive)
	require.NoError(t, err)

	assert.Equal(t, []models.CitationRecord{record("A (2020)", "pkg1"), record("B (2021)", "pkg2")}, feed)
	assert.Equal(t, []models.CitationRecord{record("A (2020)", "pkg1")}, archive)
}
