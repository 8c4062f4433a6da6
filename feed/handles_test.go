package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandles(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected map[string]string
	}{
		{
			name:     "empty body",
			body:     "",
			expected: map[string]string{},
		},
		{
			name:     "plain rows",
			body:     "package,handle\nrgbif,rgbif_dev\ntaxize,taxize_dev\n",
			expected: map[string]string{"rgbif": "rgbif_dev", "taxize": "taxize_dev"},
		},
		{
			name:     "pipe quoted fields",
			body:     "package,handle\n|rgbif|,|rgbif_dev|\n",
			expected: map[string]string{"rgbif": "rgbif_dev"},
		},
		{
			name:     "rows with missing handle are skipped",
			body:     "package,handle\nrgbif,\ntaxize,taxize_dev\n",
			expected: map[string]string{"taxize": "taxize_dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handles, err := parseHandles(strings.NewReader(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, handles)
		})
	}
}

func TestParseHandlesMissingColumns(t *testing.T) {
	_, err := parseHandles(strings.NewReader("name,account\nrgbif,rgbif_dev\n"))
	assert.Error(t, err)
}
