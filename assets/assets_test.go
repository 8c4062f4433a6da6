package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"citebot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUsesBasename(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	store := NewStore(server.URL + "/img")
	data, err := store.Fetch(context.Background(), "some/dir/Smith2020.png")

	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Equal(t, "/img/Smith2020.png", requested)
}

func TestFetchNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	store := NewStore(server.URL)
	_, err := store.Fetch(context.Background(), "missing.png")

	require.Error(t, err)
	var te *models.TransientError
	assert.ErrorAs(t, err, &te)
}
