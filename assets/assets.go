// Package assets resolves announcement images against a fixed remote prefix.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"citebot/models"
)

// Store fetches image bytes by basename from a remote base URL.
type Store struct {
	baseURL string
	client  *http.Client
}

func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/") + "/",
		client:  http.DefaultClient,
	}
}

// Fetch downloads the image whose basename matches imagePath. Only the
// basename of the given path is used, the directory layout of the feed repo
// is not mirrored remotely.
func (s *Store) Fetch(ctx context.Context, imagePath string) ([]byte, error) {
	url := s.baseURL + path.Base(imagePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &models.TransientError{Op: "fetch asset", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &models.TransientError{Op: "fetch asset", Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	return io.ReadAll(resp.Body)
}
