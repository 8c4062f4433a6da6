package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	"citebot/models"

	log "github.com/sirupsen/logrus"
)

// HandleDirectory fetches the package-to-handle mapping table: a
// comma-separated file with a header row where fields may be quoted with
// pipe characters.
type HandleDirectory struct {
	url    string
	client *http.Client
}

func NewHandleDirectory(url string) *HandleDirectory {
	return &HandleDirectory{
		url:    url,
		client: http.DefaultClient,
	}
}

// Lookup returns the package name to social handle mapping.
func (d *HandleDirectory) Lookup(ctx context.Context) (map[string]string, error) {
	body, err := fetch(ctx, d.client, d.url)
	if err != nil {
		return nil, &models.TransientError{Op: "fetch handle mapping", Err: err}
	}
	defer body.Close()

	handles, err := parseHandles(body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"handles": len(handles),
	}).Debug("Fetched handle mapping")

	return handles, nil
}

func parseHandles(r io.Reader) (map[string]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed handle mapping: %w", err)
	}
	if len(rows) == 0 {
		return map[string]string{}, nil
	}

	pkgCol, handleCol := -1, -1
	for i, name := range rows[0] {
		switch unpipe(name) {
		case "package":
			pkgCol = i
		case "handle":
			handleCol = i
		}
	}
	if pkgCol < 0 || handleCol < 0 {
		return nil, fmt.Errorf("handle mapping missing package/handle columns")
	}

	handles := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if pkgCol >= len(row) || handleCol >= len(row) {
			continue
		}
		pkg := unpipe(row[pkgCol])
		handle := unpipe(row[handleCol])
		if pkg == "" || handle == "" {
			continue
		}
		handles[pkg] = handle
	}

	return handles, nil
}

// unpipe strips the pipe quoting the mapping file uses instead of double
// quotes, which encoding/csv cannot be configured for.
func unpipe(s string) string {
	return strings.Trim(strings.TrimSpace(s), "|")
}
