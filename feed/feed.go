// Package feed reads the remote tab-separated citations feed and the
// package-to-handle mapping table.
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

// Reader fetches and parses the citations feed.
type Reader struct {
	url    string
	client *http.Client
}

func NewReader(url string) *Reader {
	return &Reader{
		url:    url,
		client: http.DefaultClient,
	}
}

// Read fetches the feed and returns its records in feed order. The literal
// token "NA" in any cell is normalized to an absent field. Records missing
// the required citation or name column fail with a DataError.
func (r *Reader) Read(ctx context.Context) ([]models.CitationRecord, error) {
	log.WithFields(log.Fields{
		"url": r.url,
	}).Info("Fetching citations feed")

	body, err := fetch(ctx, r.client, r.url)
	if err != nil {
		return nil, &models.TransientError{Op: "fetch citations feed", Err: err}
	}
	defer body.Close()

	records, err := parseFeed(body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"records": len(records),
	}).Info("Parsed citations feed")

	return records, nil
}

func fetch(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return resp.Body, nil
}

func parseFeed(r io.Reader) ([]models.CitationRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed feed: %w", err)
	}
	if len(rows) == 0 {
		return nil, &models.DataError{Msg: "feed has no header row"}
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"citation", "name"} {
		if _, ok := columns[required]; !ok {
			return nil, &models.DataError{Field: required, Msg: "column missing from feed header"}
		}
	}

	cell := func(row []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(row) {
			return ""
		}
		value := strings.TrimSpace(row[i])
		if value == "NA" {
			return ""
		}
		return value
	}

	var records []models.CitationRecord
	for _, row := range rows[1:] {
		record := models.CitationRecord{
			Citation:        cell(row, "citation"),
			Name:            cell(row, "name"),
			DOI:             cell(row, "doi"),
			ResearchSnippet: cell(row, "research_snippet"),
			ImagePath:       cell(row, "img_path"),
		}
		if record.Citation == "" {
			return nil, &models.DataError{Field: "citation", Msg: "required field missing"}
		}
		if record.Name == "" {
			return nil, &models.DataError{Field: "name", Msg: "required field missing"}
		}
		records = append(records, record)
	}

	return records, nil
}
