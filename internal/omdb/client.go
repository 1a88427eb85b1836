// Package omdb is a client for an OMDb-compatible metadata API. It maps
// upstream records into our internal media model: "N/A" markers become empty
// strings, search results are deduplicated by imdb id, and the upstream
// 10-item pagination is walked transparently.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/habbababbai/entertainment-tracker/internal/common"
	"github.com/habbababbai/entertainment-tracker/internal/server/models"
)

// maxSearchPages caps how many upstream pages a single search walks. Pages
// hold 10 items; anything past the first few pages is noise the mobile
// client never shows, and an uncapped loop would let one query fan out into
// hundreds of upstream calls.
const maxSearchPages = 3

// omdbErrNotFound is the in-band reason OMDb gives for a title with no
// results; it is also what pages past the end of a result set report.
const omdbErrNotFound = "Movie not found!"

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// searchEnvelope mirrors the OMDb search response. OMDb reports failures
// in-band: Response is the string "False" and Error holds the reason.
type searchEnvelope struct {
	Search       []searchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

type searchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type detailEnvelope struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Genre      string `json:"Genre"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Search queries the provider by title and returns the merged, deduplicated
// result set in first-seen order. An upstream "not found" answer is an empty
// slice, not an error.
func (c *Client) Search(ctx context.Context, title string) ([]*models.MediaItem, error) {
	if title == "" {
		return nil, common.ErrorValidation
	}

	seen := make(map[string]struct{})
	items := make([]*models.MediaItem, 0)
	total := -1

	for page := 1; page <= maxSearchPages; page++ {
		var envelope searchEnvelope
		params := url.Values{"s": {title}, "page": {strconv.Itoa(page)}}
		if err := c.get(ctx, params, &envelope); err != nil {
			return nil, err
		}

		if envelope.Response != "True" {
			// "Movie not found!" is a genuine empty page: no results for
			// this title, or the walk ran off the last page. Any other
			// in-band reason ("Too many results.", "Invalid API key!") is
			// an upstream failure and must not look like an empty result.
			if envelope.Error == omdbErrNotFound {
				break
			}
			return nil, fmt.Errorf("upstream error: %s", envelope.Error)
		}

		if total < 0 {
			// totalResults arrives as a string; on a malformed value keep
			// paging until maxSearchPages.
			if n, err := strconv.Atoi(envelope.TotalResults); err == nil {
				total = n
			}
		}

		for _, item := range envelope.Search {
			if item.ImdbID == "" {
				continue
			}
			if _, ok := seen[item.ImdbID]; ok {
				continue
			}
			seen[item.ImdbID] = struct{}{}
			items = append(items, &models.MediaItem{
				ImdbID:    item.ImdbID,
				Title:     normalize(item.Title),
				Year:      normalize(item.Year),
				Type:      normalize(item.Type),
				PosterURL: normalize(item.Poster),
			})
		}

		if total >= 0 && page*10 >= total {
			break
		}
	}

	return items, nil
}

// Detail looks a single record up by imdb id. An upstream "not found" maps
// to common.ErrorNotFound.
func (c *Client) Detail(ctx context.Context, imdbID string) (*models.MediaItem, error) {
	if imdbID == "" {
		return nil, common.ErrorValidation
	}

	var envelope detailEnvelope
	params := url.Values{"i": {imdbID}, "plot": {"short"}}
	if err := c.get(ctx, params, &envelope); err != nil {
		return nil, err
	}

	if envelope.Response != "True" {
		return nil, common.ErrorNotFound
	}

	return &models.MediaItem{
		ImdbID:     envelope.ImdbID,
		Title:      normalize(envelope.Title),
		Year:       normalize(envelope.Year),
		Type:       normalize(envelope.Type),
		PosterURL:  normalize(envelope.Poster),
		Plot:       normalize(envelope.Plot),
		Genre:      normalize(envelope.Genre),
		Runtime:    normalize(envelope.Runtime),
		ImdbRating: normalize(envelope.ImdbRating),
	}, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("metadata provider error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata provider error: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("metadata provider error: %w", err)
	}

	return nil
}

// normalize maps the provider's "N/A" marker to an empty string.
func normalize(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}
