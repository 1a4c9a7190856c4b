package nara

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"time"

	"archivist/internal/config"
	"archivist/internal/services"
)

// HTTPDoer describes the HTTP client used by the catalog service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the NARA catalog API and object store.
type Client struct {
	baseURL   string
	userAgent string
	doer      HTTPDoer
}

// NewClient constructs a catalog client from application configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Fetch.DownloadTimeout) * time.Second
	return &Client{
		baseURL:   cfg.Fetch.BaseURL,
		userAgent: cfg.Fetch.UserAgent,
		doer:      &http.Client{Timeout: timeout},
	}
}

// NewClientWithDoer constructs a catalog client with an injected HTTP client
// (used in tests).
func NewClientWithDoer(baseURL, userAgent string, doer HTTPDoer) *Client {
	return &Client{baseURL: baseURL, userAgent: userAgent, doer: doer}
}

var naidPattern = regexp.MustCompile(`/id/(\d+)`)

// ExtractNAID pulls the numeric archive identifier out of a catalog URL such
// as https://catalog.archives.gov/id/178788901.
func ExtractNAID(catalogURL string) (string, error) {
	match := naidPattern.FindStringSubmatch(catalogURL)
	if match == nil {
		return "", services.Wrap(services.ErrValidation, "nara", "extract naid",
			fmt.Sprintf("no /id/<naid> segment in %q", catalogURL), nil)
	}
	return match[1], nil
}

// DigitalObject is one downloadable page image attached to a catalog record.
type DigitalObject struct {
	URL      string `json:"objectUrl"`
	Filename string `json:"objectFilename"`
}

type searchResponse struct {
	Body struct {
		Hits struct {
			Hits []struct {
				Source struct {
					Record struct {
						DigitalObjects []DigitalObject `json:"digitalObjects"`
					} `json:"record"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	} `json:"body"`
}

// Lookup fetches a record's digital object list from the catalog search API.
func (c *Client) Lookup(ctx context.Context, naid string) ([]DigitalObject, error) {
	searchURL := fmt.Sprintf("%s/proxy/records/search?naId=%s", c.baseURL, naid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build record request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "nara", "fetch record", naid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, services.Wrap(services.ErrTransient, "nara", "fetch record",
			fmt.Sprintf("%s returned status %d", naid, resp.StatusCode), nil)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, services.Wrap(services.ErrTransient, "nara", "decode record", naid, err)
	}

	hits := parsed.Body.Hits.Hits
	if len(hits) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "nara", "fetch record",
			fmt.Sprintf("no record found for naid %s", naid), nil)
	}
	return hits[0].Source.Record.DigitalObjects, nil
}

// Download streams an object to path. A non-200 response is reported as an
// error without creating the file.
func (c *Client) Download(ctx context.Context, objectURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, objectURL, nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", objectURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", objectURL, resp.StatusCode)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
