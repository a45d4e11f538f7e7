package causelist

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for upstream failures. Callers distinguish transport
// problems from unparseable payloads with errors.Is.
var (
	ErrUnavailable = errors.New("upstream unavailable")
	ErrMalformed   = errors.New("upstream payload malformed")
)

// Client retrieves cause-list data from the court's public endpoints. It
// performs single retrievals with a bounded timeout; retry policy belongs to
// the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for the given base URL. The upstream serves
// an expired certificate chain, so insecureTLS mirrors the source's
// disabled verification when set.
func NewClient(baseURL string, timeout time.Duration, insecureTLS bool) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := http.DefaultTransport
	if insecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// FetchCauseList retrieves the full cause-list document for a date. Exactly
// one HTTP request is made; it fails with ErrUnavailable on network or
// timeout errors and ErrMalformed when the payload does not parse.
func (c *Client) FetchCauseList(ctx context.Context, date time.Time) (Document, error) {
	url := fmt.Sprintf("%s/api/result.php?file=%s", c.baseURL, causeFileName(date, "xml"))

	body, err := c.get(ctx, url)
	if err != nil {
		return Document{}, err
	}

	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return Document{
		Date:    date.Format("2006-01-02"),
		Entries: entries,
		Raw:     body,
	}, nil
}

// AvailableDates returns the dates for which the upstream has published
// cause lists, as YYYY-MM-DD strings.
func (c *Client) AvailableDates(ctx context.Context) ([]string, error) {
	url := c.baseURL + "/api/getDate.php?toc=1"

	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var items []struct {
		Doc string `json:"doc"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	dates := make([]string, 0, len(items))
	for _, item := range items {
		if d := strings.TrimSpace(item.Doc); d != "" {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

// FetchPDF downloads the published PDF cause list for a date. Used as a
// fallback when the JSON endpoint has no records.
func (c *Client) FetchPDF(ctx context.Context, date time.Time) ([]byte, error) {
	url := fmt.Sprintf("%s/causelists/pdf/%s", c.baseURL, causeFileName(date, "pdf"))
	return c.get(ctx, url)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from %s", ErrUnavailable, resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return body, nil
}

// causeFileName renders the upstream's cause_DDMMYYYY.<ext> naming.
func causeFileName(date time.Time, ext string) string {
	return fmt.Sprintf("cause_%s.%s", date.Format("02012006"), ext)
}
