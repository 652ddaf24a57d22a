package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/logger"
)

var _ driven.PaperCatalogue = (*Client)(nil)

// DefaultAPIURL is the arXiv query endpoint.
const DefaultAPIURL = "http://export.arxiv.org/api/query"

// Client queries the arXiv Atom API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	limiter    *RateLimiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithAPIURL points the client at another endpoint.
func WithAPIURL(u string) ClientOption {
	return func(c *Client) { c.apiURL = u }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimiter replaces the default three-second limiter.
func WithRateLimiter(l *RateLimiter) ClientOption {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates an arXiv API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		apiURL:     DefaultAPIURL,
		limiter:    NewRateLimiter(DefaultInterval),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type feed struct {
	TotalResults int     `xml:"totalResults"`
	Entries      []entry `xml:"entry"`
}

type entry struct {
	ID        string `xml:"id"`
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	Updated   string `xml:"updated"`
	Authors   []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href  string `xml:"href,attr"`
		Rel   string `xml:"rel,attr"`
		Type  string `xml:"type,attr"`
		Title string `xml:"title,attr"`
	} `xml:"link"`
	PrimaryCategory struct {
		Term string `xml:"term,attr"`
	} `xml:"primary_category"`
	Categories []struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// Search pages through the results of q, newest submission first.
func (c *Client) Search(ctx context.Context, q domain.PaperQuery) ([]domain.Paper, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, fmt.Errorf("%w: empty arXiv query", domain.ErrInvalidInput)
	}
	pageSize := q.PageSize
	if pageSize <= 0 || pageSize > domain.ArxivMaxPageSize {
		pageSize = domain.ArxivMaxPageSize
	}

	var papers []domain.Paper
	for start := 0; ; start += pageSize {
		want := pageSize
		if q.MaxPapers > 0 {
			want = min(pageSize, q.MaxPapers-len(papers))
			if want <= 0 {
				break
			}
		}

		logger.Debug("arxiv: fetching results %d to %d", start, start+want)
		page, err := c.fetchPage(ctx, q, start, want)
		if err != nil {
			return papers, err
		}
		for _, e := range page.Entries {
			papers = append(papers, toPaper(e))
		}
		if len(page.Entries) < want || start+len(page.Entries) >= page.TotalResults {
			break
		}
	}
	if q.MaxPapers > 0 && len(papers) > q.MaxPapers {
		papers = papers[:q.MaxPapers]
	}
	return papers, nil
}

func (c *Client) fetchPage(ctx context.Context, q domain.PaperQuery, start, maxResults int) (*feed, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search_query", searchQuery(q))
	params.Set("start", strconv.Itoa(start))
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv query: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		c.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		return nil, fmt.Errorf("%w: arxiv returned status %d", domain.ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("arxiv returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}
	return &f, nil
}

// searchQuery adds the submission date range to the user's query.
func searchQuery(q domain.PaperQuery) string {
	if q.StartDate.IsZero() && q.EndDate.IsZero() {
		return q.Query
	}
	start, end := "*", "*"
	if !q.StartDate.IsZero() {
		start = q.StartDate.UTC().Format("20060102") + "0000"
	}
	if !q.EndDate.IsZero() {
		end = q.EndDate.UTC().Format("20060102") + "2359"
	}
	return fmt.Sprintf("%s AND submittedDate:[%s TO %s]", q.Query, start, end)
}

func toPaper(e entry) domain.Paper {
	p := domain.Paper{
		ID:      PaperID(e.ID),
		Title:   collapse(e.Title),
		Summary: collapse(e.Summary),
	}
	p.Published, _ = time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
	p.Updated, _ = time.Parse(time.RFC3339, strings.TrimSpace(e.Updated))
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}

	p.Category = e.PrimaryCategory.Term
	if p.Category == "" && len(e.Categories) > 0 {
		p.Category = e.Categories[0].Term
	}

	for _, l := range e.Links {
		if l.Title == "pdf" || (l.Rel == "alternate" && l.Type == "application/pdf") {
			p.PDFURL = l.Href
			break
		}
	}
	return p
}

// PaperID extracts "2501.01234v1" from "http://arxiv.org/abs/2501.01234v1".
func PaperID(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.Index(raw, "/abs/"); i >= 0 {
		return raw[i+len("/abs/"):]
	}
	return raw
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func retryAfter(h string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
