package questions

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/interview-agent/internal/interview"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	userAgent       = "spigell/interview-agent"
	questionsPath   = "/questions"
	// Upper bound of a single page requested from the service.
	maxPerPage = 50
)

// ItemResponse is one page of the question service listing.
type ItemResponse struct {
	Items   []interview.Candidate `json:"items"`
	Found   int                   `json:"found"`
	Pages   int                   `json:"pages"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

// Client reads questions from a remote question service:
// GET <base>/questions?category=<name>&per_page=<n>&page=<p>.
type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	BaseURL    string
}

// NewClient returns a Client. token may be empty.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		token:   token,
		logger:  logger,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: userAgent,
	}
}

// QuestionsByCategory follows pages until limit questions are collected or
// the listing ends.
func (c *Client) QuestionsByCategory(ctx context.Context, category string, limit int) ([]interview.Candidate, error) {
	perPage := limit
	if perPage <= 0 || perPage > maxPerPage {
		perPage = maxPerPage
	}

	q := url.Values{}
	q.Set("category", category)
	q.Set("per_page", strconv.Itoa(perPage))

	items := make([]interview.Candidate, 0, perPage)
	for page := 0; ; page++ {
		q.Set("page", strconv.Itoa(page))

		var response ItemResponse
		if err := c.getJSON(ctx, c.BaseURL+questionsPath, q, &response); err != nil {
			return nil, fmt.Errorf("get questions for %q: %w", category, err)
		}

		items = append(items, response.Items...)
		if limit > 0 && len(items) >= limit {
			return items[:limit], nil
		}

		if response.Page >= response.Pages-1 || len(response.Items) == 0 {
			break
		}

		c.logger.Debug("additional request needed", zap.String("reason", fmt.Sprintf(
			"current page (%d) < all page count (%d)", response.Page+1, response.Pages),
		))
	}

	return items, nil
}

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	var gzipReader *gzip.Reader
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(data, target); err != nil {
		return err
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
