// Package sheets appends rows to a Google spreadsheet through the Sheets v4
// REST API, authenticated as a service account.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "https://sheets.googleapis.com"
	DefaultRange   = "A1"
	defaultTimeout = 8 * time.Second
	maxErrorBody   = 2048
)

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sheets: append: status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	spreadsheetID string
	rng           string
	baseURL       string
	http          *http.Client
	log           *zap.Logger
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the client used for requests. In production this is the
// oauth2 client returned by Credentials.HTTPClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRange sets the A1 range rows are appended after. The default targets
// the first sheet.
func WithRange(r string) Option {
	return func(c *Client) {
		if r != "" {
			c.rng = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func NewClient(spreadsheetID string, opts ...Option) *Client {
	c := &Client{
		spreadsheetID: spreadsheetID,
		rng:           DefaultRange,
		baseURL:       DefaultBaseURL,
		http:          &http.Client{Timeout: defaultTimeout},
		log:           zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type appendRequest struct {
	MajorDimension string     `json:"majorDimension"`
	Values         [][]string `json:"values"`
}

type appendResponse struct {
	Updates struct {
		UpdatedRange string `json:"updatedRange"`
		UpdatedRows  int    `json:"updatedRows"`
	} `json:"updates"`
}

// AppendRow inserts one row below the last row of the table at the range.
func (c *Client) AppendRow(ctx context.Context, row []string) error {
	payload, err := json.Marshal(appendRequest{MajorDimension: "ROWS", Values: [][]string{row}})
	if err != nil {
		return eris.Wrap(err, "sheets: marshal row")
	}

	query := url.Values{}
	query.Set("valueInputOption", "USER_ENTERED")
	query.Set("insertDataOption", "INSERT_ROWS")
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?%s",
		c.baseURL, url.PathEscape(c.spreadsheetID), url.PathEscape(c.rng), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "sheets: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "sheets: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "sheets: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out appendResponse
	if err := json.Unmarshal(body, &out); err == nil {
		c.log.Debug("sheets: row appended",
			zap.String("range", out.Updates.UpdatedRange),
			zap.Int("rows", out.Updates.UpdatedRows),
		)
	}
	return nil
}
