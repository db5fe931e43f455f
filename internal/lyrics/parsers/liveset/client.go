package liveset

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/liveset/internal/logger"
)

// DefaultBaseURL is the WorshipBuddy live set API root
const DefaultBaseURL = "https://api.worshipbuddy.org/liveset/V2"

var (
	ErrInvalidSetNumber = errors.New("invalid set number")
	ErrRequest          = errors.New("set request failed")
	ErrStatus           = errors.New("unexpected set response status")
	ErrDecode           = errors.New("invalid set response")
)

// Client represents the HTTP client for live set requests
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new live set HTTP client. An empty baseURL falls
// back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	return NewClientWithHTTP(baseURL, &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
				MaxVersion: tls.VersionTLS13,
			},
			DisableCompression: false,
		},
	})
}

// NewClientWithHTTP creates a client on top of an existing http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "liveset/1.0",
	}
}

// SetURL returns the data URL of the given set
func (c *Client) SetURL(setNumber string) string {
	return fmt.Sprintf("%s/S%s/data", c.baseURL, url.PathEscape(setNumber))
}

// FetchSet downloads and decodes the whole set envelope. Songs are only
// returned when the complete response decoded.
func (c *Client) FetchSet(ctx context.Context, setNumber string) (*SetContent, error) {
	setNumber = strings.TrimSpace(setNumber)
	if !isValidSetNumber(setNumber) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSetNumber, setNumber)
	}

	fetchURL := c.SetURL(setNumber)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create HTTP request\nURL: %s\nError: %v", fetchURL, err))
		return nil, fmt.Errorf("%w: create request: %v", ErrRequest, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to fetch set\nURL: %s\nError: %v", fetchURL, err))
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error(fmt.Sprintf("HTTP error fetching set\nURL: %s\nStatus: %d", fetchURL, resp.StatusCode))
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var reader io.Reader = resp.Body

	// Handle gzip decompression
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			logger.Error(fmt.Sprintf("Failed to create gzip reader\nURL: %s\nError: %v", fetchURL, err))
			return nil, fmt.Errorf("%w: gzip: %w", ErrDecode, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	content, err := decodeSetContent(reader)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to decode set\nURL: %s\nError: %v", fetchURL, err))
		return nil, err
	}

	return content, nil
}

// decodeSetContent decodes the envelope as a unit and checks its shape.
// Any malformed entry fails the whole set.
func decodeSetContent(r io.Reader) (*SetContent, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrDecode, err)
	}

	var envelope struct {
		SetData *[]json.RawMessage `json:"set_data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if envelope.SetData == nil {
		return nil, fmt.Errorf("%w: missing set_data", ErrDecode)
	}

	songs := make([]SongInSet, 0, len(*envelope.SetData))
	for i, entry := range *envelope.SetData {
		var song SongInSet
		if err := json.Unmarshal(entry, &song); err != nil {
			return nil, fmt.Errorf("%w: set_data[%d]: %w", ErrDecode, i, err)
		}
		songs = append(songs, song)
	}
	return &SetContent{SetData: songs}, nil
}

func isValidSetNumber(setNumber string) bool {
	if setNumber == "" {
		return false
	}
	for _, r := range setNumber {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
