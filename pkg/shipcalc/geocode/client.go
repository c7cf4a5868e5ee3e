package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/logger"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public Nominatim instance
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
	// DefaultAttempts is the total number of lookups per Geocode call
	DefaultAttempts = 3
	// UserAgent identifies the client to the upstream service
	UserAgent = "shipping-calculator"

	defaultTimeout = 10 * time.Second
)

// Geocoder resolves a free text address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, address string) (dal.Coordinates, error)
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Contact    string
	Attempts   int
	RetryDelay time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Client is a Nominatim backed Geocoder
type Client struct {
	baseURL    string
	userAgent  string
	attempts   int
	retryDelay time.Duration
	http       *http.Client
	log        logrus.FieldLogger
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// New returns a new Client
func New(opts Options) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  userAgent(opts.Contact),
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
		http:       opts.HTTPClient,
		log:        opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.attempts < 1 {
		c.attempts = DefaultAttempts
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	return c
}

func userAgent(contact string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return UserAgent
	}
	return fmt.Sprintf("%s (%s)", UserAgent, contact)
}

// Geocode looks the address up, retrying every failure until the attempts are used up.
// The error of the last attempt is returned as is.
func (c *Client) Geocode(ctx context.Context, address string) (dal.Coordinates, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return dal.Coordinates{}, err
		}

		coords, err := c.search(ctx, address)
		if err == nil {
			return coords, nil
		}
		lastErr = err

		c.log.WithFields(logrus.Fields{
			"address": address,
			"attempt": attempt,
			"of":      c.attempts,
		}).WithError(err).Debug("geocode attempt failed")

		if attempt < c.attempts && c.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return dal.Coordinates{}, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}

	if lastErr == nil {
		lastErr = ErrGeocode
	}
	c.log.WithFields(logrus.Fields{
		"address":  address,
		"attempts": c.attempts,
	}).WithError(lastErr).Warn("geocoding gave up")
	return dal.Coordinates{}, lastErr
}

func (c *Client) search(ctx context.Context, address string) (dal.Coordinates, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return dal.Coordinates{}, &TransportError{Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return dal.Coordinates{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return dal.Coordinates{}, &TransportError{StatusCode: resp.StatusCode}
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return dal.Coordinates{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(results) == 0 {
		return dal.Coordinates{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return dal.Coordinates{}, fmt.Errorf("%w: lat %q", ErrMalformed, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return dal.Coordinates{}, fmt.Errorf("%w: lon %q", ErrMalformed, results[0].Lon)
	}
	return dal.Coordinates{Latitude: lat, Longitude: lon}, nil
}
