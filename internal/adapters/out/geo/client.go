// Package geo is the HTTP client of the geocoding and directions collaborator.
//
//	GET {base}/geocode?address=...                      -> {"lat": 12.97, "lng": 77.59}
//	GET {base}/directions?origin=lat,lng&destination=... -> {"distance_meters": 3100, "duration_seconds": 540}
//
// Every failure is returned wrapped in ports.ErrGeoLookupFailed.
package geo

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

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 1 << 20

// Client implements ports.Geocoder and ports.DirectionsProvider.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient builds a client for baseURL. Timeouts come from the caller's
// context; httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse geo base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("geo base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

type geocodeResponse struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type directionsResponse struct {
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	var body geocodeResponse
	if err := c.get(ctx, "/geocode", url.Values{"address": {address}}, &body); err != nil {
		return kernel.GeoPoint{}, err
	}
	if body.Lat == nil || body.Lng == nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: geocode response without coordinates", ports.ErrGeoLookupFailed)
	}

	point, err := kernel.NewGeoPoint(*body.Lat, *body.Lng)
	if err != nil {
		return kernel.GeoPoint{}, fmt.Errorf("%w: %w", ports.ErrGeoLookupFailed, err)
	}
	return point, nil
}

func (c *Client) Route(ctx context.Context, origin, destination kernel.GeoPoint) (ports.Route, error) {
	var body directionsResponse
	err := c.get(ctx, "/directions", url.Values{
		"origin":      {formatPoint(origin)},
		"destination": {formatPoint(destination)},
	}, &body)
	if err != nil {
		return ports.Route{}, err
	}
	if body.DistanceMeters < 0 || body.DurationSeconds < 0 {
		return ports.Route{}, fmt.Errorf("%w: negative route %v m / %v s",
			ports.ErrGeoLookupFailed, body.DistanceMeters, body.DurationSeconds)
	}

	return ports.Route{
		DistanceKm: body.DistanceMeters / 1000,
		Duration:   time.Duration(body.DurationSeconds * float64(time.Second)).Round(time.Second),
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrGeoLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrGeoLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: %s returned %d", ports.ErrGeoLookupFailed, path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ports.ErrGeoLookupFailed, path, err)
	}
	return nil
}

func formatPoint(p kernel.GeoPoint) string {
	return strconv.FormatFloat(p.Lat(), 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng(), 'f', -1, 64)
}
