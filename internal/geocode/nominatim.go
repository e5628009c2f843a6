package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultNominatimBaseURL is the public OpenStreetMap Nominatim endpoint.
const DefaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim implements Geocoder against the OpenStreetMap Nominatim API.
// Nominatim's usage policy requires an identifying User-Agent on every
// request.
type Nominatim struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewNominatim(baseURL, userAgent string, timeout time.Duration) *Nominatim {
	if baseURL == "" {
		baseURL = DefaultNominatimBaseURL
	}
	return &Nominatim{
		baseURL:   baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forward resolves a free-text query (city, country, address) to the best
// matching place.
func (n *Nominatim) Forward(ctx context.Context, query string) (Place, error) {
	params := url.Values{
		"format": {"json"},
		"limit":  {"1"},
		"q":      {query},
	}

	var results []nominatimPlace
	if err := n.doRequest(ctx, n.baseURL+"/search?"+params.Encode(), &results); err != nil {
		return Place{}, err
	}
	if len(results) == 0 {
		return Place{}, ErrNotFound
	}
	return results[0].toPlace()
}

// Reverse resolves coordinates to the containing place.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	params := url.Values{
		"format": {"json"},
		"lat":    {fmt.Sprintf("%f", lat)},
		"lon":    {fmt.Sprintf("%f", lon)},
	}

	var result nominatimPlace
	if err := n.doRequest(ctx, n.baseURL+"/reverse?"+params.Encode(), &result); err != nil {
		return Place{}, err
	}
	if result.DisplayName == "" {
		return Place{}, ErrNotFound
	}
	return result.toPlace()
}

func (n *Nominatim) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Nominatim encodes coordinates as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (p nominatimPlace) toPlace() (Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse nominatim lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("parse nominatim lon %q: %w", p.Lon, err)
	}
	return Place{Lat: lat, Lon: lon, DisplayName: p.DisplayName}, nil
}
