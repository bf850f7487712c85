package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minaretapp/minaret/internal/constants"
	"github.com/minaretapp/minaret/internal/models"
)

// Place is the display-label result of a reverse geocode.
type Place struct {
	City    string
	Country string
}

// Geocoder resolves a coordinate into display labels. Best-effort: failures
// are transient and never block schedule computation.
type Geocoder interface {
	Reverse(ctx context.Context, coord models.Coordinate) (Place, error)
}

const nominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimClient implements Geocoder against a Nominatim-compatible service.
type NominatimClient struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// NewNominatimClient returns a client against the public Nominatim instance.
func NewNominatimClient() *NominatimClient {
	return &NominatimClient{
		BaseURL:    nominatimBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		UserAgent:  constants.AppName + "/" + constants.Version,
	}
}

type reverseResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"address"`
}

// Reverse looks up the city and country labels for a coordinate.
func (c *NominatimClient) Reverse(ctx context.Context, coord models.Coordinate) (Place, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", fmt.Sprintf("%f", coord.Latitude))
	q.Set("lon", fmt.Sprintf("%f", coord.Longitude))
	q.Set("zoom", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/reverse?%s", c.BaseURL, q.Encode()), nil)
	if err != nil {
		return Place{}, fmt.Errorf("building reverse geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return Place{}, fmt.Errorf("reverse geocoding: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return Place{}, fmt.Errorf("reverse geocode failed with status %d", res.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Place{}, fmt.Errorf("decoding reverse geocode response: %w", err)
	}

	city := body.Address.City
	if city == "" {
		city = body.Address.Town
	}
	if city == "" {
		city = body.Address.Village
	}
	if city == "" {
		city = body.Address.County
	}
	if city == "" {
		return Place{}, fmt.Errorf("reverse geocode returned no usable locality")
	}

	return Place{City: city, Country: body.Address.Country}, nil
}
