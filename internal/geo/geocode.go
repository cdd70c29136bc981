// Package geo resolves the search center for a run, either by parsing
// coordinates out of a shared map link or by geocoding a region name.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// maxRadiusMeters is the largest radius the mapping provider accepts.
const maxRadiusMeters = 50_000

// ErrNoLocation indicates neither a map link nor a region produced a usable
// center point.
var ErrNoLocation = errors.New("could not determine coordinates")

var (
	coordsPattern    = regexp.MustCompile(`@(-?\d+\.\d+),(-?\d+\.\d+)`)
	placeSlugPattern = regexp.MustCompile(`/place/([^/]+)/`)
)

// ExtractCoords pulls a lat/lng pair out of a Google-Maps-style link.
func ExtractCoords(mapURL string) (orb.Point, bool) {
	m := coordsPattern.FindStringSubmatch(mapURL)
	if len(m) != 3 {
		return orb.Point{}, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lng, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return orb.Point{}, false
	}
	return orb.Point{lng, lat}, true
}

// ExtractPlaceSlug recovers a human-readable region name from a map link's
// /place/ path segment, when present.
func ExtractPlaceSlug(mapURL string) string {
	m := placeSlugPattern.FindStringSubmatch(mapURL)
	if len(m) != 2 {
		return ""
	}
	return strings.ReplaceAll(m[1], "+", " ")
}

// ClampRadius converts a kilometre radius into metres, capped at the
// provider maximum.
func ClampRadius(radiusKM float64) float64 {
	meters := radiusKM * 1000
	if meters > maxRadiusMeters {
		return maxRadiusMeters
	}
	return meters
}

// PointLabel renders a fallback region label when only coordinates are known.
func PointLabel(center orb.Point) string {
	return fmt.Sprintf("Lat:%.4f,Lng:%.4f", center.Lat(), center.Lon())
}

// Geocoder resolves region names to coordinates via the mapping provider's
// geocoding endpoint.
type Geocoder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGeocoder builds a Geocoder against the production endpoint.
func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:     apiKey,
		baseURL:    "https://maps.googleapis.com/maps/api/geocode/json",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewGeocoderWithBase builds a Geocoder against a custom endpoint, primarily
// for tests.
func NewGeocoderWithBase(apiKey, baseURL string) *Geocoder {
	g := NewGeocoder(apiKey)
	g.baseURL = baseURL
	return g
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a region name to a center point.
func (g *Geocoder) Geocode(ctx context.Context, region string) (orb.Point, error) {
	params := url.Values{}
	params.Set("address", region)
	params.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return orb.Point{}, fmt.Errorf("build geocode request: %w", err)
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("geocode %q: %w", region, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("geocode %q: unexpected status %s", region, resp.Status)
	}
	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return orb.Point{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Results) == 0 {
		return orb.Point{}, fmt.Errorf("geocode %q: %w", region, ErrNoLocation)
	}
	loc := decoded.Results[0].Geometry.Location
	return orb.Point{loc.Lng, loc.Lat}, nil
}

// Resolve determines the run's center point and region label from the given
// inputs. A map link with embedded coordinates wins; otherwise the region
// (or the map link's place slug) is geocoded.
func (g *Geocoder) Resolve(ctx context.Context, region, mapURL string) (orb.Point, string, error) {
	if pt, ok := ExtractCoords(mapURL); ok {
		label := region
		if label == "" {
			label = PointLabel(pt)
		}
		return pt, label, nil
	}
	if region == "" {
		region = ExtractPlaceSlug(mapURL)
	}
	if region == "" {
		return orb.Point{}, "", ErrNoLocation
	}
	pt, err := g.Geocode(ctx, region)
	if err != nil {
		return orb.Point{}, "", err
	}
	return pt, region, nil
}
