package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCoords(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want orb.Point
		ok   bool
	}{
		{
			name: "standard map link",
			url:  "https://www.google.com/maps/@9.7313,100.0135,14z",
			want: orb.Point{100.0135, 9.7313},
			ok:   true,
		},
		{
			name: "negative coordinates",
			url:  "https://maps.example/@-33.8688,-151.2093,12z",
			want: orb.Point{-151.2093, -33.8688},
			ok:   true,
		},
		{name: "no coordinates", url: "https://www.google.com/maps/place/Bangkok/", ok: false},
		{name: "empty", url: "", ok: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pt, ok := ExtractCoords(tc.url)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, pt)
			}
		})
	}
}

func TestExtractPlaceSlug(t *testing.T) {
	assert.Equal(t, "Ko Pha-ngan", ExtractPlaceSlug("https://www.google.com/maps/place/Ko+Pha-ngan/data"))
	assert.Equal(t, "", ExtractPlaceSlug("https://www.google.com/maps"))
}

func TestClampRadius(t *testing.T) {
	assert.Equal(t, 10_000.0, ClampRadius(10))
	assert.Equal(t, 50_000.0, ClampRadius(80))
}

func TestGeocoder_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Ko Pha-ngan", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, `{"results":[{"geometry":{"location":{"lat":9.7313,"lng":100.0135}}}]}`)
	}))
	defer srv.Close()

	g := NewGeocoderWithBase("test-key", srv.URL)
	pt, err := g.Geocode(context.Background(), "Ko Pha-ngan")
	require.NoError(t, err)
	assert.Equal(t, orb.Point{100.0135, 9.7313}, pt)
}

func TestGeocoder_GeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	g := NewGeocoderWithBase("test-key", srv.URL)
	_, err := g.Geocode(context.Background(), "nowhere")
	require.ErrorIs(t, err, ErrNoLocation)
}

func TestGeocoder_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[{"geometry":{"location":{"lat":13.7563,"lng":100.5018}}}]}`)
	}))
	defer srv.Close()
	g := NewGeocoderWithBase("test-key", srv.URL)

	t.Run("map link coordinates win", func(t *testing.T) {
		pt, label, err := g.Resolve(context.Background(), "", "https://maps/@9.7313,100.0135,14z")
		require.NoError(t, err)
		assert.Equal(t, orb.Point{100.0135, 9.7313}, pt)
		assert.Equal(t, "Lat:9.7313,Lng:100.0135", label)
	})

	t.Run("region geocoded", func(t *testing.T) {
		pt, label, err := g.Resolve(context.Background(), "Bangkok", "")
		require.NoError(t, err)
		assert.Equal(t, orb.Point{100.5018, 13.7563}, pt)
		assert.Equal(t, "Bangkok", label)
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		_, _, err := g.Resolve(context.Background(), "", "")
		require.ErrorIs(t, err, ErrNoLocation)
	})
}
