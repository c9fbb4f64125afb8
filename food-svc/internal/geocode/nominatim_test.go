package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodhub/food-svc/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Autocomplete(t *testing.T) {
	var gotQuery, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("accept-language")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"display_name": "Sagrada Família, Barcelona", "lat": "41.4036", "lon": "2.1744"},
			{"display_name": "broken", "lat": "n/a", "lon": "2.1"}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	res, err := c.Autocomplete(context.Background(), "Sagrada", "es")
	require.NoError(t, err)
	assert.Equal(t, "Sagrada", gotQuery)
	assert.Equal(t, "es", gotLang)
	assert.Equal(t, []domain.PlaceSuggestion{{DisplayName: "Sagrada Família, Barcelona", Latitude: 41.4036, Longitude: 2.1744}}, res)
}

func TestClient_AutocompleteUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", srv.Client()).Autocomplete(context.Background(), "Sagrada", "en")
	assert.Error(t, err)
}
