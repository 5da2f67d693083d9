package speciesapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/wildlife-finder/internal/models"
)

var cairns = models.Coordinate{Latitude: -16.9186, Longitude: 145.7781}

// newTestServer serves body with status and records the last query string.
func newTestServer(t *testing.T, status int, contentType, body string) (*httptest.Server, *url.Values) {
	t.Helper()
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestSpeciesListEncodesQueryAndDefaultsFields(t *testing.T) {
	body := `{
	  "SpeciesSightingSummariesContainer": {
	    "SpeciesSightingSummary": [
	      {"Species": {"AcceptedCommonName": "eastern brown snake", "PestStatus": "Venomous", "TaxonID": 1234}},
	      {"Species": {"TaxonID": 99}},
	      {}
	    ]
	  }
	}`
	srv, q := newTestServer(t, http.StatusOK, "application/json", body)

	got, err := NewClient(srv.URL, srv.Client()).SpeciesList(context.Background(), cairns, 100000)
	require.NoError(t, err)

	assert.Equal(t, "getspecieslist", q.Get("op"))
	assert.Equal(t, "animals", q.Get("kingdom"))
	assert.Equal(t, "-16.9186,145.7781,100000", q.Get("circle"))
	assert.Empty(t, q.Get("taxonid"))

	assert.Equal(t, []models.Species{
		{CommonName: "eastern brown snake", PestStatus: "Venomous", TaxonID: 1234},
		{CommonName: "Unknown", PestStatus: "Nil", TaxonID: 99},
		{CommonName: "Unknown", PestStatus: "Nil"},
	}, got)
}

func TestSpeciesListMissingContainerIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"no container": `{}`,
		"no summaries": `{"SpeciesSightingSummariesContainer": {}}`,
		"null list":    `{"SpeciesSightingSummariesContainer": {"SpeciesSightingSummary": null}}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, "application/json", body)
			got, err := NewClient(srv.URL, srv.Client()).SpeciesList(context.Background(), cairns, 10)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestSpeciesListSingleObject(t *testing.T) {
	body := `{"SpeciesSightingSummariesContainer": {"SpeciesSightingSummary":
	  {"Species": {"AcceptedCommonName": "cassowary", "PestStatus": "Nil", "TaxonID": 7}}}}`
	srv, _ := newTestServer(t, http.StatusOK, "application/json", body)

	got, err := NewClient(srv.URL, srv.Client()).SpeciesList(context.Background(), cairns, 10)
	require.NoError(t, err)
	assert.Equal(t, []models.Species{{CommonName: "cassowary", PestStatus: "Nil", TaxonID: 7}}, got)
}

func TestSurveysBySpecies(t *testing.T) {
	body := `{"type": "FeatureCollection", "features": [
	  {"properties": {"StartDate": "2023-02-01", "LocalityDetails": "Edge Hill", "SiteCode": "INCIDENTAL"}},
	  {"properties": {"StartDate": "2023-01-01", "LocalityDetails": "Site 4", "SiteCode": "S4"}}
	]}`
	srv, q := newTestServer(t, http.StatusOK, "application/json", body)

	got, err := NewClient(srv.URL, srv.Client()).SurveysBySpecies(context.Background(), cairns, 100000, 860)
	require.NoError(t, err)

	assert.Equal(t, "getsurveysbyspecies", q.Get("op"))
	assert.Equal(t, "860", q.Get("taxonid"))
	assert.Equal(t, "-16.9186,145.7781,100000", q.Get("circle"))

	assert.Equal(t, []models.Sighting{
		{StartDate: "2023-02-01", Locality: "Edge Hill", SiteCode: "INCIDENTAL"},
		{StartDate: "2023-01-01", Locality: "Site 4", SiteCode: "S4"},
	}, got)
}

func TestSurveysBySpeciesNoFeatures(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "application/json", `{"type": "FeatureCollection"}`)

	got, err := NewClient(srv.URL, srv.Client()).SurveysBySpecies(context.Background(), cairns, 10, 1)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNonSuccessStatusReturnsStatusError(t *testing.T) {
	html := `<html><head><title>503 Service Unavailable</title></head><body><h1>Down</h1></body></html>`
	srv, _ := newTestServer(t, http.StatusServiceUnavailable, "text/html", html)

	_, err := NewClient(srv.URL, srv.Client()).SpeciesList(context.Background(), cairns, 10)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "503 Service Unavailable", se.Message)
}

func TestMalformedJSONReturnsError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, "application/json", `{"features": [`)

	_, err := NewClient(srv.URL, srv.Client()).SurveysBySpecies(context.Background(), cairns, 10, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestNetworkFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewClient(base, nil).SpeciesList(context.Background(), cairns, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestErrorMessage(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		body        string
		expected    string
	}{
		{"empty", "text/plain", "  ", ""},
		{"plain text", "text/plain", "rate   limited\n", "rate limited"},
		{"html title", "text/html", "<html><title> Bad Gateway </title></html>", "Bad Gateway"},
		{"html heading only", "", "<html><body><h1>Oops</h1></body></html>", "Oops"},
	}

	for _, tc := range testCases {
		if got := errorMessage(tc.contentType, []byte(tc.body)); got != tc.expected {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.expected, got)
		}
	}
}

func TestNewHTTPClientIsInstrumented(t *testing.T) {
	srv, q := newTestServer(t, http.StatusOK, "application/json", `{"features": []}`)

	hc := NewHTTPClient(5 * time.Second)
	assert.Equal(t, 5*time.Second, hc.Timeout)
	assert.NotEqual(t, http.DefaultTransport, hc.Transport)

	got, err := NewClient(srv.URL, hc).SurveysBySpecies(context.Background(), cairns, 10, 42)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "42", q.Get("taxonid"))
}

func TestErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	body := strings.Repeat("a", 199) + "é" + "zzz"

	got := errorMessage("text/plain", []byte(body))

	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", 199) + "é..."; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := errorMessage("text/plain", []byte("héllo")); got != "héllo" {
		t.Errorf("short message changed: %q", got)
	}
}
