package speciesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mspro-labs/wildlife-finder/internal/models"
)

// DefaultBaseURL is the Queensland wildlife data endpoint.
const DefaultBaseURL = "https://apps.des.qld.gov.au/species/"

const (
	opSpeciesList      = "getspecieslist"
	opSurveysBySpecies = "getsurveysbyspecies"
	kingdomAnimals     = "animals"
)

// Client talks to the species sighting web service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns an instrumented HTTP client. A zero timeout means no limit.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// NewClient creates a client for baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// SpeciesList returns the animal species recorded within radius metres of coord.
func (c *Client) SpeciesList(ctx context.Context, coord models.Coordinate, radius int) ([]models.Species, error) {
	q := url.Values{}
	q.Set("op", opSpeciesList)
	q.Set("kingdom", kingdomAnimals)
	q.Set("circle", circle(coord, radius))

	var resp speciesListResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, fmt.Errorf("get species list: %w", err)
	}
	return resp.species(), nil
}

// SurveysBySpecies returns the survey records for taxonID within radius metres of coord.
func (c *Client) SurveysBySpecies(ctx context.Context, coord models.Coordinate, radius, taxonID int) ([]models.Sighting, error) {
	q := url.Values{}
	q.Set("op", opSurveysBySpecies)
	q.Set("taxonid", strconv.Itoa(taxonID))
	q.Set("circle", circle(coord, radius))

	var resp surveysResponse
	if err := c.get(ctx, q, &resp); err != nil {
		return nil, fmt.Errorf("get surveys for taxon %d: %w", taxonID, err)
	}
	return resp.sightings(), nil
}

func circle(coord models.Coordinate, radius int) string {
	return strconv.FormatFloat(coord.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(coord.Longitude, 'f', -1, 64) + "," +
		strconv.Itoa(radius)
}

func (c *Client) get(ctx context.Context, q url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url %q: %w", c.baseURL, err)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Requesting species data", "op", q.Get("op"), "url", endpoint.String())
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	slog.Debug("Received species data", "op", q.Get("op"), "status", resp.StatusCode,
		"bytes", len(body), "dur_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
