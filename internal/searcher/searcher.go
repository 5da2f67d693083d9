package searcher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"mspro-labs/wildlife-finder/internal/models"
)

// DefaultRadius is the search radius in metres around a city.
const DefaultRadius = 100000

// VenomousStatus is the pest status value FilterVenomous keeps.
const VenomousStatus = "Venomous"

// ErrUnknownCity is returned when the geocoder has no coordinate for a city.
var ErrUnknownCity = errors.New("no GPS coordinates found")

// Geocoder resolves a city name to a coordinate.
type Geocoder interface {
	Lookup(city string) (models.Coordinate, bool)
}

// SpeciesSource fetches species and survey records around a coordinate.
type SpeciesSource interface {
	SpeciesList(ctx context.Context, coord models.Coordinate, radius int) ([]models.Species, error)
	SurveysBySpecies(ctx context.Context, coord models.Coordinate, radius, taxonID int) ([]models.Sighting, error)
}

// CityError reports a city the geocoder could not resolve. It matches ErrUnknownCity.
type CityError struct {
	City string
}

func (e *CityError) Error() string {
	return fmt.Sprintf("No GPS coordinates found for '%s'", e.City)
}

func (e *CityError) Unwrap() error { return ErrUnknownCity }

// Searcher combines the geocoder and the species service.
type Searcher struct {
	Geocoder Geocoder
	Source   SpeciesSource
	Radius   int
}

// New returns a Searcher using DefaultRadius.
func New(g Geocoder, src SpeciesSource) *Searcher {
	return &Searcher{Geocoder: g, Source: src, Radius: DefaultRadius}
}

func (s *Searcher) radius() int {
	if s.Radius <= 0 {
		return DefaultRadius
	}
	return s.Radius
}

func (s *Searcher) locate(city string) (models.Coordinate, error) {
	coord, ok := s.Geocoder.Lookup(city)
	if !ok {
		return models.Coordinate{}, &CityError{City: strings.TrimSpace(city)}
	}
	return coord, nil
}

// SearchSpecies returns the species recorded around city.
func (s *Searcher) SearchSpecies(ctx context.Context, city string) ([]models.Species, error) {
	coord, err := s.locate(city)
	if err != nil {
		return []models.Species{}, err
	}
	species, err := s.Source.SpeciesList(ctx, coord, s.radius())
	if err != nil {
		return []models.Species{}, fmt.Errorf("search species in %s: %w", city, err)
	}
	return species, nil
}

// SearchSightings returns the incidental sightings of taxonID around city.
func (s *Searcher) SearchSightings(ctx context.Context, taxonID int, city string) ([]models.Sighting, error) {
	coord, err := s.locate(city)
	if err != nil {
		return []models.Sighting{}, err
	}
	surveys, err := s.Source.SurveysBySpecies(ctx, coord, s.radius(), taxonID)
	if err != nil {
		return []models.Sighting{}, fmt.Errorf("search sightings of %d in %s: %w", taxonID, city, err)
	}

	sightings := make([]models.Sighting, 0, len(surveys))
	for _, sv := range surveys {
		if sv.Incidental() {
			sightings = append(sightings, sv)
		}
	}
	return sightings, nil
}

// FilterVenomous keeps the species whose pest status is exactly "Venomous".
func FilterVenomous(species []models.Species) []models.Species {
	out := make([]models.Species, 0, len(species))
	for _, sp := range species {
		if sp.PestStatus == VenomousStatus {
			out = append(out, sp)
		}
	}
	return out
}

// Earliest returns the sighting with the smallest start date.
// The first one wins on ties.
func Earliest(sightings []models.Sighting) (models.Sighting, bool) {
	if len(sightings) == 0 {
		return models.Sighting{}, false
	}
	first := sightings[0]
	for _, s := range sightings[1:] {
		if s.StartDate < first.StartDate {
			first = s
		}
	}
	return first, true
}

// SortByDate returns a copy of sightings in ascending start date order.
func SortByDate(sightings []models.Sighting) []models.Sighting {
	out := slices.Clone(sightings)
	if out == nil {
		out = []models.Sighting{}
	}
	slices.SortStableFunc(out, func(a, b models.Sighting) int {
		return strings.Compare(a.StartDate, b.StartDate)
	})
	return out
}
