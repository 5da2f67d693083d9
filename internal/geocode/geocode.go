package geocode

import (
	"log/slog"

	"mspro-labs/wildlife-finder/internal/models"
)

// Cairns is the only place the built-in table knows about.
var Cairns = models.Place{
	Name:       "cairns",
	Coordinate: models.Coordinate{Latitude: -16.9186, Longitude: 145.7781},
}

// Geocoder maps city names to coordinates. The table is fixed once New returns.
type Geocoder struct {
	table map[string]models.Coordinate
}

// New builds a geocoder from the built-in table plus any extra places.
// Later entries win over earlier ones with the same name.
func New(places ...models.Place) *Geocoder {
	table := map[string]models.Coordinate{
		models.Key(Cairns.Name): Cairns.Coordinate,
	}
	for _, p := range places {
		key := models.Key(p.Name)
		if key == "" {
			continue
		}
		table[key] = p.Coordinate
	}
	return &Geocoder{table: table}
}

// Lookup returns the coordinate for city, ignoring case.
// The boolean is false when the city is unknown.
func (g *Geocoder) Lookup(city string) (models.Coordinate, bool) {
	c, ok := g.table[models.Key(city)]
	if !ok {
		slog.Warn("No GPS coordinates found", "city", city)
		return models.Coordinate{}, false
	}
	slog.Info("GPS coordinates found", "city", city, "latitude", c.Latitude, "longitude", c.Longitude)
	return c, true
}

// Len returns the number of known places.
func (g *Geocoder) Len() int {
	return len(g.table)
}
