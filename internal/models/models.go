package models

import "strings"

// Coordinate is a latitude/longitude pair used as the centre of a query.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Place is a named gazetteer entry.
type Place struct {
	Name       string
	Coordinate Coordinate
}

// Key returns the lookup key for a place name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Species holds the fields of a species sighting summary we care about.
type Species struct {
	CommonName string
	PestStatus string
	TaxonID    int
}

// IncidentalSiteCode marks an opportunistic report rather than a structured survey site.
const IncidentalSiteCode = "INCIDENTAL"

// Sighting is a single survey record for a species.
type Sighting struct {
	StartDate string
	Locality  string
	SiteCode  string
}

// Incidental reports whether the sighting is an incidental one.
func (s Sighting) Incidental() bool {
	return s.SiteCode == IncidentalSiteCode
}
