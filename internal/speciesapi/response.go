package speciesapi

import (
	"bytes"
	"encoding/json"

	"mspro-labs/wildlife-finder/internal/models"
)

const (
	unknownName   = "Unknown"
	unknownStatus = "Nil"
)

type speciesListResponse struct {
	Container *struct {
		Summaries oneOrMany[speciesSummary] `json:"SpeciesSightingSummary"`
	} `json:"SpeciesSightingSummariesContainer"`
}

type speciesSummary struct {
	Species *struct {
		AcceptedCommonName *string `json:"AcceptedCommonName"`
		PestStatus         *string `json:"PestStatus"`
		TaxonID            int     `json:"TaxonID"`
	} `json:"Species"`
}

func (r speciesListResponse) species() []models.Species {
	out := []models.Species{}
	if r.Container == nil {
		return out
	}
	for _, s := range r.Container.Summaries {
		sp := models.Species{CommonName: unknownName, PestStatus: unknownStatus}
		if s.Species != nil {
			if s.Species.AcceptedCommonName != nil {
				sp.CommonName = *s.Species.AcceptedCommonName
			}
			if s.Species.PestStatus != nil {
				sp.PestStatus = *s.Species.PestStatus
			}
			sp.TaxonID = s.Species.TaxonID
		}
		out = append(out, sp)
	}
	return out
}

type surveysResponse struct {
	Features oneOrMany[feature] `json:"features"`
}

type feature struct {
	Properties struct {
		StartDate       string `json:"StartDate"`
		LocalityDetails string `json:"LocalityDetails"`
		SiteCode        string `json:"SiteCode"`
	} `json:"properties"`
}

func (r surveysResponse) sightings() []models.Sighting {
	out := make([]models.Sighting, 0, len(r.Features))
	for _, f := range r.Features {
		out = append(out, models.Sighting{
			StartDate: f.Properties.StartDate,
			Locality:  f.Properties.LocalityDetails,
			SiteCode:  f.Properties.SiteCode,
		})
	}
	return out
}

// oneOrMany decodes either a JSON array or a single object. The service
// collapses one-element lists into a bare object.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*o = nil
		return nil
	case len(data) > 0 && data[0] == '{':
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*o = oneOrMany[T]{one}
		return nil
	}
	var many []T
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*o = many
	return nil
}
