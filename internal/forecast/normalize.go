package forecast

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/weatherops/cwa-forecast-export/internal/cwa"
)

var (
	// ErrSchema means the raw payload does not match the expected
	// weather-forecast structure.
	ErrSchema = errors.New("response shape does not match forecast structure")
)

// timeFormat mirrors the provider's timestamp layout and is also used for
// the retrieved_at stamp.
const timeFormat = "2006-01-02 15:04:05"

// Normalizer flattens a raw provider response into one RegionForecast per
// location, sorted by region name.
type Normalizer struct {
	// FailFast aborts the whole batch on the first malformed location,
	// returning no partial results. When false, malformed locations are
	// logged and skipped instead.
	FailFast bool

	// Now supplies the retrieved_at stamp; defaults to time.Now.
	Now func() time.Time
}

// NewNormalizer returns a Normalizer with the default all-or-nothing policy.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		FailFast: true,
		Now:      time.Now,
	}
}

// Normalize converts the raw response into an ordered record collection.
// An empty collection is a valid output, not an error; deciding whether
// empty is acceptable belongs to the caller.
func (n *Normalizer) Normalize(resp *cwa.Response) ([]RegionForecast, error) {
	if resp == nil || resp.Success != "true" {
		return nil, fmt.Errorf("%w: provider success flag not set", ErrSchema)
	}
	// A nil slice means records.location was absent from the payload; an
	// empty array decodes to a non-nil empty slice and is allowed through.
	if resp.Records.Location == nil {
		return nil, fmt.Errorf("%w: records.location missing", ErrSchema)
	}

	records := make([]RegionForecast, 0, len(resp.Records.Location))
	for _, loc := range resp.Records.Location {
		rec, err := n.normalizeLocation(loc)
		if err != nil {
			if n.FailFast {
				return nil, err
			}
			log.Printf("ERROR: skipping malformed location %q: %v", loc.LocationName, err)
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].RegionName < records[j].RegionName
	})

	return records, nil
}

func (n *Normalizer) normalizeLocation(loc cwa.Location) (RegionForecast, error) {
	if loc.LocationName == "" {
		return RegionForecast{}, fmt.Errorf("%w: location without a name", ErrSchema)
	}
	if len(loc.WeatherElement) == 0 || len(loc.WeatherElement[0].Time) == 0 {
		return RegionForecast{}, fmt.Errorf("%w: location %q has no forecast slots", ErrSchema, loc.LocationName)
	}

	// The validity window is read from the first element's first slot and
	// attributed to the whole record. CWA aligns slots across elements;
	// that is an observation about the data, not a payload guarantee.
	window := loc.WeatherElement[0].Time[0]

	rec := RegionForecast{
		RegionName:  loc.LocationName,
		WindowStart: window.StartTime,
		WindowEnd:   window.EndTime,
		RetrievedAt: n.Now().Format(timeFormat),
	}

	for _, el := range loc.WeatherElement {
		if len(el.Time) == 0 {
			return RegionForecast{}, fmt.Errorf("%w: element %q for %q has no time slots", ErrSchema, el.ElementName, loc.LocationName)
		}
		param := el.Time[0].Parameter

		switch el.ElementName {
		case ElementWeather:
			rec.WeatherDescription = param.ParameterName
			rec.WeatherCode = param.ParameterValue
		case ElementRainProb:
			rec.RainProbability = param.ParameterName
		case ElementMinTemp:
			rec.MinTemperature = param.ParameterName
		case ElementMaxTemp:
			rec.MaxTemperature = param.ParameterName
		case ElementComfort:
			rec.ComfortIndex = param.ParameterName
		}
	}

	return rec, nil
}
