package forecast

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/weatherops/cwa-forecast-export/internal/cwa"
)

// frozenClock returns a Normalizer whose retrieved_at stamp never moves.
func frozenNormalizer() *Normalizer {
	n := NewNormalizer()
	n.Now = func() time.Time {
		return time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC)
	}
	return n
}

func element(name string, slots ...cwa.TimeSlot) cwa.Element {
	return cwa.Element{ElementName: name, Time: slots}
}

func slot(start, end, paramName, paramValue string) cwa.TimeSlot {
	return cwa.TimeSlot{
		StartTime: start,
		EndTime:   end,
		Parameter: cwa.Parameter{ParameterName: paramName, ParameterValue: paramValue},
	}
}

func location(name string, elements ...cwa.Element) cwa.Location {
	return cwa.Location{LocationName: name, WeatherElement: elements}
}

func response(locations ...cwa.Location) *cwa.Response {
	return &cwa.Response{
		Success: "true",
		Records: cwa.Records{Location: locations},
	}
}

func TestNormalizeSortsByRegionName(t *testing.T) {
	resp := response(
		location("RegionC", element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Cloudy", "2"))),
		location("RegionA", element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Sunny", "1"))),
		location("RegionB", element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Rainy", "8"))),
	)

	records, err := frozenNormalizer().Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	seen := make(map[string]bool)
	for i, want := range []string{"RegionA", "RegionB", "RegionC"} {
		if records[i].RegionName != want {
			t.Fatalf("record %d: expected region %s, got %s", i, want, records[i].RegionName)
		}
		if seen[records[i].RegionName] {
			t.Fatalf("duplicate region %s", records[i].RegionName)
		}
		seen[records[i].RegionName] = true
	}
}

func TestNormalizeRejectsMissingSuccessFlag(t *testing.T) {
	resp := response(location("RegionA", element(ElementWeather, slot("a", "b", "Sunny", "1"))))
	resp.Success = "false"

	records, err := frozenNormalizer().Normalize(resp)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no records on schema failure, got %d", len(records))
	}
}

func TestNormalizeRejectsMissingLocationList(t *testing.T) {
	resp := &cwa.Response{Success: "true"}

	if _, err := frozenNormalizer().Normalize(resp); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestNormalizeEmptyLocationListIsValid(t *testing.T) {
	resp := response() // present but empty array
	resp.Records.Location = []cwa.Location{}

	records, err := frozenNormalizer().Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d records", len(records))
	}
}

// TestNormalizeSubsetOfElements covers the two-region scenario: RegionA
// carries sky condition and min temperature only, RegionB carries rain
// probability only.
func TestNormalizeSubsetOfElements(t *testing.T) {
	resp := response(
		location("RegionB",
			element(ElementRainProb, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "30%", "")),
		),
		location("RegionA",
			element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Sunny", "1")),
			element(ElementMinTemp, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "20", "")),
		),
	)

	records, err := frozenNormalizer().Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	a := records[0]
	if a.RegionName != "RegionA" {
		t.Fatalf("expected RegionA first, got %s", a.RegionName)
	}
	if a.WeatherDescription != "Sunny" || a.WeatherCode != "1" || a.MinTemperature != "20" {
		t.Fatalf("RegionA populated fields wrong: %+v", a)
	}
	if a.MaxTemperature != "" || a.RainProbability != "" || a.ComfortIndex != "" {
		t.Fatalf("RegionA should have empty optional fields: %+v", a)
	}
	if a.WindowStart != "2025-01-15 12:00:00" || a.WindowEnd != "2025-01-15 18:00:00" {
		t.Fatalf("RegionA window wrong: %+v", a)
	}

	b := records[1]
	if b.RegionName != "RegionB" {
		t.Fatalf("expected RegionB second, got %s", b.RegionName)
	}
	if b.RainProbability != "30%" {
		t.Fatalf("RegionB rain probability wrong: %+v", b)
	}
	if b.WeatherDescription != "" || b.WeatherCode != "" || b.MinTemperature != "" ||
		b.MaxTemperature != "" || b.ComfortIndex != "" {
		t.Fatalf("RegionB should have only rain probability populated: %+v", b)
	}
}

func TestNormalizeIgnoresUnknownElements(t *testing.T) {
	base := location("RegionA",
		element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Sunny", "1")),
	)
	withUnknown := location("RegionA",
		element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Sunny", "1")),
		element("UVI", slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "5", "")),
	)

	n := frozenNormalizer()

	got, err := n.Normalize(response(withUnknown))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := n.Normalize(response(base))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got[0] != want[0] {
		t.Fatalf("unknown element changed the record:\n got %+v\nwant %+v", got[0], want[0])
	}
}

func TestNormalizeFailFastOnMalformedLocation(t *testing.T) {
	resp := response(
		location("RegionA", element(ElementWeather, slot("a", "b", "Sunny", "1"))),
		location("RegionB", element(ElementRainProb)), // element with no time slots
	)

	records, err := frozenNormalizer().Normalize(resp)
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no partial results, got %d records", len(records))
	}
}

func TestNormalizeBestEffortSkipsMalformedLocation(t *testing.T) {
	resp := response(
		location("RegionA", element(ElementWeather, slot("a", "b", "Sunny", "1"))),
		location("RegionB"), // no weather elements at all
	)

	n := frozenNormalizer()
	n.FailFast = false

	records, err := n.Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].RegionName != "RegionA" {
		t.Fatalf("expected only RegionA to survive, got %+v", records)
	}
}

func TestNormalizeDeterministicWithFrozenClock(t *testing.T) {
	resp := response(
		location("RegionB", element(ElementMaxTemp, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "28", ""))),
		location("RegionA", element(ElementWeather, slot("2025-01-15 12:00:00", "2025-01-15 18:00:00", "Sunny", "1"))),
	)

	n := frozenNormalizer()

	first, err := n.Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := n.Normalize(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	csvA, err := EncodeCSV(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	csvB, err := EncodeCSV(second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(csvA, csvB) {
		t.Fatalf("expected byte-identical CSV output:\n%s\n---\n%s", csvA, csvB)
	}
}

func TestDefaultRegionCount(t *testing.T) {
	if len(DefaultRegions) != 22 {
		t.Fatalf("expected 22 tracked regions, got %d", len(DefaultRegions))
	}
}
