package forecast

import (
	"bytes"
	"encoding/csv"
)

// Columns is the fixed column order of the exported CSV.
var Columns = []string{
	"region_name",
	"forecast_window_start",
	"forecast_window_end",
	"retrieved_at",
	"weather_description",
	"weather_code",
	"rain_probability",
	"min_temperature",
	"max_temperature",
	"comfort_index",
}

// EncodeCSV renders the record collection as CSV text with a header row.
// Absent optional fields serialize as empty cells.
func EncodeCSV(records []RegionForecast) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.RegionName,
			r.WindowStart,
			r.WindowEnd,
			r.RetrievedAt,
			r.WeatherDescription,
			r.WeatherCode,
			r.RainProbability,
			r.MinTemperature,
			r.MaxTemperature,
			r.ComfortIndex,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
