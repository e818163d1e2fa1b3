package cwa

// Response is the raw F-C0032-001 payload as returned by the open-data API.
// The success flag is the JSON string "true", not a boolean.
type Response struct {
	Success string  `json:"success"`
	Records Records `json:"records"`
}

type Records struct {
	Location []Location `json:"location"`
}

// Location carries the per-region weather element series. Element series are
// keyed by name and each holds an ordered list of forecast time slots.
type Location struct {
	LocationName   string    `json:"locationName"`
	WeatherElement []Element `json:"weatherElement"`
}

type Element struct {
	ElementName string     `json:"elementName"`
	Time        []TimeSlot `json:"time"`
}

type TimeSlot struct {
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Parameter Parameter `json:"parameter"`
}

type Parameter struct {
	ParameterName  string `json:"parameterName"`
	ParameterValue string `json:"parameterValue"`
}
