package forecast

// Weather element names carried by the CWA F-C0032-001 dataset. Elements
// outside this set are ignored during normalization.
const (
	ElementWeather  = "Wx"   // sky condition
	ElementRainProb = "PoP"  // probability of precipitation
	ElementMinTemp  = "MinT" // minimum temperature
	ElementMaxTemp  = "MaxT" // maximum temperature
	ElementComfort  = "CI"   // comfort index
)

// DefaultRegions lists the 22 top-level administrative divisions tracked by
// this job, using the exact names the CWA expects in the locationName query
// parameter.
var DefaultRegions = []string{
	"宜蘭縣", "花蓮縣", "臺東縣",
	"澎湖縣", "金門縣", "連江縣",
	"臺北市", "新北市", "桃園市",
	"臺中市", "臺南市", "高雄市",
	"基隆市", "新竹縣", "新竹市",
	"苗栗縣", "彰化縣", "南投縣",
	"雲林縣", "嘉義縣", "嘉義市",
	"屏東縣",
}

// RegionForecast is the flattened forecast for one region: the first time
// slot of each known weather element, plus the validity window of that slot.
// Optional fields stay empty when the source omits the element.
//
// Window timestamps are carried as the provider's literal strings; the
// payload does not declare a timezone, so parsing them would invent one.
type RegionForecast struct {
	RegionName         string
	WindowStart        string
	WindowEnd          string
	RetrievedAt        string
	WeatherDescription string
	WeatherCode        string
	RainProbability    string
	MinTemperature     string
	MaxTemperature     string
	ComfortIndex       string
}
