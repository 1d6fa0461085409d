package models

import "time"

// CurrentWeather is the provider's current-conditions answer for a city.
type CurrentWeather struct {
	CityName      string  `json:"city_name"`
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	ConditionMain string  `json:"condition_main"`
	ConditionDesc string  `json:"condition_desc"`
	Icon          string  `json:"icon"`
	IconURL       string  `json:"icon_url"`
}

// Risk buckets a forecast condition for farm planning.
type Risk string

const (
	RiskRain   Risk = "rain"
	RiskClear  Risk = "clear"
	RiskClouds Risk = "clouds"
	RiskSnow   Risk = "snow"
	RiskOther  Risk = "other"
)

type ForecastPoint struct {
	Time    time.Time `json:"datetime"`
	Temp    float64   `json:"temp"`
	Main    string    `json:"main"`
	Desc    string    `json:"desc"`
	Icon    string    `json:"icon"`
	IconURL string    `json:"icon_url"`
	Risk    Risk      `json:"risk"`
}

type AdviceLevel string

const (
	AdviceOK      AdviceLevel = "ok"
	AdviceWarning AdviceLevel = "warning"
)

type Advice struct {
	Level   AdviceLevel `json:"level"`
	Message string      `json:"message"`
}

// WeatherReport is what the weather panel shows for one lookup.
type WeatherReport struct {
	City                string          `json:"city"`
	Current             *CurrentWeather `json:"current"`
	Advice              Advice          `json:"advice"`
	Forecast            []ForecastPoint `json:"forecast"`
	ForecastUnavailable bool            `json:"forecast_unavailable"`
}
