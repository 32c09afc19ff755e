// ABOUTME: Current weather and weather alert records
package models

type WeatherAlert struct {
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	EffectiveTime string `json:"effectiveTime"`
}

type CurrentWeather struct {
	Temperature          float64        `json:"temperature"`
	FeelsLikeTemperature *float64       `json:"feelsLikeTemperature,omitempty"`
	Condition            string         `json:"condition"`
	WindSpeed            float64        `json:"windSpeed"`
	WindDirection        *float64       `json:"windDirection,omitempty"`
	Humidity             *float64       `json:"humidity,omitempty"`
	Visibility           *float64       `json:"visibility,omitempty"`
	Alerts               []WeatherAlert `json:"alerts,omitempty"`
	LastUpdated          string         `json:"lastUpdated"`
	Source               string         `json:"source"`
}

type WeatherParams struct {
	Lat                float64
	Lng                float64
	IncludeWindDetails bool
	IncludeAuroraInfo  bool
}
