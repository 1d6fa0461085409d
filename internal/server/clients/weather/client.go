// Package weather talks to an OpenWeatherMap-compatible API for current
// conditions and the 5-day/3-hour forecast.
package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/netx"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
)

const iconURLFormat = "https://openweathermap.org/img/wn/%s@2x.png"

// Client is a thin provider client. It holds no per-city state.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient returns a Client that gives up on each call after timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []condition `json:"weather"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []condition `json:"weather"`
	} `json:"list"`
}

func (c *Client) query(city string) url.Values {
	return url.Values{"q": {city}, "appid": {c.apiKey}, "units": {"metric"}}
}

// Current returns the current conditions for city.
func (c *Client) Current(ctx context.Context, city string) (*models.CurrentWeather, error) {
	if city == "" {
		return nil, common.ErrCityRequired
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key not configured", common.ErrExternalUnavailable)
	}

	var resp currentResponse
	if err := netx.GetJSON(ctx, c.http, c.baseURL+"/weather", c.query(city), &resp); err != nil {
		return nil, fmt.Errorf("current weather for %q: %w", city, err)
	}
	if len(resp.Weather) == 0 {
		return nil, fmt.Errorf("%w: current weather for %q has no conditions", common.ErrExternalUnavailable, city)
	}

	w := resp.Weather[0]
	return &models.CurrentWeather{
		CityName:      fmt.Sprintf("%s, %s", resp.Name, resp.Sys.Country),
		Temp:          resp.Main.Temp,
		FeelsLike:     resp.Main.FeelsLike,
		Humidity:      resp.Main.Humidity,
		ConditionMain: w.Main,
		ConditionDesc: w.Description,
		Icon:          w.Icon,
		IconURL:       IconURL(w.Icon),
	}, nil
}

// Forecast returns the 3-hourly forecast points for city in provider order.
// Points without a condition are skipped.
func (c *Client) Forecast(ctx context.Context, city string) ([]models.ForecastPoint, error) {
	if city == "" {
		return nil, common.ErrCityRequired
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: weather API key not configured", common.ErrExternalUnavailable)
	}

	var resp forecastResponse
	if err := netx.GetJSON(ctx, c.http, c.baseURL+"/forecast", c.query(city), &resp); err != nil {
		return nil, fmt.Errorf("forecast for %q: %w", city, err)
	}

	points := make([]models.ForecastPoint, 0, len(resp.List))
	for _, item := range resp.List {
		if len(item.Weather) == 0 {
			continue
		}
		w := item.Weather[0]
		points = append(points, models.ForecastPoint{
			Time:    time.Unix(item.Dt, 0),
			Temp:    item.Main.Temp,
			Main:    w.Main,
			Desc:    w.Description,
			Icon:    w.Icon,
			IconURL: IconURL(w.Icon),
			Risk:    MapRisk(w.Main),
		})
	}
	return points, nil
}

// IconURL is the provider's 2x icon image for an icon code.
func IconURL(icon string) string {
	if icon == "" {
		return ""
	}
	return fmt.Sprintf(iconURLFormat, icon)
}

// IsWet reports whether a condition means precipitation is on the way.
func IsWet(condition string) bool {
	c := strings.ToLower(condition)
	return strings.Contains(c, "rain") || strings.Contains(c, "thunder") || strings.Contains(c, "drizzle")
}

// MapRisk buckets a condition name; the first matching bucket wins.
func MapRisk(condition string) models.Risk {
	c := strings.ToLower(condition)
	switch {
	case IsWet(c):
		return models.RiskRain
	case strings.Contains(c, "clear"):
		return models.RiskClear
	case strings.Contains(c, "cloud"):
		return models.RiskClouds
	case strings.Contains(c, "snow"):
		return models.RiskSnow
	default:
		return models.RiskOther
	}
}
