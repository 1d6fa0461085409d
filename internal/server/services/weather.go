package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/cropcare/internal/common"
	"github.com/dmitrijs2005/cropcare/internal/logging"
	"github.com/dmitrijs2005/cropcare/internal/server/clients/weather"
	"github.com/dmitrijs2005/cropcare/internal/server/models"
	"github.com/dmitrijs2005/cropcare/internal/server/session"
)

const (
	adviceRain   = "Rain expected - avoid watering and delay foliar sprays."
	adviceHeat   = "High heat - consider mulching and watering early morning."
	adviceDry    = "Dry air - water early morning/evening."
	adviceNormal = "Conditions look normal for routine farm activities."

	heatThreshold   = 35.0
	dryAirThreshold = 30.0
)

type WeatherProvider interface {
	Current(ctx context.Context, city string) (*models.CurrentWeather, error)
	Forecast(ctx context.Context, city string) ([]models.ForecastPoint, error)
}

type CityDetector interface {
	DetectCity(ctx context.Context) string
}

// UserDirectory is the slice of UserService the weather panel needs.
type UserDirectory interface {
	GetUser(ctx context.Context, username string) (models.UserRecord, error)
	SaveDefaultCity(ctx context.Context, username, city string) error
}

type WeatherService struct {
	provider WeatherProvider
	detector CityDetector
	users    UserDirectory
	logger   logging.Logger
}

func NewWeatherService(p WeatherProvider, d CityDetector, u UserDirectory, logger logging.Logger) *WeatherService {
	return &WeatherService{
		provider: p,
		detector: d,
		users:    u,
		logger:   logger.With("service", "weather"),
	}
}

// ResolveCity picks the city for a lookup: the explicit one, then the
// session's working city, then the user's stored default.
func (s *WeatherService) ResolveCity(ctx context.Context, sess *session.Context, explicit string) string {
	if city := strings.TrimSpace(explicit); city != "" {
		return city
	}
	if city := sess.City(); city != "" {
		return city
	}
	if !sess.LoggedIn() {
		return ""
	}

	rec, err := s.users.GetUser(ctx, sess.User())
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "default city lookup failed", "username", sess.User(), "error", err)
		}
		return ""
	}
	return rec.City()
}

// Lookup fetches current conditions and the forecast for the resolved city
// and makes it the session's working city. Only a current-weather failure
// fails the lookup; a forecast failure is reported in the result.
func (s *WeatherService) Lookup(ctx context.Context, sess *session.Context, explicit string) (*models.WeatherReport, error) {
	city := s.ResolveCity(ctx, sess, explicit)
	if city == "" {
		return nil, common.ErrCityRequired
	}

	current, err := s.provider.Current(ctx, city)
	if err != nil {
		s.logger.Warn(ctx, "current weather unavailable", "city", city, "error", err)
		return nil, err
	}

	report := &models.WeatherReport{
		City:     city,
		Current:  current,
		Advice:   Advise(current),
		Forecast: []models.ForecastPoint{},
	}

	forecast, err := s.provider.Forecast(ctx, city)
	if err != nil {
		s.logger.Warn(ctx, "forecast unavailable", "city", city, "error", err)
		report.ForecastUnavailable = true
	} else {
		report.Forecast = forecast
	}

	sess.SetCity(city)
	return report, nil
}

// DetectCity stores the detected city on the session. It returns "" when
// the location could not be detected, leaving the session city as it was.
func (s *WeatherService) DetectCity(ctx context.Context, sess *session.Context) string {
	city := s.detector.DetectCity(ctx)
	if city == "" {
		s.logger.Info(ctx, "could not detect location")
		return ""
	}
	sess.SetCity(city)
	return city
}

// SaveDefaultCity remembers city for the session's user and makes it the
// working city.
func (s *WeatherService) SaveDefaultCity(ctx context.Context, sess *session.Context, city string) error {
	if !sess.LoggedIn() {
		return common.ErrorUnauthorized
	}
	city = strings.TrimSpace(city)
	if err := s.users.SaveDefaultCity(ctx, sess.User(), city); err != nil {
		return err
	}
	sess.SetCity(city)
	return nil
}

// Advise turns current conditions into one farm tip. The first matching rule wins.
func Advise(c *models.CurrentWeather) models.Advice {
	switch {
	case weather.IsWet(c.ConditionMain):
		return models.Advice{Level: models.AdviceWarning, Message: adviceRain}
	case c.Temp > heatThreshold:
		return models.Advice{Level: models.AdviceWarning, Message: adviceHeat}
	case c.Humidity < dryAirThreshold:
		return models.Advice{Level: models.AdviceWarning, Message: adviceDry}
	default:
		return models.Advice{Level: models.AdviceOK, Message: adviceNormal}
	}
}
