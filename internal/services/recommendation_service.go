package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wardrobify/wardrobify/internal/models"
	"github.com/wardrobify/wardrobify/pkg/logger"
)

// FallbackRecommendation is returned whenever any downstream call fails.
// Clients render it as-is; recommendation failures are never surfaced as 5xx.
var FallbackRecommendation = map[string]string{"response": "Error fetching AI response"}

// RecommendationConfig wires the downstream endpoints and credentials.
type RecommendationConfig struct {
	GeocoderEndpoint string
	WeatherEndpoint  string
	AIEndpoint       string
	Email            string
	StudentID        string
	Timeout          time.Duration
}

// RecommendationService builds an outfit suggestion from the user's wardrobe
// and the current forecast at the user's location.
type RecommendationService struct {
	cfg    RecommendationConfig
	client *http.Client
	log    *zap.Logger
}

// NewRecommendationService constructs a RecommendationService instance.
func NewRecommendationService(cfg RecommendationConfig) (*RecommendationService, error) {
	if strings.TrimSpace(cfg.GeocoderEndpoint) == "" {
		return nil, errors.New("recommendation service: geocoder endpoint is required")
	}
	if strings.TrimSpace(cfg.WeatherEndpoint) == "" {
		return nil, errors.New("recommendation service: weather endpoint is required")
	}
	if strings.TrimSpace(cfg.AIEndpoint) == "" {
		return nil, errors.New("recommendation service: ai endpoint is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &RecommendationService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		log:    logger.WithModule("recommendation"),
	}, nil
}

// Recommend runs the full pipeline: geocode the user's location, fetch the
// forecast for that point, then ask the completion service to pick an outfit
// from the wardrobe. Any failure along the way yields FallbackRecommendation.
func (s *RecommendationService) Recommend(ctx context.Context, user *models.User, wardrobe []models.ClothingItem) any {
	ctx = ensureContext(ctx)

	lat, lon, err := s.geocode(ctx, user.Location)
	if err != nil {
		s.log.Warn("geocode failed", zap.String("location", user.Location), zap.Error(err))
		return FallbackRecommendation
	}

	forecast, err := s.currentForecast(ctx, lat, lon)
	if err != nil {
		s.log.Warn("forecast lookup failed", zap.Error(err))
		return FallbackRecommendation
	}

	result, err := s.complete(ctx, buildPrompt(wardrobe, forecast))
	if err != nil {
		s.log.Warn("completion failed", zap.Error(err))
		return FallbackRecommendation
	}
	return result
}

type forecastPeriod struct {
	ShortForecast string  `json:"shortForecast"`
	Temperature   float64 `json:"temperature"`
}

func (s *RecommendationService) geocode(ctx context.Context, location string) (float64, float64, error) {
	query := url.Values{}
	query.Set("q", location)
	query.Set("format", "json")
	query.Set("limit", "1")

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := s.getJSON(ctx, s.cfg.GeocoderEndpoint+"?"+query.Encode(), &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no geocoder match for %q", location)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	return lat, lon, nil
}

// currentForecast resolves the gridpoint for the coordinates, then takes the
// first period of the forecast it points at.
func (s *RecommendationService) currentForecast(ctx context.Context, lat, lon float64) (*forecastPeriod, error) {
	var points struct {
		Properties struct {
			Forecast string `json:"forecast"`
		} `json:"properties"`
	}
	pointsURL := fmt.Sprintf("%s/points/%f,%f", strings.TrimRight(s.cfg.WeatherEndpoint, "/"), lat, lon)
	if err := s.getJSON(ctx, pointsURL, &points); err != nil {
		return nil, fmt.Errorf("resolve gridpoint: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, errors.New("gridpoint response missing forecast url")
	}

	var forecast struct {
		Properties struct {
			Periods []forecastPeriod `json:"periods"`
		} `json:"properties"`
	}
	if err := s.getJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return nil, errors.New("forecast has no periods")
	}
	return &forecast.Properties.Periods[0], nil
}

func (s *RecommendationService) complete(ctx context.Context, prompt string) (any, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.AIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("email", s.cfg.Email)
	req.Header.Set("pid", s.cfg.StudentID)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion service returned %d", resp.StatusCode)
	}

	var payload struct {
		Result any `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if payload.Result == nil {
		return nil, errors.New("completion response missing result")
	}
	return payload.Result, nil
}

func (s *RecommendationService) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("User-Agent", "wardrobify")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: status %d", rawURL, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func buildPrompt(wardrobe []models.ClothingItem, forecast *forecastPeriod) string {
	var items strings.Builder
	for i, item := range wardrobe {
		if i > 0 {
			items.WriteString(", ")
		}
		fmt.Fprintf(&items, "%s (%s)", item.Name, item.Type)
	}

	var b strings.Builder
	b.WriteString("Pick an outfit for me.\n")
	fmt.Fprintf(&b, "My wardrobe consists of the following items: %s.\n", items.String())
	fmt.Fprintf(&b, "The weather conditions today: %s, temperature: %.0fF.\n", forecast.ShortForecast, forecast.Temperature)
	b.WriteString("Do not use markdown for your response, only use plaintext.\n")
	b.WriteString("Format your response in the following way (omit lines if there are not that many choices, add lines if there are more):\n")
	b.WriteString("[Clothing 1 Name] - [Clothing 1 Type]\n")
	b.WriteString("[Clothing 2 Name] - [Clothing 2 Type]\n")
	b.WriteString("[Clothing 3 Name] - [Clothing 3 Type]\n")
	b.WriteString("etc.\n")
	b.WriteString("Reasoning: [Reason for choices]\n")
	return b.String()
}
