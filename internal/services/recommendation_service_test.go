package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wardrobify/wardrobify/internal/models"
)

func TestRecommendationServiceHappyPath(t *testing.T) {
	var aiPrompt string

	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "San Diego", r.URL.Query().Get("q"))
		fmt.Fprint(w, `[{"lat":"32.7157","lon":"-117.1611"}]`)
	}))
	defer geocoder.Close()

	var weather *httptest.Server
	weather = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/points/32.715700,-117.161100":
			fmt.Fprintf(w, `{"properties":{"forecast":"%s/forecast"}}`, weather.URL)
		case "/forecast":
			fmt.Fprint(w, `{"properties":{"periods":[{"shortForecast":"Sunny","temperature":72}]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer weather.Close()

	ai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "student@example.com", r.Header.Get("email"))
		require.Equal(t, "A12345678", r.Header.Get("pid"))

		var body struct {
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		aiPrompt = body.Prompt
		fmt.Fprint(w, `{"result":{"response":"Blue Flannel - Shirt"}}`)
	}))
	defer ai.Close()

	svc, err := NewRecommendationService(RecommendationConfig{
		GeocoderEndpoint: geocoder.URL,
		WeatherEndpoint:  weather.URL,
		AIEndpoint:       ai.URL,
		Email:            "student@example.com",
		StudentID:        "A12345678",
		Timeout:          5 * time.Second,
	})
	require.NoError(t, err)

	user := &models.User{Location: "San Diego"}
	wardrobe := []models.ClothingItem{
		{Name: "Blue Flannel", Type: "Shirt"},
		{Name: "Parka", Type: "Jacket"},
	}

	result := svc.Recommend(context.Background(), user, wardrobe)
	require.Equal(t, map[string]any{"response": "Blue Flannel - Shirt"}, result)
	require.Contains(t, aiPrompt, "Blue Flannel (Shirt)")
	require.Contains(t, aiPrompt, "Sunny")
	require.Contains(t, aiPrompt, "72F")
}

func TestRecommendationServiceFallsBackOnGeocoderFailure(t *testing.T) {
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer geocoder.Close()

	svc, err := NewRecommendationService(RecommendationConfig{
		GeocoderEndpoint: geocoder.URL,
		WeatherEndpoint:  "http://127.0.0.1:1",
		AIEndpoint:       "http://127.0.0.1:1",
		Timeout:          time.Second,
	})
	require.NoError(t, err)

	result := svc.Recommend(context.Background(), &models.User{Location: "Nowhere"}, nil)
	require.Equal(t, FallbackRecommendation, result)
}

func TestRecommendationServiceFallsBackOnEmptyForecast(t *testing.T) {
	geocoder := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"lat":"10.0","lon":"20.0"}]`)
	}))
	defer geocoder.Close()

	var weather *httptest.Server
	weather = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/forecast" {
			fmt.Fprint(w, `{"properties":{"periods":[]}}`)
			return
		}
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/forecast"}}`, weather.URL)
	}))
	defer weather.Close()

	svc, err := NewRecommendationService(RecommendationConfig{
		GeocoderEndpoint: geocoder.URL,
		WeatherEndpoint:  weather.URL,
		AIEndpoint:       "http://127.0.0.1:1",
		Timeout:          time.Second,
	})
	require.NoError(t, err)

	result := svc.Recommend(context.Background(), &models.User{Location: "Atlantis"}, nil)
	require.Equal(t, FallbackRecommendation, result)
}
