package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cccstore/shift-scheduler/internal/domain"
	"github.com/cccstore/shift-scheduler/internal/pkg/httpretry"
	"github.com/cccstore/shift-scheduler/internal/pkg/logger"
)

// DailyWeather is one day of weather features for the forecaster.
type DailyWeather struct {
	Date        time.Time
	Rain        float64
	Snowfall    float64
	WeatherCode float64
	Temperature float64
}

// dailyVariables is the ordered variable list requested from the forecast
// endpoint. The order must match the response arrays.
var dailyVariables = []string{"rain_sum", "snowfall_sum", "weather_code", "temperature_2m_max"}

// WeatherProvider fetches daily weather for the store location from an
// open-meteo style endpoint, with retries and a TTL cache.
type WeatherProvider struct {
	client    httpretry.HTTPDoer
	cache     Cache
	cacheTTL  time.Duration
	baseURL   string
	latitude  float64
	longitude float64
}

// NewWeatherProvider builds a provider for the given store coordinates.
// A nil cache disables caching.
func NewWeatherProvider(client httpretry.HTTPDoer, cache Cache, cacheTTL time.Duration, baseURL string, lat, lon float64) *WeatherProvider {
	if client == nil {
		client = httpretry.New(nil, 5)
	}
	return &WeatherProvider{
		client:    client,
		cache:     cache,
		cacheTTL:  cacheTTL,
		baseURL:   baseURL,
		latitude:  lat,
		longitude: lon,
	}
}

// weatherResponse mirrors the daily block of the forecast endpoint.
type weatherResponse struct {
	Daily struct {
		Time        []string  `json:"time"`
		Rain        []float64 `json:"rain_sum"`
		Snowfall    []float64 `json:"snowfall_sum"`
		WeatherCode []float64 `json:"weather_code"`
		Temperature []float64 `json:"temperature_2m_max"`
	} `json:"daily"`
}

// WeatherInRange fetches one weather row per day in [start, end] inclusive,
// ordered by date with time-of-day stripped. An empty slice means the
// source returned no data; the caller decides whether that is fatal.
func (p *WeatherProvider) WeatherInRange(ctx context.Context, start, end time.Time) ([]DailyWeather, error) {
	start = domain.DateOf(start)
	end = domain.DateOf(end)
	key := cacheKey(p.latitude, p.longitude, start, end)

	body, hit := p.cached(ctx, key)
	if !hit {
		var err error
		body, err = p.fetch(ctx, start, end)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			p.cache.Set(ctx, key, body, p.cacheTTL)
		}
	}

	rows, err := parseDaily(body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		logger.Warn("weather: source returned no data",
			"start", domain.FormatDate(start), "end", domain.FormatDate(end))
	}
	return rows, nil
}

func (p *WeatherProvider) cached(ctx context.Context, key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	return p.cache.Get(ctx, key)
}

func (p *WeatherProvider) fetch(ctx context.Context, start, end time.Time) ([]byte, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(p.latitude, 'f', 4, 64))
	params.Set("longitude", strconv.FormatFloat(p.longitude, 'f', 4, 64))
	params.Set("daily", strings.Join(dailyVariables, ","))
	params.Set("timezone", "Asia/Tokyo")
	params.Set("start_date", domain.FormatDate(start))
	params.Set("end_date", domain.FormatDate(end))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read weather response: %w", err)
	}
	return body, nil
}

func parseDaily(body []byte) ([]DailyWeather, error) {
	var wr weatherResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	rows := make([]DailyWeather, 0, len(wr.Daily.Time))
	for i, ds := range wr.Daily.Time {
		date, err := domain.ParseDate(ds)
		if err != nil {
			return nil, fmt.Errorf("weather row %d: %w", i, err)
		}
		row := DailyWeather{Date: date}
		if i < len(wr.Daily.Rain) {
			row.Rain = wr.Daily.Rain[i]
		}
		if i < len(wr.Daily.Snowfall) {
			row.Snowfall = wr.Daily.Snowfall[i]
		}
		if i < len(wr.Daily.WeatherCode) {
			row.WeatherCode = wr.Daily.WeatherCode[i]
		}
		if i < len(wr.Daily.Temperature) {
			row.Temperature = wr.Daily.Temperature[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cacheKey(lat, lon float64, start, end time.Time) string {
	return fmt.Sprintf("%.4f|%.4f|%s|%s", lat, lon, domain.FormatDate(start), domain.FormatDate(end))
}
