package application

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petNanny/pn-server/domain"
	"github.com/petNanny/pn-server/errors"
)

// NominatimGeocoder resolves sitter addresses against a Nominatim-compatible
// endpoint. The call goes out over the network, so it sits behind a circuit
// breaker.
type NominatimGeocoder struct {
	baseURL string
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	tracer  trace.Tracer
	logger  *logrus.Logger
}

func NewNominatimGeocoder(baseURL string, client *http.Client, tracer trace.Tracer, logger *logrus.Logger) *NominatimGeocoder {
	return &NominatimGeocoder{
		baseURL: baseURL,
		client:  client,
		cb:      CircuitBreaker("geocoder"),
		tracer:  tracer,
		logger:  logger,
	}
}

type geocodeResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address domain.Address) (*domain.GeoPoint, error) {
	ctx, span := g.tracer.Start(ctx, "Geocoder.Geocode")
	defer span.End()

	query := strings.TrimSpace(strings.Join([]string{
		address.StreetNumber, address.Street, address.City,
		address.State, address.Postcode, address.Country,
	}, " "))
	if query == "" {
		return nil, fmt.Errorf("empty address")
	}

	result, breakerErr := g.cb.Execute(func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s", g.baseURL, url.QueryEscape(query))
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}

		response, err := g.client.Do(request)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("geocoder returned status %d", response.StatusCode)
		}

		var places []geocodeResponse
		if err := json.NewDecoder(response.Body).Decode(&places); err != nil {
			return nil, err
		}
		if len(places) == 0 {
			return nil, fmt.Errorf("no match for address")
		}
		return places[0], nil
	})

	if breakerErr != nil {
		g.logger.Warnf("geocoding request failed: %s", breakerErr)
		return nil, fmt.Errorf("%s: %w", errors.GeocodingUnavailable, breakerErr)
	}

	place := result.(geocodeResponse)
	lat, latErr := strconv.ParseFloat(place.Lat, 64)
	lng, lngErr := strconv.ParseFloat(place.Lon, 64)
	if latErr != nil || lngErr != nil {
		return nil, fmt.Errorf("geocoder returned malformed coordinates")
	}

	point := domain.NewGeoPoint(lng, lat)
	if !point.Valid() {
		return nil, fmt.Errorf("geocoder returned out-of-range coordinates")
	}
	return point, nil
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logrus.Printf("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
