package flights

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/yegors/flight-tracker/internal/aviation"
	"github.com/yegors/flight-tracker/pkg/logger"
)

// Operation describes one proxied query
type Operation struct {
	Name            string
	Resource        aviation.Resource
	NotFoundMessage string
	FailureMessage  string
}

var (
	OpLiveFlights = Operation{
		Name:            "live_flights",
		Resource:        aviation.ResourceFlights,
		NotFoundMessage: "No flight data available",
		FailureMessage:  "Failed to fetch live flights",
	}
	OpSearchFlight = Operation{
		Name:            "search_flight",
		Resource:        aviation.ResourceFlights,
		NotFoundMessage: "Flight not found",
		FailureMessage:  "Failed to search flight",
	}
	OpAirports = Operation{
		Name:            "airports",
		Resource:        aviation.ResourceAirports,
		NotFoundMessage: "No airports found",
		FailureMessage:  "Failed to fetch airports",
	}
	OpAirlines = Operation{
		Name:            "airlines",
		Resource:        aviation.ResourceAirlines,
		NotFoundMessage: "No airlines found",
		FailureMessage:  "Failed to fetch airlines",
	}
)

// MsgFlightIdentRequired is returned when a search names no flight
const MsgFlightIdentRequired = "Flight IATA or flight number required"

// Upstream fetches a resource from the flight-data provider
type Upstream interface {
	Get(ctx context.Context, resource aviation.Resource, params url.Values) (*aviation.Envelope, error)
}

// QueryFilter carries the caller-supplied query fields. Empty means absent.
type QueryFilter struct {
	Search       string
	Limit        string
	Status       string
	Airline      string
	FlightIATA   string
	FlightNumber string
}

// Limits are the defaults applied when a caller sends no limit
type Limits struct {
	Flights int
	Catalog int
}

// Result is a successful operation outcome
type Result struct {
	// Body is the JSON envelope to return, {"data": [...], ...passthrough}
	Body []byte
	// Count is the number of records in Body
	Count int
	// Upstream is the number of records the provider returned before filtering
	Upstream int
}

// Service maps inbound queries to upstream calls and filters the results.
// It holds no state between calls.
type Service struct {
	upstream Upstream
	limits   Limits
	logger   *logger.Logger
}

// NewService creates a new proxy service
func NewService(upstream Upstream, limits Limits, logger *logger.Logger) *Service {
	if limits.Flights <= 0 {
		limits.Flights = 20
	}
	if limits.Catalog <= 0 {
		limits.Catalog = 50
	}
	return &Service{
		upstream: upstream,
		limits:   limits,
		logger:   logger.Named("flights-svc"),
	}
}

// ListLiveFlights forwards status and airline filters to the provider
func (s *Service) ListLiveFlights(ctx context.Context, filter QueryFilter) (*Result, error) {
	params := url.Values{}
	params.Set("limit", limitOr(filter.Limit, s.limits.Flights))
	if filter.Status != "" {
		params.Set("flight_status", filter.Status)
	}
	if filter.Airline != "" {
		params.Set("airline_name", filter.Airline)
	}

	env, err := s.fetch(ctx, OpLiveFlights, params)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, &OpError{Op: OpLiveFlights, Err: ErrNotFound}
	}

	count := env.Count()
	return &Result{Body: env.Body, Count: count, Upstream: count}, nil
}

// SearchFlight looks up a flight by IATA code and/or flight number
func (s *Service) SearchFlight(ctx context.Context, filter QueryFilter) (*Result, error) {
	if filter.FlightIATA == "" && filter.FlightNumber == "" {
		return nil, &OpError{Op: OpSearchFlight, Err: &ValidationError{Message: MsgFlightIdentRequired}}
	}

	params := url.Values{}
	if filter.FlightIATA != "" {
		params.Set("flight_iata", filter.FlightIATA)
	}
	if filter.FlightNumber != "" {
		params.Set("flight_number", filter.FlightNumber)
	}

	env, err := s.fetch(ctx, OpSearchFlight, params)
	if err != nil {
		return nil, err
	}
	count := env.Count()
	if !env.HasData() || count == 0 {
		return nil, &OpError{Op: OpSearchFlight, Err: ErrNotFound}
	}

	return &Result{Body: env.Body, Count: count, Upstream: count}, nil
}

// ListAirports fetches airports and keeps those matching the search term.
// The upstream limit applies before the search filter.
func (s *Service) ListAirports(ctx context.Context, filter QueryFilter) (*Result, error) {
	return s.listCatalog(ctx, OpAirports, filter, func(body []byte, term string) ([]byte, int, error) {
		return filterEnvelope(body, term, aviation.ParseAirport, MatchAirport)
	})
}

// ListAirlines fetches airlines and keeps those matching the search term.
// The upstream limit applies before the search filter.
func (s *Service) ListAirlines(ctx context.Context, filter QueryFilter) (*Result, error) {
	return s.listCatalog(ctx, OpAirlines, filter, func(body []byte, term string) ([]byte, int, error) {
		return filterEnvelope(body, term, aviation.ParseAirline, MatchAirline)
	})
}

type filterFunc func(body []byte, term string) ([]byte, int, error)

func (s *Service) listCatalog(ctx context.Context, op Operation, filter QueryFilter, apply filterFunc) (*Result, error) {
	params := url.Values{}
	params.Set("limit", limitOr(filter.Limit, s.limits.Catalog))

	env, err := s.fetch(ctx, op, params)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, &OpError{Op: op, Err: ErrNotFound}
	}

	total := env.Count()
	if filter.Search == "" {
		return &Result{Body: env.Body, Count: total, Upstream: total}, nil
	}

	body, kept, err := apply(env.Body, filter.Search)
	if err != nil {
		return nil, &OpError{Op: op, Err: err}
	}

	s.logger.Debug("Filtered upstream records",
		logger.String("op", op.Name),
		logger.String("search", filter.Search),
		logger.Int("upstream", total),
		logger.Int("kept", kept),
	)

	return &Result{Body: body, Count: kept, Upstream: total}, nil
}

func (s *Service) fetch(ctx context.Context, op Operation, params url.Values) (*aviation.Envelope, error) {
	start := time.Now()
	env, err := s.upstream.Get(ctx, op.Resource, params)
	if err != nil {
		fields := []logger.Field{
			logger.String("op", op.Name),
			logger.Duration("duration", time.Since(start)),
			logger.Error(err),
		}
		var upstreamErr *aviation.UpstreamError
		if errors.As(err, &upstreamErr) {
			fields = append(fields, logger.Bool("timeout", upstreamErr.Timeout()))
			if len(upstreamErr.Body) > 0 {
				fields = append(fields, logger.ByteString("upstream_body", upstreamErr.Body))
			}
		}
		s.logger.Error(op.FailureMessage, fields...)
		return nil, &OpError{Op: op, Err: err}
	}
	return env, nil
}

// limitOr returns the caller's limit verbatim, or the default. The provider
// validates the value.
func limitOr(limit string, def int) string {
	if limit != "" {
		return limit
	}
	return strconv.Itoa(def)
}
