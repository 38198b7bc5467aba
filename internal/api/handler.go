package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/yegors/flight-tracker/internal/flights"
	"github.com/yegors/flight-tracker/internal/storage/sqlite"
	"github.com/yegors/flight-tracker/pkg/logger"
)

// FlightService is the proxy service the handlers delegate to
type FlightService interface {
	ListLiveFlights(ctx context.Context, filter flights.QueryFilter) (*flights.Result, error)
	SearchFlight(ctx context.Context, filter flights.QueryFilter) (*flights.Result, error)
	ListAirports(ctx context.Context, filter flights.QueryFilter) (*flights.Result, error)
	ListAirlines(ctx context.Context, filter flights.QueryFilter) (*flights.Result, error)
}

// QueryLog stores and lists query records. A nil QueryLog disables logging.
type QueryLog interface {
	StoreQuery(ctx context.Context, record *sqlite.QueryRecord) (int64, error)
	GetRecentQueries(ctx context.Context, limit int) ([]*sqlite.QueryRecord, error)
	GetQueriesByOperation(ctx context.Context, operation string, limit int) ([]*sqlite.QueryRecord, error)
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// isoMillis matches the ISO 8601 form browsers produce
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Handler serves the API endpoints
type Handler struct {
	service   FlightService
	queryLog  QueryLog
	maxRecent int
	now       func() time.Time
	logger    *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(service FlightService, queryLog QueryLog, maxRecent int, logger *logger.Logger) *Handler {
	if maxRecent <= 0 {
		maxRecent = 100
	}
	return &Handler{
		service:   service,
		queryLog:  queryLog,
		maxRecent: maxRecent,
		now:       time.Now,
		logger:    logger.Named("api-handler"),
	}
}

// GetLiveFlights handles GET /api/flights/live
func (h *Handler) GetLiveFlights(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, flights.OpLiveFlights, h.service.ListLiveFlights)
}

// SearchFlight handles GET /api/flights/search
func (h *Handler) SearchFlight(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, flights.OpSearchFlight, h.service.SearchFlight)
}

// GetAirports handles GET /api/airports
func (h *Handler) GetAirports(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, flights.OpAirports, h.service.ListAirports)
}

// GetAirlines handles GET /api/airlines
func (h *Handler) GetAirlines(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, flights.OpAirlines, h.service.ListAirlines)
}

// GetHealth handles GET /health
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(isoMillis),
	})
}

// GetRecentQueries handles GET /api/queries/recent. An operation parameter
// narrows the list to one operation.
func (h *Handler) GetRecentQueries(w http.ResponseWriter, r *http.Request) {
	if h.queryLog == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Query log is disabled"})
		return
	}

	limit := h.maxRecent
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = min(n, h.maxRecent)
	}

	var (
		records []*sqlite.QueryRecord
		err     error
	)
	if operation := r.URL.Query().Get("operation"); operation != "" {
		records, err = h.queryLog.GetQueriesByOperation(r.Context(), operation, limit)
	} else {
		records, err = h.queryLog.GetRecentQueries(r.Context(), limit)
	}
	if err != nil {
		h.logger.Error("Failed to list queries", logger.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to list queries"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

type operationFunc func(ctx context.Context, filter flights.QueryFilter) (*flights.Result, error)

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, op flights.Operation, call operationFunc) {
	start := time.Now()
	query := r.URL.Query()

	record := &sqlite.QueryRecord{
		RequestID: middleware.GetReqID(r.Context()),
		Operation: op.Name,
		Params:    sanitizeParams(query),
	}

	result, err := call(r.Context(), filterFromQuery(query))
	if err != nil {
		resp, status := h.errorResponse(op, err)
		record.StatusCode = status
		record.Error = resp.Error
		h.storeQuery(r.Context(), record, start)
		writeJSON(w, status, resp)
		return
	}

	record.StatusCode = http.StatusOK
	record.Records = result.Count
	record.Upstream = result.Upstream
	h.storeQuery(r.Context(), record, start)
	writeRawJSON(w, http.StatusOK, result.Body)
}

func (h *Handler) errorResponse(op flights.Operation, err error) (ErrorResponse, int) {
	var opErr *flights.OpError
	if errors.As(err, &opErr) {
		return ErrorResponse{Error: opErr.Message(), Details: opErr.Details()}, opErr.StatusCode()
	}

	h.logger.Error("Unclassified operation failure", logger.String("op", op.Name), logger.Error(err))
	return ErrorResponse{Error: op.FailureMessage, Details: err.Error()}, http.StatusInternalServerError
}

// storeQuery runs before the response is written
func (h *Handler) storeQuery(ctx context.Context, record *sqlite.QueryRecord, start time.Time) {
	if h.queryLog == nil {
		return
	}
	record.DurationMS = time.Since(start).Milliseconds()
	if _, err := h.queryLog.StoreQuery(context.WithoutCancel(ctx), record); err != nil {
		h.logger.Warn("Failed to store query record",
			logger.String("operation", record.Operation),
			logger.Error(err),
		)
	}
}

// filterFromQuery reads the recognized query fields. Empty values count as absent.
func filterFromQuery(query url.Values) flights.QueryFilter {
	return flights.QueryFilter{
		Search:       query.Get("search"),
		Limit:        query.Get("limit"),
		Status:       query.Get("flight_status"),
		Airline:      query.Get("airline"),
		FlightIATA:   query.Get("flight_iata"),
		FlightNumber: query.Get("flight_number"),
	}
}

// sanitizeParams encodes the inbound query for the query log without any
// access key a caller may have sent.
func sanitizeParams(query url.Values) string {
	clean := url.Values{}
	for key, values := range query {
		if key == "access_key" {
			continue
		}
		clean[key] = values
	}
	return clean.Encode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"Failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	writeRawJSON(w, status, body)
}

func writeRawJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
