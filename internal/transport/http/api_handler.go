package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"hunger-insights/internal/app"
	"hunger-insights/internal/domain"
)

var (
	errInvalidPayload  = errors.New("invalid payload")
	errUnsupportedType = errors.New("unsupported message type")
)

// APIHandler serves the impact calculator and dashboard insights as JSON.
type APIHandler struct {
	impact      *app.ImpactService
	insights    *app.InsightService
	defaultYear int
	log         *zap.Logger
}

func NewAPIHandler(impact *app.ImpactService, insights *app.InsightService, defaultYear int, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{impact: impact, insights: insights, defaultYear: defaultYear, log: log}
}

// Routes registers the API on mux. wrap decorates each handler with its route name.
func (h *APIHandler) Routes(mux *http.ServeMux, wrap func(route string, next http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(_ string, next http.Handler) http.Handler { return next }
	}
	mux.Handle("/api/impact", wrap("impact", http.HandlerFunc(h.Impact)))
	mux.Handle("/api/countries", wrap("countries", http.HandlerFunc(h.Countries)))
	mux.Handle("/api/insights/severity", wrap("severity", http.HandlerFunc(h.Severity)))
	mux.Handle("/api/insights/top", wrap("top", http.HandlerFunc(h.Top)))
	mux.Handle("/api/insights/improvers", wrap("improvers", http.HandlerFunc(h.Improvers)))
	mux.Handle("/api/insights/trend", wrap("trend", http.HandlerFunc(h.Trend)))
}

func (h *APIHandler) Impact(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	req := app.ImpactRequest{
		Country:     r.URL.Query().Get("country"),
		Year:        q.intParam("year", 0),
		Donation:    q.floatParam("donation"),
		BaseCost:    q.floatParam("baseCost"),
		Adjust:      q.boolParam("adjust"),
		Sensitivity: q.floatParam("sensitivity"),
		Elasticity:  q.floatParam("elasticity"),
		Visibility:  q.floatParam("visibility"),
	}
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	report, err := h.impact.Calculate(r.Context(), req)
	h.respond(w, report, err)
}

func (h *APIHandler) Countries(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	year := q.intParam("year", h.defaultYear)
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	countries, err := h.insights.Countries(r.Context(), year)
	h.respond(w, countries, err)
}

func (h *APIHandler) Severity(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	year := q.intParam("year", h.defaultYear)
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	buckets, err := h.insights.Severity(r.Context(), year)
	h.respond(w, buckets, err)
}

func (h *APIHandler) Top(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	year := q.intParam("year", h.defaultYear)
	limit := q.intParam("limit", 10)
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	top, err := h.insights.Top(r.Context(), year, limit)
	h.respond(w, top, err)
}

func (h *APIHandler) Improvers(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	from := q.intParam("from", 0)
	to := q.intParam("to", h.defaultYear)
	limit := q.intParam("limit", 10)
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	improvers, err := h.insights.Improvers(r.Context(), from, to, limit)
	h.respond(w, improvers, err)
}

func (h *APIHandler) Trend(w http.ResponseWriter, r *http.Request) {
	q := query{r: r}
	from := q.intParam("from", 0)
	to := q.intParam("to", 0)
	if q.err != nil {
		h.fail(w, q.err)
		return
	}
	trend, err := h.insights.Trend(r.Context(), from, to)
	h.respond(w, trend, err)
}

func (h *APIHandler) respond(w http.ResponseWriter, body any, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("api request failed", zap.Error(err))
	}
	writeJSON(w, status, errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPredictionNotFound), errors.Is(err, domain.ErrBankNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON encodes before writing the header; an unencodable body becomes
// a 500 with an error message.
func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(errorPayload{Message: "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// query parses optional parameters, keeping the first parse error.
type query struct {
	r   *http.Request
	err error
}

func (q *query) raw(name string) (string, bool) {
	v := q.r.URL.Query().Get(name)
	return v, v != ""
}

func (q *query) intParam(name string, fallback int) int {
	v, ok := q.raw(name)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.setErr(name, v)
		return fallback
	}
	return n
}

func (q *query) floatParam(name string) *float64 {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		q.setErr(name, v)
		return nil
	}
	return &f
}

func (q *query) boolParam(name string) *bool {
	v, ok := q.raw(name)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.setErr(name, v)
		return nil
	}
	return &b
}

func (q *query) setErr(name, value string) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: bad %s %q", domain.ErrInvalidInput, name, value)
	}
}
