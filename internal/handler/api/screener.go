package api

import (
	"errors"
	"net/http"
	"time"

	models "EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	"EquiScreen/internal/service/metrics"
	"EquiScreen/internal/service/ratelimit"
	"EquiScreen/internal/services/indicators"
	"EquiScreen/internal/usecase"
	xhttp "EquiScreen/pkg/http"
	xlogger "EquiScreen/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultHistoryYears = 5

// ScreenerHandler implements Echo-based HTTP handlers following Clean Architecture.
type ScreenerHandler struct {
	logger   *xlogger.Logger
	pipeline *usecase.FilterPipeline
	retrieve *usecase.RetrieveUseCase
	history  *usecase.HistoryUseCase
	perf     *usecase.PerformanceUseCase
	symbols  *usecase.SymbolsUseCase
	rl       *ratelimit.Limiter
}

func NewScreenerHandler(
	logger *xlogger.Logger,
	pipeline *usecase.FilterPipeline,
	retrieve *usecase.RetrieveUseCase,
	history *usecase.HistoryUseCase,
	perf *usecase.PerformanceUseCase,
	symbols *usecase.SymbolsUseCase,
) *ScreenerHandler {
	metrics.Register()
	return &ScreenerHandler{
		logger:   logger,
		pipeline: pipeline,
		retrieve: retrieve,
		history:  history,
		perf:     perf,
		symbols:  symbols,
		rl:       ratelimit.New(),
	}
}

func (h *ScreenerHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/trigger_fetch_filtering", h.TriggerFetchFiltering)
	g.POST("/retrieve_filtered_stocks", h.RetrieveFilteredStocks)
	g.POST("/fetch_stock_history", h.FetchStockHistory)
	g.POST("/calculate_performance", h.CalculatePerformance)
}

// TriggerFilterResponse carries the passing symbols of a run plus the
// symbols that errored mid-screen.
type TriggerFilterResponse struct {
	Results map[string]*models.FilterResult `json:"results"`
	Skipped map[string]string               `json:"skipped,omitempty"`
}

func (h *ScreenerHandler) TriggerFetchFiltering(c echo.Context) error {
	start := time.Now()
	endpoint := "trigger_fetch_filtering"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.TriggerFilterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":trigger", 2, 0.2) {
		h.logger.Warn("filter trigger rate_limited", xlogger.String("remote", c.RealIP()))
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}

	ctx := c.Request().Context()
	symbols, err := h.symbols.Resolve(ctx, req.Symbols)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("symbol resolution error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	run, err := h.pipeline.Run(ctx, usecase.RunParams{
		Symbols:    symbols,
		TimeFrames: domrepo.NormalizeTimeframes(req.TimeFrames),
		Selection:  indicators.SelectionFrom(req.Indicators),
		Financial:  req.Financial,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("filter pipeline error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, &TriggerFilterResponse{
		Results: run.Passed,
		Skipped: run.Skipped,
	})
}

func (h *ScreenerHandler) RetrieveFilteredStocks(c echo.Context) error {
	start := time.Now()
	endpoint := "retrieve_filtered_stocks"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.RetrieveFilteredRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	recentDays := 7
	if req.RecentDay != nil {
		recentDays = *req.RecentDay
	}
	res, err := h.retrieve.Retrieve(c.Request().Context(), usecase.RetrieveParams{
		TimeFrames: req.TimeFrames,
		RecentDays: recentDays,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("retrieve usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScreenerHandler) FetchStockHistory(c echo.Context) error {
	start := time.Now()
	endpoint := "fetch_stock_history"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.FetchHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	to := time.Now().UTC()
	from := to.AddDate(-defaultHistoryYears, 0, 0)
	if req.StartDate != "" {
		from, _ = time.Parse("2006-01-02", req.StartDate)
	}
	if req.EndDate != "" {
		to, _ = time.Parse("2006-01-02", req.EndDate)
	}

	ctx := c.Request().Context()
	symbols, err := h.symbols.Resolve(ctx, req.Symbols)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("symbol resolution error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	res, err := h.history.Fetch(ctx, usecase.FetchParams{
		Symbols:    symbols,
		TimeFrames: domrepo.NormalizeTimeframes(req.TimeFrames),
		From:       from,
		To:         to,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("history usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ScreenerHandler) CalculatePerformance(c echo.Context) error {
	start := time.Now()
	endpoint := "calculate_performance"
	defer func() { metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.PerformanceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	allocations := make([]models.Allocation, len(req.Allocations))
	for i, a := range req.Allocations {
		allocations[i] = models.Allocation{Symbol: a.Symbol, Percentage: a.Percentage}
	}

	report, err := h.perf.Calculate(c.Request().Context(), usecase.PerformanceParams{
		Allocations: allocations,
		TotalMoney:  req.TotalMoney,
		Start:       startDate,
		End:         endDate,
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("performance usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

// toAppError maps domain error kinds to HTTP-facing AppErrors.
func toAppError(err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidRange):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrSymbolUnavailable), errors.Is(err, models.ErrNoPriceData):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case errors.Is(err, models.ErrRateLimited):
		return xhttp.NewAppError("ERR_UPSTREAM_THROTTLED", "", err.Error(), http.StatusTooManyRequests).WithError(err)
	default:
		return xhttp.InternalError(err.Error()).WithError(err)
	}
}
