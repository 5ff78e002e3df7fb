package usecase

import (
	"context"
	"fmt"
	"time"

	"EquiScreen/internal/domain/models"
	domrepo "EquiScreen/internal/domain/repository"
	applogger "EquiScreen/pkg/logger"
)

// PerformanceUseCase replays a portfolio allocation over a historical
// window: shares are bought at the first close on or after the start date
// and valued at the last close on or before the end date.
type PerformanceUseCase struct {
	prices domrepo.PriceSource
	l      *applogger.Logger
}

func NewPerformanceUseCase(prices domrepo.PriceSource, l *applogger.Logger) *PerformanceUseCase {
	return &PerformanceUseCase{prices: prices, l: l}
}

type PerformanceParams struct {
	Allocations []models.Allocation
	TotalMoney  float64
	Start       time.Time
	End         time.Time
}

// Calculate builds the performance report. Symbols without any price data
// inside the window are reported under Errors and excluded from every
// aggregate; allocation percentages are applied as given, without
// renormalization.
func (uc *PerformanceUseCase) Calculate(ctx context.Context, p PerformanceParams) (*models.PerformanceReport, error) {
	if p.Start.After(p.End) {
		return nil, models.ErrInvalidRange
	}

	report := &models.PerformanceReport{
		TotalMoney:           p.TotalMoney,
		StartDate:            p.Start,
		EndDate:              p.End,
		DetailedPerformances: make([]models.HoldingPerformance, 0, len(p.Allocations)),
		Errors:               make(map[string]string),
	}

	for _, alloc := range p.Allocations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		holding, err := uc.replayHolding(ctx, alloc, p)
		if err != nil {
			report.Errors[alloc.Symbol] = err.Error()
			if uc.l != nil {
				uc.l.Warn("allocation excluded from performance report",
					applogger.String("symbol", alloc.Symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		report.DetailedPerformances = append(report.DetailedPerformances, *holding)
		report.InitialValue += holding.InitialValue
		report.FinalValue += holding.FinalValue
	}

	report.TotalGainLoss = report.FinalValue - report.InitialValue
	if report.InitialValue != 0 {
		report.TotalGainLossPercentage = report.TotalGainLoss / report.InitialValue * 100.0
	}

	// contribution percentages need the run total, so a second pass
	for i := range report.DetailedPerformances {
		h := &report.DetailedPerformances[i]
		if report.TotalGainLoss != 0 {
			h.ContributionPercentage = h.GainLoss / report.TotalGainLoss * 100.0
		}
	}

	if len(report.Errors) == 0 {
		report.Errors = nil
	}
	return report, nil
}

func (uc *PerformanceUseCase) replayHolding(ctx context.Context, alloc models.Allocation, p PerformanceParams) (*models.HoldingPerformance, error) {
	series, err := uc.prices.History(ctx, alloc.Symbol, domrepo.TFDaily, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	initial, ok := models.FirstOnOrAfter(series, p.Start)
	if !ok {
		return nil, models.ErrNoPriceData
	}
	final, ok := models.LastOnOrBefore(series, p.End)
	if !ok {
		return nil, models.ErrNoPriceData
	}
	if initial.Close == 0 {
		return nil, fmt.Errorf("%s: zero initial close: %w", alloc.Symbol, models.ErrDivisionUndefined)
	}

	invested := p.TotalMoney * alloc.Percentage / 100.0
	shares := invested / initial.Close

	holding := &models.HoldingPerformance{
		Symbol:         alloc.Symbol,
		Percentage:     alloc.Percentage,
		InvestedAmount: invested,
		Shares:         shares,
		InitialPrice:   initial.Close,
		FinalPrice:     final.Close,
		InitialValue:   shares * initial.Close,
		FinalValue:     shares * final.Close,
		DailyValues:    make([]models.DailyValue, 0, len(series)),
	}
	holding.GainLoss = holding.FinalValue - holding.InitialValue
	holding.GainLossPercentage = holding.GainLoss / holding.InitialValue * 100.0

	for _, point := range series {
		if point.Date.Before(initial.Date) || point.Date.After(final.Date) {
			continue
		}
		holding.DailyValues = append(holding.DailyValues, models.DailyValue{
			Date:  point.Date,
			Close: point.Close,
			Value: shares * point.Close,
		})
	}
	return holding, nil
}
