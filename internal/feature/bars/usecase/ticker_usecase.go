package usecase

import (
	"context"
	"log/slog"

	"stock_dashboard/internal/feature/bars/domain/entity"
)

// TickerUsecase provides the listing of stored tickers with freshness metadata.
type TickerUsecase struct {
	bars BarRepository
}

// NewTickerUsecase creates a new TickerUsecase with the given repository.
func NewTickerUsecase(bars BarRepository) *TickerUsecase {
	return &TickerUsecase{bars: bars}
}

// List returns all stored tickers ordered by their latest bar time, newest first.
func (tu *TickerUsecase) List(ctx context.Context) ([]entity.TickerSummary, error) {
	summaries, err := tu.bars.ListTickers(ctx)
	if err != nil {
		slog.Error("failed to list tickers", "error", err)
		return nil, ErrStoreUnavailable
	}
	return summaries, nil
}
