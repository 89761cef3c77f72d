// Package handler はbarsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/feature/bars/domain/entity"
	"stock_dashboard/internal/feature/bars/transport/http/dto"
	"stock_dashboard/internal/feature/bars/usecase"
)

const dateLayout = "2006-01-02"

// IngestUsecase は取り込み処理のユースケースインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type IngestUsecase interface {
	Ingest(ctx context.Context, ticker, lookback string) (*usecase.IngestResult, error)
}

// IndicatorUsecase は指標計算のユースケースインターフェースです。
type IndicatorUsecase interface {
	Compute(ctx context.Context, ticker string) ([]entity.IndicatorRecord, error)
}

// TickerUsecase は銘柄一覧のユースケースインターフェースです。
type TickerUsecase interface {
	List(ctx context.Context) ([]entity.TickerSummary, error)
}

// BarsHandler はバー関連のHTTPリクエストを処理します。
type BarsHandler struct {
	ingest     IngestUsecase
	indicators IndicatorUsecase
	tickers    TickerUsecase
}

// NewBarsHandler は指定されたユースケース群でBarsHandlerの新しいインスタンスを生成します。
func NewBarsHandler(ingest IngestUsecase, indicators IndicatorUsecase, tickers TickerUsecase) *BarsHandler {
	return &BarsHandler{ingest: ingest, indicators: indicators, tickers: tickers}
}

// statusForError はエラー種別をHTTPステータスに対応付けます。
// どのエンドポイントも同じ規約に従います。
func statusForError(err error) int {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNoDataFound):
		return http.StatusNotFound
	default:
		// ErrSourceUnavailable / ErrStoreUnavailable / 想定外
		return http.StatusInternalServerError
	}
}

// Fetch は外部ソースから銘柄のバーを取得し、ストアへ取り込みます。
//
// エンドポイント例:
// GET /api/fetch/:ticker?lookback=1y
func (h *BarsHandler) Fetch(c *gin.Context) {
	ticker := c.Param("ticker")
	lookback := c.DefaultQuery("lookback", usecase.DefaultLookback)

	result, err := h.ingest.Ingest(c.Request.Context(), ticker, lookback)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FetchResponse{
		Ticker:       result.Ticker,
		RowsImported: result.RowsImported,
		DateRange: result.FirstDate.UTC().Format(dateLayout) +
			" to " + result.LastDate.UTC().Format(dateLayout),
	})
}

// Indicators は銘柄の指標系列を返します。表示用の切り詰め（末尾limit件）は
// ここで行い、計算エンジン自体は全履歴を返します。
//
// エンドポイント例:
// GET /api/indicators/:ticker?limit=250
func (h *BarsHandler) Indicators(c *gin.Context) {
	ticker := c.Param("ticker")
	// 0以下は全履歴
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	records, err := h.indicators.Compute(c.Request.Context(), ticker)
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	out := make([]dto.IndicatorPoint, 0, len(records))
	for _, r := range records {
		out = append(out, dto.IndicatorPoint{
			Time:    r.Time.UTC().Format(dateLayout),
			Open:    r.Open,
			High:    r.High,
			Low:     r.Low,
			Close:   r.Close,
			Volume:  r.Volume,
			SMA20:   r.SMA20,
			SMA50:   r.SMA50,
			SMA100:  r.SMA100,
			BBMid:   r.BBMid,
			BBUpper: r.BBUpper,
			BBLower: r.BBLower,
		})
	}

	// Computeが成功した時点で正規化は通っている
	sym, _ := entity.NormalizeTicker(ticker)

	c.JSON(http.StatusOK, dto.IndicatorsResponse{
		Ticker: sym,
		Data:   out,
	})
}

// Tickers は保存済み銘柄の一覧を鮮度メタデータ付きで返します。
//
// エンドポイント例:
// GET /api/tickers
func (h *BarsHandler) Tickers(c *gin.Context) {
	summaries, err := h.tickers.List(c.Request.Context())
	if err != nil {
		c.JSON(statusForError(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.TickerItem, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, dto.TickerItem{
			Ticker:      s.Ticker,
			DataPoints:  s.Count,
			LastUpdated: s.LastTime.UTC().Format(dateLayout),
		})
	}

	c.JSON(http.StatusOK, dto.TickersResponse{Tickers: out})
}
