package usecase

import (
	"context"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/stat"

	"stock_dashboard/internal/feature/bars/domain/entity"
	"stock_dashboard/internal/platform/metrics"
)

const (
	bbWindow = 20  // Bollinger Bandsの窓幅
	bbWidth  = 2.0 // 中心線からのバンド幅（標準偏差の倍数）
)

// smaWindows は算出対象の単純移動平均の窓幅です。
var smaWindows = [3]int{20, 50, 100}

// IndicatorUsecase は保存済みバー履歴からテクニカル指標を導出するユースケースです。
type IndicatorUsecase struct {
	bars    BarRepository
	metrics *metrics.Metrics
}

// NewIndicatorUsecase は新しい IndicatorUsecase を作成します。metrics は nil 可です。
func NewIndicatorUsecase(bars BarRepository, m *metrics.Metrics) *IndicatorUsecase {
	return &IndicatorUsecase{bars: bars, metrics: m}
}

// Compute は指定銘柄の全履歴を読み込み、SMA(20/50/100)とBollinger Bands(20, ×2σ)
// を付与したレコード列を時刻昇順で返します。履歴の長さと時刻の対応は保存済み
// バー列と1:1です。表示用の末尾N件への切り詰めはAPIレイヤーの責務です。
func (iu *IndicatorUsecase) Compute(ctx context.Context, ticker string) ([]entity.IndicatorRecord, error) {
	sym, ok := entity.NormalizeTicker(ticker)
	if !ok {
		return nil, ErrInvalidInput
	}

	// ゼロ値の境界 = 全履歴
	bars, err := iu.bars.QueryRange(ctx, sym, time.Time{}, time.Time{})
	if err != nil {
		slog.Error("failed to query bars", "ticker", sym, "error", err)
		return nil, ErrStoreUnavailable
	}
	if len(bars) == 0 {
		return nil, ErrNoDataFound
	}

	start := time.Now()
	records := computeIndicators(bars)
	if iu.metrics != nil {
		iu.metrics.ComputeDuration.Observe(time.Since(start).Seconds())
	}
	return records, nil
}

// computeIndicators は時刻昇順のバー列から指標列を導出する純粋関数です。
func computeIndicators(bars []entity.Bar) []entity.IndicatorRecord {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	records := make([]entity.IndicatorRecord, len(bars))
	for i, b := range bars {
		rec := entity.IndicatorRecord{
			Time:   b.Time,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}

		rec.SMA20 = smaAt(closes, i, smaWindows[0])
		rec.SMA50 = smaAt(closes, i, smaWindows[1])
		rec.SMA100 = smaAt(closes, i, smaWindows[2])

		// Bollinger Bands: 中心線はSMA20、バンド幅は標本標準偏差（n-1で除算）の
		// 2倍。母標準偏差ではない点が数値上重要。
		if i >= bbWindow-1 {
			window := closes[i-bbWindow+1 : i+1]
			mid := stat.Mean(window, nil)
			sd := stat.StdDev(window, nil)
			upper := mid + bbWidth*sd
			lower := mid - bbWidth*sd
			rec.BBMid = &mid
			rec.BBUpper = &upper
			rec.BBLower = &lower
		}

		records[i] = rec
	}
	return records
}

// smaAt は位置iで終わる窓幅window本の単純移動平均を返します。
// 窓が埋まっていない先頭window-1件ではnil（未定義）を返します。
func smaAt(closes []float64, i, window int) *float64 {
	if i < window-1 {
		return nil
	}
	m := stat.Mean(closes[i-window+1:i+1], nil)
	return &m
}
