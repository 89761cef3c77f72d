package usecase

import (
	"context"
	"log/slog"
	"time"

	"stock_dashboard/internal/feature/bars/domain/entity"
	"stock_dashboard/internal/platform/metrics"
	"stock_dashboard/internal/shared/ratelimiter"
)

// DefaultLookback は取得期間が未指定の場合に使う既定値です。
const DefaultLookback = "1y"

// validLookbacks はBar Sourceに渡せる取得期間のホワイトリストです。
var validLookbacks = map[string]struct{}{
	"1mo": {}, "3mo": {}, "6mo": {}, "1y": {}, "2y": {}, "5y": {}, "max": {},
}

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetDailyBars は指定された銘柄の日足バーを取得期間分、時刻昇順で返します。
	// 未知の銘柄は空スライス（エラーなし）として返ります。
	GetDailyBars(ctx context.Context, ticker, lookback string) ([]entity.Bar, error)
}

// BarRepository はバーの永続化レイヤーを抽象化します。
type BarRepository interface {
	// UpsertBatch は (ticker, time) をユニークキーとして挿入します。既存行は
	// 変更せずスキップし、新規に書き込んだ行数を返します。途中で失敗した場合も
	// それまでに書き込めた行数を返します。
	UpsertBatch(ctx context.Context, bars []entity.Bar) (int64, error)

	// QueryRange は指定銘柄のバーを時刻昇順で返します。ゼロ値の境界は無制限を
	// 意味します。
	QueryRange(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error)

	// ListTickers は保存済み銘柄の一覧を最新バー時刻の降順で返します。
	ListTickers(ctx context.Context) ([]entity.TickerSummary, error)
}

// IngestResult は1回の取り込み処理の結果を表します。
type IngestResult struct {
	Ticker       string    // 正規化済み銘柄コード
	RowsImported int       // Bar Sourceから取得した件数（既存行も含む）
	RowsWritten  int64     // 新規にストアへ書き込んだ件数
	FirstDate    time.Time // 取得したバー列の先頭日付
	LastDate     time.Time // 取得したバー列の末尾日付
}

// IngestUsecase は外部ソースからバーを取得し、ストアに永続化するユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	bars        BarRepository
	rateLimiter ratelimiter.RateLimiterInterface
	metrics     *metrics.Metrics
}

// NewIngestUsecase は新しい IngestUsecase を作成します。metrics は nil 可です。
func NewIngestUsecase(market MarketRepository, bars BarRepository,
	rl ratelimiter.RateLimiterInterface, m *metrics.Metrics) *IngestUsecase {
	return &IngestUsecase{market: market, bars: bars, rateLimiter: rl, metrics: m}
}

// Ingest は指定銘柄の日足バーを取得期間分フェッチし、ストアへ冪等に書き込みます。
//
// RowsImported はソースが返した件数であり、新規書き込み件数ではありません。
// すべてのバーが既に保存済みでもフェッチ成功を呼び出し元へ伝えるためです。
func (iu *IngestUsecase) Ingest(ctx context.Context, ticker, lookback string) (*IngestResult, error) {
	sym, ok := entity.NormalizeTicker(ticker)
	if !ok {
		return nil, ErrInvalidInput
	}
	if lookback == "" {
		lookback = DefaultLookback
	}
	if _, ok := validLookbacks[lookback]; !ok {
		return nil, ErrInvalidInput
	}

	iu.rateLimiter.WaitIfNeeded()

	start := time.Now()
	fetched, err := iu.market.GetDailyBars(ctx, sym, lookback)
	if err != nil {
		slog.Error("failed to fetch bars from source", "ticker", sym, "lookback", lookback, "error", err)
		return nil, ErrSourceUnavailable
	}
	if len(fetched) == 0 {
		// 未知の銘柄、またはデータ欠落。黙って成功にはしない。
		return nil, ErrNoDataFound
	}

	// 取得したデータに正規化済みの銘柄コードを設定
	for i := range fetched {
		fetched[i].Ticker = sym
	}

	written, err := iu.bars.UpsertBatch(ctx, fetched)
	if err != nil {
		slog.Error("failed to upsert bars", "ticker", sym,
			"fetched", len(fetched), "written", written, "error", err)
		return nil, ErrStoreUnavailable
	}

	if iu.metrics != nil {
		iu.metrics.BarsFetched.Add(float64(len(fetched)))
		iu.metrics.BarsWritten.Add(float64(written))
		iu.metrics.IngestDuration.Observe(time.Since(start).Seconds())
	}
	slog.Info("ingest complete", "ticker", sym,
		"fetched", len(fetched), "written", written)

	return &IngestResult{
		Ticker:       sym,
		RowsImported: len(fetched),
		RowsWritten:  written,
		FirstDate:    fetched[0].Time,
		LastDate:     fetched[len(fetched)-1].Time,
	}, nil
}
