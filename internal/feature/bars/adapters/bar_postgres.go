// Package adapters はbarsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_dashboard/internal/feature/bars/domain/entity"
	"stock_dashboard/internal/feature/bars/usecase"
)

// upsertChunkSize is the number of bars written per INSERT statement.
// Chunking keeps statement size bounded and lets a mid-batch failure report
// how many rows were already written.
const upsertChunkSize = 200

type barPostgres struct {
	db *gorm.DB
}

var _ usecase.BarRepository = (*barPostgres)(nil)

// NewBarRepository は指定されたDB接続でbarリポジトリの新しいインスタンスを生成します。
func NewBarRepository(db *gorm.DB) *barPostgres {
	return &barPostgres{db: db}
}

// BarModel is the persistence model for one daily bar.
//
// The composite unique index on (ticker, time) is what makes UpsertBatch
// idempotent: without it ON CONFLICT DO NOTHING has no constraint to match
// and every re-ingestion would insert duplicates. AutoMigrate must create it.
type BarModel struct {
	ID     uint      `gorm:"primaryKey"`
	Ticker string    `gorm:"size:16;not null;uniqueIndex:bar_ticker_time,priority:1"`
	Time   time.Time `gorm:"not null;uniqueIndex:bar_ticker_time,priority:2"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (BarModel) TableName() string {
	return "stock_prices"
}

func toModel(e entity.Bar) BarModel {
	return BarModel{
		Ticker: e.Ticker,
		Time:   e.Time,
		Open:   e.Open,
		High:   e.High,
		Low:    e.Low,
		Close:  e.Close,
		Volume: e.Volume,
	}
}

func toEntity(m BarModel) entity.Bar {
	return entity.Bar{
		Ticker: m.Ticker,
		Time:   m.Time,
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  m.Close,
		Volume: m.Volume,
	}
}

// UpsertBatch は (ticker, time) をユニークキーとして挿入します。既存行は変更せず
// スキップします（プロバイダー訂正の上書きは行わない方針）。戻り値は新規に
// 書き込んだ行数で、途中で失敗した場合もそれまでの書き込み数を返します。
func (r *barPostgres) UpsertBatch(ctx context.Context, bars []entity.Bar) (int64, error) {
	var written int64
	for start := 0; start < len(bars); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(bars) {
			end = len(bars)
		}
		ms := make([]BarModel, 0, end-start)
		for _, e := range bars[start:end] {
			ms = append(ms, toModel(e))
		}

		res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}, {Name: "time"}},
			DoNothing: true,
		}).Create(&ms)
		if res.Error != nil {
			return written, res.Error
		}
		written += res.RowsAffected
	}
	return written, nil
}

// QueryRange は指定銘柄のバーを時刻昇順で返します。fromとtoのゼロ値は無制限を
// 意味します。該当行がない場合は空スライス（エラーなし）を返します。
func (r *barPostgres) QueryRange(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error) {
	q := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("time ASC")
	if !from.IsZero() {
		q = q.Where("time >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("time <= ?", to)
	}

	var rows []BarModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Bar, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// ListTickers は保存済み銘柄ごとの件数と最新バー時刻を、最新時刻の降順で返します。
func (r *barPostgres) ListTickers(ctx context.Context) ([]entity.TickerSummary, error) {
	type countRow struct {
		Ticker string
		Count  int64
	}
	var counts []countRow
	if err := r.db.WithContext(ctx).
		Model(&BarModel{}).
		Select("ticker, COUNT(*) AS count").
		Group("ticker").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	// MAX(time) のスキャン結果の型はドライバにより異なるため（sqliteは文字列、
	// postgresはtimestamptz）、最新バーはモデル経由で銘柄ごとに読み出す。
	out := make([]entity.TickerSummary, 0, len(counts))
	for _, c := range counts {
		var latest BarModel
		if err := r.db.WithContext(ctx).
			Where("ticker = ?", c.Ticker).
			Order("time DESC").
			First(&latest).Error; err != nil {
			return nil, err
		}
		out = append(out, entity.TickerSummary{
			Ticker:   c.Ticker,
			Count:    c.Count,
			LastTime: latest.Time,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].LastTime.After(out[j].LastTime)
	})
	return out, nil
}
