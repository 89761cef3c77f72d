package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/bars/domain/entity"
)

const tol = 1e-9

// barsWithCloses builds ascending daily bars whose closes are 1, 2, ..., n.
// Integer closes make the reference values exact: the sample standard
// deviation of any 20 consecutive integers is sqrt(665/19) = sqrt(35).
func barsWithCloses(ticker string, n int) []entity.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]entity.Bar, 0, n)
	for i := 0; i < n; i++ {
		c := float64(i + 1)
		bars = append(bars, entity.Bar{
			Ticker: ticker,
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 100,
		})
	}
	return bars
}

func repoReturning(bars []entity.Bar) *mockBarRepository {
	return &mockBarRepository{
		QueryRangeFunc: func(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error) {
			return bars, nil
		},
	}
}

func TestIndicatorUsecase_Compute_Errors(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		inputTicker string
		repo        *mockBarRepository
		expectedErr error
	}{
		{
			name:        "error: malformed ticker",
			inputTicker: "??",
			repo:        &mockBarRepository{},
			expectedErr: ErrInvalidInput,
		},
		{
			name:        "error: no stored bars -> NoDataFound",
			inputTicker: "NOSUCHTICKER",
			repo:        repoReturning(nil),
			expectedErr: ErrNoDataFound,
		},
		{
			name:        "error: store failure -> StoreUnavailable",
			inputTicker: "AAPL",
			repo: &mockBarRepository{
				QueryRangeFunc: func(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error) {
					return nil, ErrDB
				},
			},
			expectedErr: ErrStoreUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := NewIndicatorUsecase(tc.repo, nil)
			_, err := uc.Compute(ctx, tc.inputTicker)
			if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}
		})
	}
}

// TestIndicatorUsecase_Compute_Normalizes verifies the query uses the
// normalized ticker as the storage key.
func TestIndicatorUsecase_Compute_Normalizes(t *testing.T) {
	var gotTicker string
	repo := &mockBarRepository{
		QueryRangeFunc: func(ctx context.Context, ticker string, from, to time.Time) ([]entity.Bar, error) {
			gotTicker = ticker
			return barsWithCloses("AAPL", 5), nil
		},
	}

	uc := NewIndicatorUsecase(repo, nil)
	_, err := uc.Compute(context.Background(), " aapl ")

	require.NoError(t, err)
	assert.Equal(t, "AAPL", gotTicker)
}

// TestComputeIndicators_Alignment verifies the output matches the bar history
// 1:1, strictly ascending, with no truncation.
func TestComputeIndicators_Alignment(t *testing.T) {
	bars := barsWithCloses("AAPL", 120)

	records := computeIndicators(bars)

	require.Len(t, records, len(bars), "engine must not truncate")
	for i, r := range records {
		assert.True(t, r.Time.Equal(bars[i].Time), "record %d misaligned", i)
		assert.Equal(t, bars[i].Close, r.Close)
		if i > 0 {
			assert.True(t, records[i-1].Time.Before(r.Time), "records must be strictly ascending")
		}
	}
}

// TestComputeIndicators_WindowEdges verifies definedness exactly at the
// window boundaries: with 19 bars Bollinger fields are nil everywhere, with
// 20 bars they are defined only on the 20th record.
func TestComputeIndicators_WindowEdges(t *testing.T) {
	t.Run("19 bars: bollinger undefined everywhere", func(t *testing.T) {
		records := computeIndicators(barsWithCloses("TEST", 19))
		for i, r := range records {
			assert.Nil(t, r.SMA20, "sma_20 must be undefined at %d", i)
			assert.Nil(t, r.BBMid, "bb_mid must be undefined at %d", i)
			assert.Nil(t, r.BBUpper, "bb_upper must be undefined at %d", i)
			assert.Nil(t, r.BBLower, "bb_lower must be undefined at %d", i)
		}
	})

	t.Run("20 bars: bollinger defined only on the last record", func(t *testing.T) {
		records := computeIndicators(barsWithCloses("TEST", 20))
		for i := 0; i < 19; i++ {
			assert.Nil(t, records[i].BBUpper, "bb_upper must be undefined at %d", i)
		}
		last := records[19]
		require.NotNil(t, last.SMA20)
		require.NotNil(t, last.BBMid)
		require.NotNil(t, last.BBUpper)
		require.NotNil(t, last.BBLower)

		// closes 1..20: mean 10.5, sample std sqrt(35)
		sd := math.Sqrt(35)
		assert.InDelta(t, 10.5, *last.SMA20, tol)
		assert.InDelta(t, 10.5, *last.BBMid, tol)
		assert.InDelta(t, 10.5+2*sd, *last.BBUpper, tol)
		assert.InDelta(t, 10.5-2*sd, *last.BBLower, tol)
	})
}

// TestComputeIndicators_SMA50Definedness verifies sma_50 is undefined for the
// first 49 records and a finite number from the 50th onward.
func TestComputeIndicators_SMA50Definedness(t *testing.T) {
	records := computeIndicators(barsWithCloses("TEST", 60))

	for i := 0; i < 49; i++ {
		assert.Nil(t, records[i].SMA50, "sma_50 must be undefined at %d", i)
	}
	for i := 49; i < 60; i++ {
		require.NotNil(t, records[i].SMA50, "sma_50 must be defined at %d", i)
		assert.False(t, math.IsNaN(*records[i].SMA50) || math.IsInf(*records[i].SMA50, 0))
	}
	// closes 1..50: mean 25.5
	assert.InDelta(t, 25.5, *records[49].SMA50, tol)
	// closes 11..60: mean 35.5
	assert.InDelta(t, 35.5, *records[59].SMA50, tol)
}

// TestComputeIndicators_Reference checks the 25-day synthetic series against
// hand-computed values. The sample (n-1) standard deviation convention is the
// load-bearing detail here: a population (n) divisor would shift the bands.
func TestComputeIndicators_Reference(t *testing.T) {
	records := computeIndicators(barsWithCloses("TEST", 25))
	require.Len(t, records, 25)

	sd := math.Sqrt(35) // sample std of 20 consecutive integers

	// 20th record (index 19): window is closes 1..20
	r := records[19]
	require.NotNil(t, r.SMA20)
	assert.InDelta(t, 10.5, *r.SMA20, tol)
	assert.InDelta(t, 10.5+2*sd, *r.BBUpper, tol)
	assert.InDelta(t, 10.5-2*sd, *r.BBLower, tol)

	// 25th record (index 24): window is closes 6..25
	r = records[24]
	require.NotNil(t, r.SMA20)
	assert.InDelta(t, 15.5, *r.SMA20, tol)
	assert.InDelta(t, 15.5+2*sd, *r.BBUpper, tol)
	assert.InDelta(t, 15.5-2*sd, *r.BBLower, tol)

	// bb_mid is sma_20 by definition
	assert.Equal(t, *r.SMA20, *r.BBMid)

	// sma_50 and sma_100 stay undefined for a 25-bar history
	for i, rec := range records {
		assert.Nil(t, rec.SMA50, "sma_50 must be undefined at %d", i)
		assert.Nil(t, rec.SMA100, "sma_100 must be undefined at %d", i)
	}
}
