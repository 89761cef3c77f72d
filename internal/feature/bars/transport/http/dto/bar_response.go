// Package dto defines data transfer objects for the bars HTTP API.
package dto

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FetchResponse はバー取り込みのレスポンスDTOです。
type FetchResponse struct {
	Ticker       string `json:"ticker"`        // 正規化済み銘柄コード
	RowsImported int    `json:"rows_imported"` // ソースから取得した件数
	DateRange    string `json:"date_range"`    // "YYYY-MM-DD to YYYY-MM-DD"
}

// IndicatorPoint は指標付きの1日分のレコードです。
//
// 指標フィールドは窓が埋まるまでJSONのnullになります。0との混同を避けるため
// omitemptyは付けません。
type IndicatorPoint struct {
	Time   string  `json:"time"`   // 日付 (YYYY-MM-DD)
	Open   float64 `json:"open"`   // 始値
	High   float64 `json:"high"`   // 高値
	Low    float64 `json:"low"`    // 安値
	Close  float64 `json:"close"`  // 終値
	Volume int64   `json:"volume"` // 出来高

	SMA20   *float64 `json:"sma_20"`
	SMA50   *float64 `json:"sma_50"`
	SMA100  *float64 `json:"sma_100"`
	BBMid   *float64 `json:"bb_mid"`
	BBUpper *float64 `json:"bb_upper"`
	BBLower *float64 `json:"bb_lower"`
}

// IndicatorsResponse は指標系列のレスポンスDTOです。
type IndicatorsResponse struct {
	Ticker string           `json:"ticker"`
	Data   []IndicatorPoint `json:"data"`
}

// TickerItem は保存済み銘柄1件のメタデータです。キー名はダッシュボードが
// 期待する形式（data_points / last_updated）に合わせています。
type TickerItem struct {
	Ticker      string `json:"ticker"`
	DataPoints  int64  `json:"data_points"`
	LastUpdated string `json:"last_updated"` // 日付 (YYYY-MM-DD)
}

// TickersResponse は銘柄一覧のレスポンスDTOです。
type TickersResponse struct {
	Tickers []TickerItem `json:"tickers"`
}
