package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	barshandler "stock_dashboard/internal/feature/bars/transport/handler"
	platformhandler "stock_dashboard/internal/platform/http/handler"
)

// NewRouter はすべてのエンドポイントを登録したginルーターを生成します。
func NewRouter(bars *barshandler.BarsHandler, ready *platformhandler.ReadyHandler,
	metricsHandler http.Handler) *gin.Engine {
	r := gin.Default()

	// ダッシュボードのフロントエンドは別オリジンで動くためCORSを許可
	r.Use(cors.Default())

	// 導通確認用（監視系はHEAD/OPTIONSでも叩いてくる）
	r.Any("/health", platformhandler.Health)
	// ストア疎通確認
	r.GET("/ready", ready.Ready)
	// Prometheusメトリクス
	r.GET("/metrics", gin.WrapH(metricsHandler))

	api := r.Group("/api")
	{
		// 外部ソースからの取り込みをトリガー
		api.GET("/fetch/:ticker", bars.Fetch)
		// 指標付き系列の取得
		api.GET("/indicators/:ticker", bars.Indicators)
		// 保存済み銘柄の一覧
		api.GET("/tickers", bars.Tickers)
	}

	return r
}
