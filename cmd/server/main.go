package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"stock_dashboard/internal/app/config"
	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/app/router"
	barsadapters "stock_dashboard/internal/feature/bars/adapters"
	barshandler "stock_dashboard/internal/feature/bars/transport/handler"
	barsusecase "stock_dashboard/internal/feature/bars/usecase"
	"stock_dashboard/internal/platform/cache"
	infradb "stock_dashboard/internal/platform/db"
	platformhandler "stock_dashboard/internal/platform/http/handler"
	"stock_dashboard/internal/platform/metrics"
	infraredis "stock_dashboard/internal/platform/redis"
	"stock_dashboard/internal/shared/ratelimiter"
)

// Yahooの公開チャートAPIは匿名アクセスに寛容だが無制限ではないため、
// 上流呼び出しは1分あたりの回数で抑える。
const (
	sourceCallsPerMinute = 30
)

func main() {
	// .envがあれば読み込む（無くてもよい）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	setupLogger(cfg.LogLevel)

	// db
	db, err := infradb.OpenDB(cfg.DB)
	if err != nil {
		log.Fatal(err)
	}

	// Redis（任意。未設定や接続失敗時はキャッシュなしで動作する）
	var rdb *redisv9.Client
	if cfg.Redis.Addr == "" {
		slog.Info("REDIS_HOST not set, running without cache")
	} else if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	m := metrics.New()

	// Repository
	barRepo := barsadapters.NewBarRepository(db)
	// Redisキャッシュでラップ。日足は1日1回しか増えないのでTTLは日付変更まで。
	cachedBarRepo := cache.NewCachingBarRepository(rdb, cache.TimeUntilNextUTCMidnight(), barRepo, "bars")

	// Bar Source
	market := di.NewMarket()
	rl := ratelimiter.NewRateLimiter(sourceCallsPerMinute, time.Minute)

	// Usecase
	ingestUC := barsusecase.NewIngestUsecase(market, cachedBarRepo, rl, m)
	indicatorUC := barsusecase.NewIndicatorUsecase(cachedBarRepo, m)
	tickerUC := barsusecase.NewTickerUsecase(cachedBarRepo)

	// Handler
	barsH := barshandler.NewBarsHandler(ingestUC, indicatorUC, tickerUC)
	readyH := platformhandler.NewReadyHandler(db)

	// ルータ生成
	r := router.NewRouter(barsH, readyH, m.Handler())

	if err := r.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}

// setupLogger はLOG_LEVELに応じたslogのデフォルトロガーを設定します。
func setupLogger(level string) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "WARN", "WARNING":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
