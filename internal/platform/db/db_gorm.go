// Package db はgormによるデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"fmt"
	"log"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"stock_dashboard/internal/app/config"
	"stock_dashboard/internal/feature/bars/adapters"
)

const (
	connectDeadline = 60 * time.Second
	connectRetry    = 3 * time.Second
)

// OpenDB はPostgreSQLへの接続を確立して返します。コンテナ起動直後などDBが
// まだ受け付けていないケースを考慮し、一定時間リトライします。
//
// マイグレーションは常に実行します。stock_pricesの(ticker, time)ユニーク制約は
// UpsertBatchの冪等性の前提であり、制約がないままAPIを受け付けてはいけません。
func OpenDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	var (
		db  *gorm.DB
		err error
	)
	deadline := time.Now().Add(connectDeadline)
	for {
		db, err = gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", connectDeadline, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(connectRetry)
	}

	if err := db.AutoMigrate(&adapters.BarModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
