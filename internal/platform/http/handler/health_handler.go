// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// readyTimeout はreadinessチェックでのDB疎通確認の上限時間です。
const readyTimeout = 2 * time.Second

// Health はサービスヘルスチェック用の /health エンドポイントを処理します。
// 協調コンポーネントには一切アクセスせず、プロセスの生存のみを返します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case "HEAD":
		c.Status(http.StatusOK)
	case "OPTIONS":
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// ReadyHandler はストアへの軽量な疎通確認でreadinessを判定します。
type ReadyHandler struct {
	db *gorm.DB
}

// NewReadyHandler は指定されたDB接続でReadyHandlerの新しいインスタンスを生成します。
func NewReadyHandler(db *gorm.DB) *ReadyHandler {
	return &ReadyHandler{db: db}
}

// Ready は /ready エンドポイントを処理します。DBにpingが通れば200、
// 通らなければ503を返します。
func (h *ReadyHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
