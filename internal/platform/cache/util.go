package cache

import (
	"time"
)

// TimeUntilNextUTCMidnight は次のUTC日付変更までの期間を返します。
// 日足バーは1日に1回しか増えないため、キャッシュTTLの上限として使います。
func TimeUntilNextUTCMidnight() time.Duration {
	now := time.Now().UTC()
	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return next.Sub(now)
}
