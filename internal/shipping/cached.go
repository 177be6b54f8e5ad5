package shipping

import (
	"context"
	"fmt"
	"time"

	"github.com/bazaar-next/internal/cache"
	"github.com/bazaar-next/internal/logger"
)

// CachedGateway 带 Redis 报价缓存的网关装饰器
// 缓存未启用或未命中时直接透传
type CachedGateway struct {
	inner Gateway
	ttl   time.Duration
}

// NewCachedGateway 包装网关并启用报价缓存
func NewCachedGateway(inner Gateway, ttl time.Duration) *CachedGateway {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedGateway{inner: inner, ttl: ttl}
}

// CalculateFee 先查缓存，未命中再询价
func (g *CachedGateway) CalculateFee(ctx context.Context, req FeeRequest) (*FeeQuote, error) {
	if g == nil || g.inner == nil {
		return nil, ErrConfigInvalid
	}
	key := quoteCacheKey(req)

	var cached FeeQuote
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("shipping_quote_cache_read_failed", "key", key, "error", err)
	}
	if hit {
		return &cached, nil
	}

	quote, err := g.inner.CalculateFee(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, quote, g.ttl); err != nil {
		logger.Warnw("shipping_quote_cache_write_failed", "key", key, "error", err)
	}
	return quote, nil
}

func quoteCacheKey(req FeeRequest) string {
	return fmt.Sprintf("shipping:fee:%d:%s:%d:%s:%d",
		req.FromDistrictID, req.FromWardCode, req.ToDistrictID, req.ToWardCode, req.WeightGrams)
}
