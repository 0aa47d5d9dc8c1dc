package caching

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestReportKey(t *testing.T) {
	assert.Equal(t, "backoffice:report:summary:2024-01-01:*", ReportKey("summary", "2024-01-01", "*"))
	assert.Equal(t, "backoffice:report:monthly:2024-03", ReportKey("monthly", "2024-03"))
}

func TestReportGenerationKeySurvivesInvalidation(t *testing.T) {
	assert.False(t, strings.HasPrefix(reportGenerationKey, reportPrefix))
	assert.False(t, strings.HasPrefix(reportGenerationKey, ReportKey("")))
}

func TestUnreachableRedisReturnsErrors(t *testing.T) {
	cache := NewRedisCacheService("127.0.0.1:1", "", 0, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, cache.Ping(ctx))
	_, err := cache.GetString(ctx, "missing")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	_, err = cache.ReportGeneration(ctx)
	assert.Error(t, err)
	assert.Error(t, cache.InvalidateReports(ctx))
}
