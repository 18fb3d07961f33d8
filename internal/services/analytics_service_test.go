package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteAnalyticsAggregates(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	quoteService := NewQuoteService(db)
	// 缓存为空时直查数据库
	analyticsService := NewAnalyticsService(db, nil)

	q1, err := quoteService.Create(tenant.ID, &CreateQuoteRequest{
		CustomerName: "Cliente A",
		Items: []QuoteItemInput{
			{Description: "x", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)
	_, err = quoteService.ChangeStatus(tenant.ID, q1.ID, "APPROVED", nil, "system")
	require.NoError(t, err)

	q2, err := quoteService.Create(tenant.ID, &CreateQuoteRequest{
		CustomerName: "Cliente B",
		Items: []QuoteItemInput{
			{Description: "y", Quantity: dec("1"), UnitPrice: dec("40")},
		},
	})
	require.NoError(t, err)
	_, err = quoteService.ChangeStatus(tenant.ID, q2.ID, "REJECTED", nil, "system")
	require.NoError(t, err)

	_, err = quoteService.Create(tenant.ID, &CreateQuoteRequest{
		CustomerName: "Cliente A",
		Items: []QuoteItemInput{
			{Description: "z", Quantity: dec("1"), UnitPrice: dec("10")},
		},
	})
	require.NoError(t, err)

	params := AnalyticsParams{
		From: time.Now().UTC().AddDate(0, 0, -1),
		To:   time.Now().UTC().AddDate(0, 0, 1),
	}

	result, err := analyticsService.GetQuoteAnalytics(context.Background(), tenant.ID, params)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ETag)

	var analytics QuoteAnalytics
	require.NoError(t, json.Unmarshal(result.Payload, &analytics))

	assert.EqualValues(t, 3, analytics.KPIs.Count)
	assert.True(t, analytics.KPIs.AmountSum.Equal(dec("150")), "sum = %s", analytics.KPIs.AmountSum)
	assert.True(t, analytics.KPIs.ApprovedSum.Equal(dec("100")))
	assert.True(t, analytics.KPIs.AvgTicket.Equal(dec("50")), "avg = %s", analytics.KPIs.AvgTicket)
	assert.InDelta(t, 0.5, analytics.KPIs.HitRate, 1e-9)

	// 状态固定顺序: DRAFT → APPROVED → REJECTED
	require.Len(t, analytics.ByStatus, 3)
	assert.Equal(t, "DRAFT", analytics.ByStatus[0].Status)
	assert.Equal(t, "APPROVED", analytics.ByStatus[1].Status)
	assert.Equal(t, "REJECTED", analytics.ByStatus[2].Status)
	assert.Equal(t, analytics.ByStatus, analytics.Funnel)

	// 三单同月创建，默认按月分桶
	require.Len(t, analytics.ByTime, 1)
	assert.EqualValues(t, 3, analytics.ByTime[0].Count)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), analytics.ByTime[0].Period)

	// A: 两单共110，B: 一单40
	require.Len(t, analytics.TopClients, 2)
	assert.Equal(t, "Cliente A", analytics.TopClients[0].CustomerName)
	assert.EqualValues(t, 2, analytics.TopClients[0].Count)
	assert.True(t, analytics.TopClients[0].Amount.Equal(dec("110")))
}

func TestQuoteAnalyticsStatusFilter(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	quoteService := NewQuoteService(db)
	analyticsService := NewAnalyticsService(db, nil)

	q1, err := quoteService.Create(tenant.ID, &CreateQuoteRequest{
		CustomerName: "Cliente A",
		Items: []QuoteItemInput{
			{Description: "x", Quantity: dec("1"), UnitPrice: dec("100")},
		},
	})
	require.NoError(t, err)
	_, err = quoteService.ChangeStatus(tenant.ID, q1.ID, "APPROVED", nil, "system")
	require.NoError(t, err)

	_, err = quoteService.Create(tenant.ID, &CreateQuoteRequest{
		CustomerName: "Cliente B",
		Items: []QuoteItemInput{
			{Description: "y", Quantity: dec("1"), UnitPrice: dec("40")},
		},
	})
	require.NoError(t, err)

	params := AnalyticsParams{
		From: time.Now().UTC().AddDate(0, 0, -1),
		To:   time.Now().UTC().AddDate(0, 0, 1),
		// 小写同样可用，入口归一化
		Status: "accepted",
	}

	result, err := analyticsService.GetQuoteAnalytics(context.Background(), tenant.ID, params)
	require.NoError(t, err)

	var analytics QuoteAnalytics
	require.NoError(t, json.Unmarshal(result.Payload, &analytics))
	assert.EqualValues(t, 1, analytics.KPIs.Count)
	assert.True(t, analytics.KPIs.AmountSum.Equal(dec("100")))

	params.Status = "bogus"
	_, err = analyticsService.GetQuoteAnalytics(context.Background(), tenant.ID, params)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	params.Status = ""
	params.Bucket = "hour"
	_, err = analyticsService.GetQuoteAnalytics(context.Background(), tenant.ID, params)
	assert.ErrorIs(t, err, ErrInvalidBucket)
}

func TestQuoteAnalyticsEmptyRange(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	service := NewAnalyticsService(db, nil)

	params := AnalyticsParams{
		From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	result, err := service.GetQuoteAnalytics(context.Background(), tenant.ID, params)
	require.NoError(t, err)

	var analytics QuoteAnalytics
	require.NoError(t, json.Unmarshal(result.Payload, &analytics))
	assert.Zero(t, analytics.KPIs.Count)
	assert.True(t, analytics.KPIs.AmountSum.IsZero())
	assert.Empty(t, analytics.ByStatus)
	assert.Empty(t, analytics.TopClients)
}
