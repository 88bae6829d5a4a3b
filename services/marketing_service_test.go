package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

func TestBuildMarketingData(t *testing.T) {
	t.Run("AdsPayloadRoutesToAdsField", func(t *testing.T) {
		payload := json.RawMessage(`{"spend": 120.5, "impressions": 9000, "clicks": 310, "conversions": 12}`)

		record, err := BuildMarketingData("user-1", domain.PlatformFacebook, domain.DataTypeAds, payload)
		require.NoError(t, err)

		require.NotNil(t, record.AdsMetrics)
		assert.Nil(t, record.Analytics)
		assert.Nil(t, record.SocialMetrics)
		assert.Equal(t, 120.5, record.AdsMetrics.Spend)
		assert.Equal(t, int64(9000), record.AdsMetrics.Impressions)
	})

	t.Run("AnalyticsPayloadRoutesToAnalyticsField", func(t *testing.T) {
		payload := json.RawMessage(`{"pageViews": 1500, "sessions": 400, "users": 350, "bounceRate": 0.42}`)

		record, err := BuildMarketingData("user-1", domain.PlatformGoogle, domain.DataTypeAnalytics, payload)
		require.NoError(t, err)

		require.NotNil(t, record.Analytics)
		assert.Nil(t, record.SocialMetrics)
		assert.Nil(t, record.AdsMetrics)
		assert.Equal(t, int64(1500), record.Analytics.PageViews)
	})

	t.Run("SocialPayloadRoutesToSocialField", func(t *testing.T) {
		payload := json.RawMessage(`{"followers": 2200, "engagement": 180, "impressions": 5000, "clicks": 90}`)

		record, err := BuildMarketingData("user-1", domain.PlatformLinkedIn, domain.DataTypeSocial, payload)
		require.NoError(t, err)

		require.NotNil(t, record.SocialMetrics)
		assert.Nil(t, record.Analytics)
		assert.Nil(t, record.AdsMetrics)
		assert.Equal(t, int64(2200), record.SocialMetrics.Followers)
	})

	t.Run("PayloadShapeMismatch", func(t *testing.T) {
		// A social-shaped payload declared as ads must fail, not silently
		// drop fields.
		payload := json.RawMessage(`{"followers": 2200, "engagement": 180}`)

		_, err := BuildMarketingData("user-1", domain.PlatformFacebook, domain.DataTypeAds, payload)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("UnknownPlatform", func(t *testing.T) {
		_, err := BuildMarketingData("user-1", "myspace", domain.DataTypeAds, json.RawMessage(`{}`))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("UnknownDataType", func(t *testing.T) {
		_, err := BuildMarketingData("user-1", domain.PlatformFacebook, "weather", json.RawMessage(`{}`))
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := BuildMarketingData("", domain.PlatformFacebook, domain.DataTypeAds, json.RawMessage(`{}`))
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = BuildMarketingData("user-1", domain.PlatformFacebook, domain.DataTypeAds, nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestMarketingService_CreateAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMarketingRepo()
	svc := NewMarketingService(repo)

	created, err := svc.Create(ctx, "user-1", domain.PlatformFacebook, domain.DataTypeAds,
		json.RawMessage(`{"spend": 50, "impressions": 1000, "clicks": 40, "conversions": 3}`))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.Date.IsZero())

	_, err = svc.Create(ctx, "user-1", domain.PlatformGoogle, domain.DataTypeAnalytics,
		json.RawMessage(`{"pageViews": 700, "sessions": 200}`))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "user-2", domain.PlatformFacebook, domain.DataTypeAds,
		json.RawMessage(`{"spend": 999}`))
	require.NoError(t, err)

	t.Run("OwnerScoped", func(t *testing.T) {
		records, err := svc.Query(ctx, "user-1", domain.MarketingDataFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("FilterByDataType", func(t *testing.T) {
		records, err := svc.Query(ctx, "user-1", domain.MarketingDataFilter{DataType: domain.DataTypeAds})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, domain.PlatformFacebook, records[0].Platform)
	})

	t.Run("FilterByDateRange", func(t *testing.T) {
		records, err := svc.Query(ctx, "user-1", domain.MarketingDataFilter{
			StartDate: time.Now().UTC().Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("UnknownFilterPlatform", func(t *testing.T) {
		_, err := svc.Query(ctx, "user-1", domain.MarketingDataFilter{Platform: "myspace"})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestMarketingService_Update(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMarketingRepo()
	svc := NewMarketingService(repo)

	created, err := svc.Create(ctx, "user-1", domain.PlatformFacebook, domain.DataTypeAds,
		json.RawMessage(`{"spend": 50, "impressions": 1000, "clicks": 40, "conversions": 3}`))
	require.NoError(t, err)

	t.Run("WhitelistedField", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"adsMetrics": json.RawMessage(`{"spend": 75, "impressions": 1500, "clicks": 55, "conversions": 5}`),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.AdsMetrics)
		assert.Equal(t, 75.0, updated.AdsMetrics.Spend)
	})

	t.Run("DateStoredAsTime", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"date": json.RawMessage(`"2026-01-15T00:00:00Z"`),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), updated.Date.UTC())

		// The updated record must keep matching date-range queries.
		records, err := svc.Query(ctx, "user-1", domain.MarketingDataFilter{
			StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, created.ID, records[0].ID)
	})

	t.Run("DayOnlyDateAccepted", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"date": json.RawMessage(`"2026-03-02"`),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), updated.Date.UTC())
	})

	t.Run("MalformedDateRejected", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"date": json.RawMessage(`"yesterday"`),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)

		_, err = svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"date": json.RawMessage(`12345`),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("ProtectedFieldRejected", func(t *testing.T) {
		for _, field := range []string{"userId", "platform", "dataType", "_id"} {
			_, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
				field: json.RawMessage(`"tampered"`),
			})
			assert.ErrorIs(t, err, apperr.ErrValidation, field)
		}
	})

	t.Run("MalformedPayloadRejected", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "user-1", map[string]json.RawMessage{
			"adsMetrics": json.RawMessage(`{"followers": 10}`),
		})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("ForeignRecordNotFound", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "user-2", map[string]json.RawMessage{
			"adsMetrics": json.RawMessage(`{"spend": 1}`),
		})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("EmptyPatchRejected", func(t *testing.T) {
		_, err := svc.Update(ctx, created.ID, "user-1", nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestMarketingService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeMarketingRepo()
	svc := NewMarketingService(repo)

	created, err := svc.Create(ctx, "user-1", domain.PlatformFacebook, domain.DataTypeAds,
		json.RawMessage(`{"spend": 50}`))
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "user-2"), apperr.ErrNotFound)
	require.NoError(t, svc.Delete(ctx, created.ID, "user-1"))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID, "user-1"), apperr.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	records := []*domain.MarketingData{
		{Analytics: &domain.AnalyticsMetrics{PageViews: 1000, Sessions: 300}},
		{Analytics: &domain.AnalyticsMetrics{PageViews: 500, Sessions: 100}},
		{SocialMetrics: &domain.SocialMetrics{Followers: 2000, Engagement: 150, Impressions: 4000, Clicks: 80}},
		{AdsMetrics: &domain.AdsMetrics{Spend: 120.5, Impressions: 9000, Clicks: 310, Conversions: 12}},
	}

	summary := Summarize(records)

	assert.Equal(t, 4, summary.Records)
	assert.Equal(t, int64(1500), summary.PageViews)
	assert.Equal(t, int64(400), summary.Sessions)
	assert.Equal(t, int64(2000), summary.Followers)
	assert.Equal(t, int64(150), summary.Engagement)
	assert.Equal(t, int64(13000), summary.Impressions)
	assert.Equal(t, int64(390), summary.Clicks)
	assert.Equal(t, int64(12), summary.Conversions)
	assert.Equal(t, 120.5, summary.AdSpend)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.Records)
	assert.Zero(t, summary.Impressions)
}
