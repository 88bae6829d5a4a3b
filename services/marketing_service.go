package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

// updatableMarketingFields maps the JSON names a partial update may touch
// onto their stored field names. Anything else in the patch is rejected, so
// ownership and type tags can never be rewritten through the merge.
var updatableMarketingFields = map[string]string{
	"date":          "date",
	"analytics":     "analytics",
	"socialMetrics": "social_metrics",
	"adsMetrics":    "ads_metrics",
}

// MarketingService validates and routes metric snapshots. Aggregation for
// dashboard totals happens here, on the caller side; the repository's job
// is pure filtered retrieval.
type MarketingService struct {
	data domain.MarketingDataRepository
}

// NewMarketingService creates a new MarketingService.
func NewMarketingService(data domain.MarketingDataRepository) *MarketingService {
	return &MarketingService{data: data}
}

// parseSnapshotDate accepts the same date formats the HTTP layer accepts
// for range filters.
func parseSnapshotDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// decodeStrict unmarshals raw into v, rejecting unknown fields so a payload
// of the wrong shape fails validation instead of silently dropping fields.
func decodeStrict(raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// BuildMarketingData validates a create request and routes the payload into
// the single schema field matching dataType. It is a pure function of its
// inputs, independent of the storage layer.
func BuildMarketingData(userID string, platform domain.Platform, dataType domain.DataType, payload json.RawMessage) (*domain.MarketingData, error) {
	if userID == "" || platform == "" || dataType == "" || len(payload) == 0 {
		return nil, apperr.NewValidation("Missing required fields")
	}
	if !domain.KnownPlatform(platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if !domain.KnownDataType(dataType) {
		return nil, apperr.NewValidation("Unknown data type")
	}

	record := &domain.MarketingData{
		UserID:   userID,
		Platform: platform,
		DataType: dataType,
	}

	switch dataType {
	case domain.DataTypeAnalytics:
		var m domain.AnalyticsMetrics
		if err := decodeStrict(payload, &m); err != nil {
			return nil, apperr.NewValidation("Payload does not match analytics data type")
		}
		record.Analytics = &m
	case domain.DataTypeSocial:
		var m domain.SocialMetrics
		if err := decodeStrict(payload, &m); err != nil {
			return nil, apperr.NewValidation("Payload does not match social data type")
		}
		record.SocialMetrics = &m
	case domain.DataTypeAds:
		var m domain.AdsMetrics
		if err := decodeStrict(payload, &m); err != nil {
			return nil, apperr.NewValidation("Payload does not match ads data type")
		}
		record.AdsMetrics = &m
	}

	return record, nil
}

// Create validates and stores a new snapshot, stamped with the current time.
func (s *MarketingService) Create(ctx context.Context, userID string, platform domain.Platform, dataType domain.DataType, payload json.RawMessage) (*domain.MarketingData, error) {
	record, err := BuildMarketingData(userID, platform, dataType, payload)
	if err != nil {
		return nil, err
	}
	record.Date = time.Now().UTC()

	if err := s.data.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Query returns matching snapshots newest-first.
func (s *MarketingService) Query(ctx context.Context, userID string, filter domain.MarketingDataFilter) ([]*domain.MarketingData, error) {
	if filter.Platform != "" && !domain.KnownPlatform(filter.Platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if filter.DataType != "" && !domain.KnownDataType(filter.DataType) {
		return nil, apperr.NewValidation("Unknown data type")
	}
	return s.data.Query(ctx, userID, filter)
}

// Update applies a partial merge. Only whitelisted payload fields may move.
func (s *MarketingService) Update(ctx context.Context, id, userID string, patch map[string]json.RawMessage) (*domain.MarketingData, error) {
	if id == "" || len(patch) == 0 {
		return nil, apperr.NewValidation("Missing required fields")
	}

	fields := make(map[string]any, len(patch))
	for name, raw := range patch {
		stored, ok := updatableMarketingFields[name]
		if !ok {
			return nil, apperr.NewValidation("Field cannot be updated: " + name)
		}
		var value any
		switch name {
		case "analytics":
			v := &domain.AnalyticsMetrics{}
			if err := decodeStrict(raw, v); err != nil {
				return nil, apperr.NewValidation("Malformed analytics payload")
			}
			value = v
		case "socialMetrics":
			v := &domain.SocialMetrics{}
			if err := decodeStrict(raw, v); err != nil {
				return nil, apperr.NewValidation("Malformed social payload")
			}
			value = v
		case "adsMetrics":
			v := &domain.AdsMetrics{}
			if err := decodeStrict(raw, v); err != nil {
				return nil, apperr.NewValidation("Malformed ads payload")
			}
			value = v
		case "date":
			// Stored as time.Time so date-range filters and the date sort
			// keep working on updated records.
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, apperr.NewValidation("Malformed date")
			}
			parsed, err := parseSnapshotDate(s)
			if err != nil {
				return nil, apperr.NewValidation("Malformed date")
			}
			value = parsed
		}
		fields[stored] = value
	}

	return s.data.Update(ctx, id, userID, fields)
}

// Delete removes a snapshot owned by userID.
func (s *MarketingService) Delete(ctx context.Context, id, userID string) error {
	if id == "" {
		return apperr.NewValidation("Missing marketing data ID")
	}
	return s.data.Delete(ctx, id, userID)
}

// MarketingSummary aggregates dashboard totals across a filtered result set.
type MarketingSummary struct {
	Records     int     `json:"records"`
	PageViews   int64   `json:"pageViews"`
	Sessions    int64   `json:"sessions"`
	Followers   int64   `json:"followers"`
	Engagement  int64   `json:"engagement"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	AdSpend     float64 `json:"adSpend"`
}

// Summarize computes totals over records. The sums cross payload kinds:
// impressions and clicks accumulate from both social and ads snapshots.
func Summarize(records []*domain.MarketingData) MarketingSummary {
	summary := MarketingSummary{Records: len(records)}
	for _, rec := range records {
		switch {
		case rec.Analytics != nil:
			summary.PageViews += rec.Analytics.PageViews
			summary.Sessions += rec.Analytics.Sessions
		case rec.SocialMetrics != nil:
			summary.Followers += rec.SocialMetrics.Followers
			summary.Engagement += rec.SocialMetrics.Engagement
			summary.Impressions += rec.SocialMetrics.Impressions
			summary.Clicks += rec.SocialMetrics.Clicks
		case rec.AdsMetrics != nil:
			summary.AdSpend += rec.AdsMetrics.Spend
			summary.Impressions += rec.AdsMetrics.Impressions
			summary.Clicks += rec.AdsMetrics.Clicks
			summary.Conversions += rec.AdsMetrics.Conversions
		}
	}
	return summary
}
