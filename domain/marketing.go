package domain

import "time"

// DataType tags a marketing data record with the kind of metrics it carries.
type DataType string

const (
	DataTypeAnalytics DataType = "analytics"
	DataTypeSocial    DataType = "social"
	DataTypeAds       DataType = "ads"
)

// KnownDataType reports whether dt is a supported metrics kind.
func KnownDataType(dt DataType) bool {
	switch dt {
	case DataTypeAnalytics, DataTypeSocial, DataTypeAds:
		return true
	}
	return false
}

// PageStat is a per-page view counter inside an analytics snapshot.
type PageStat struct {
	Path  string `bson:"path" json:"path"`
	Views int64  `bson:"views" json:"views"`
}

// AnalyticsMetrics is a web analytics snapshot for one day.
type AnalyticsMetrics struct {
	PageViews          int64      `bson:"page_views" json:"pageViews"`
	Sessions           int64      `bson:"sessions" json:"sessions"`
	Users              int64      `bson:"users" json:"users"`
	BounceRate         float64    `bson:"bounce_rate" json:"bounceRate"`
	AvgSessionDuration float64    `bson:"avg_session_duration" json:"avgSessionDuration"`
	TopPages           []PageStat `bson:"top_pages,omitempty" json:"topPages,omitempty"`
}

// PostStat carries engagement counters for one social post.
type PostStat struct {
	ID          string `bson:"id" json:"id"`
	Type        string `bson:"type" json:"type"`
	Engagement  int64  `bson:"engagement" json:"engagement"`
	Impressions int64  `bson:"impressions" json:"impressions"`
	Clicks      int64  `bson:"clicks" json:"clicks"`
}

// SocialMetrics is a social engagement snapshot for one day.
type SocialMetrics struct {
	Followers   int64      `bson:"followers" json:"followers"`
	Engagement  int64      `bson:"engagement" json:"engagement"`
	Impressions int64      `bson:"impressions" json:"impressions"`
	Clicks      int64      `bson:"clicks" json:"clicks"`
	Posts       []PostStat `bson:"posts,omitempty" json:"posts,omitempty"`
}

// CampaignStat carries spend and performance counters for one ad campaign.
type CampaignStat struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Spend       float64 `bson:"spend" json:"spend"`
	Impressions int64   `bson:"impressions" json:"impressions"`
	Clicks      int64   `bson:"clicks" json:"clicks"`
	Conversions int64   `bson:"conversions" json:"conversions"`
	CTR         float64 `bson:"ctr" json:"ctr"`
	CPC         float64 `bson:"cpc" json:"cpc"`
}

// AdsMetrics is an ad spend/performance snapshot for one day.
type AdsMetrics struct {
	Spend       float64        `bson:"spend" json:"spend"`
	Impressions int64          `bson:"impressions" json:"impressions"`
	Clicks      int64          `bson:"clicks" json:"clicks"`
	Conversions int64          `bson:"conversions" json:"conversions"`
	CTR         float64        `bson:"ctr" json:"ctr"`
	CPC         float64        `bson:"cpc" json:"cpc"`
	Campaigns   []CampaignStat `bson:"campaigns,omitempty" json:"campaigns,omitempty"`
}

// MarketingData is one per-user, per-platform, per-day metrics snapshot.
// Exactly the payload field matching DataType is populated; the other two
// are always nil.
type MarketingData struct {
	ID            string            `bson:"_id,omitempty" json:"id"`
	UserID        string            `bson:"user_id" json:"userId"`
	Platform      Platform          `bson:"platform" json:"platform"`
	DataType      DataType          `bson:"data_type" json:"dataType"`
	Date          time.Time         `bson:"date" json:"date"`
	Analytics     *AnalyticsMetrics `bson:"analytics,omitempty" json:"analytics,omitempty"`
	SocialMetrics *SocialMetrics    `bson:"social_metrics,omitempty" json:"socialMetrics,omitempty"`
	AdsMetrics    *AdsMetrics       `bson:"ads_metrics,omitempty" json:"adsMetrics,omitempty"`
	CreatedAt     time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updatedAt"`
}

// MarketingDataFilter narrows a marketing data query. Zero-valued fields
// are ignored.
type MarketingDataFilter struct {
	Platform  Platform
	DataType  DataType
	StartDate time.Time
	EndDate   time.Time
}
