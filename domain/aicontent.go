package domain

import "time"

// ContentPlatform identifies the social platform a generated draft targets.
// Instagram is a valid generation target even though it is not a connected
// marketing platform.
type ContentPlatform string

const (
	ContentPlatformFacebook  ContentPlatform = "facebook"
	ContentPlatformLinkedIn  ContentPlatform = "linkedin"
	ContentPlatformTwitter   ContentPlatform = "twitter"
	ContentPlatformInstagram ContentPlatform = "instagram"
)

// KnownContentPlatform reports whether p is a supported generation target.
func KnownContentPlatform(p ContentPlatform) bool {
	switch p {
	case ContentPlatformFacebook, ContentPlatformLinkedIn, ContentPlatformTwitter, ContentPlatformInstagram:
		return true
	}
	return false
}

// ContentType is the shape of generated content.
type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeArticle ContentType = "article"
	ContentTypeCaption ContentType = "caption"
	ContentTypeThread  ContentType = "thread"
)

// KnownContentType reports whether ct is a supported content shape.
func KnownContentType(ct ContentType) bool {
	switch ct {
	case ContentTypePost, ContentTypeArticle, ContentTypeCaption, ContentTypeThread:
		return true
	}
	return false
}

// ContentStatus is the lifecycle state of a draft.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusApproved  ContentStatus = "approved"
	ContentStatusPublished ContentStatus = "published"
	ContentStatusArchived  ContentStatus = "archived"
)

// KnownContentStatus reports whether s is a valid lifecycle state.
func KnownContentStatus(s ContentStatus) bool {
	switch s {
	case ContentStatusDraft, ContentStatusApproved, ContentStatusPublished, ContentStatusArchived:
		return true
	}
	return false
}

// ContentMetadata is the generation guidance attached to a draft.
type ContentMetadata struct {
	TargetAudience string   `bson:"target_audience,omitempty" json:"targetAudience,omitempty"`
	Tone           string   `bson:"tone,omitempty" json:"tone,omitempty"`
	Keywords       []string `bson:"keywords,omitempty" json:"keywords,omitempty"`
	Length         int      `bson:"length,omitempty" json:"length,omitempty"`
}

// ContentRevision is one pre-mutation snapshot in a draft's history.
type ContentRevision struct {
	Content   string          `bson:"content" json:"content"`
	Prompt    string          `bson:"prompt" json:"prompt"`
	Metadata  ContentMetadata `bson:"metadata" json:"metadata"`
	CreatedAt time.Time       `bson:"created_at" json:"createdAt"`
}

// PublishSchedule marks a draft for later publishing.
type PublishSchedule struct {
	IsScheduled   bool       `bson:"is_scheduled" json:"isScheduled"`
	ScheduledDate *time.Time `bson:"scheduled_date,omitempty" json:"scheduledDate,omitempty"`
}

// ContentPerformance holds post-publish engagement counters.
type ContentPerformance struct {
	Impressions int64 `bson:"impressions,omitempty" json:"impressions,omitempty"`
	Engagement  int64 `bson:"engagement,omitempty" json:"engagement,omitempty"`
	Clicks      int64 `bson:"clicks,omitempty" json:"clicks,omitempty"`
	Shares      int64 `bson:"shares,omitempty" json:"shares,omitempty"`
}

// AIContent is one generated content draft with its version history.
//
// Version starts at 1 and increments exactly when the content body changes;
// every increment appends the pre-mutation (content, prompt, metadata) state
// to History. Status, metadata, schedule and performance updates leave both
// untouched.
type AIContent struct {
	ID          string              `bson:"_id,omitempty" json:"id"`
	UserID      string              `bson:"user_id" json:"userId"`
	Title       string              `bson:"title" json:"title"`
	Content     string              `bson:"content" json:"content"`
	Platform    ContentPlatform     `bson:"platform" json:"platform"`
	ContentType ContentType         `bson:"content_type" json:"contentType"`
	Prompt      string              `bson:"prompt" json:"prompt"`
	Metadata    ContentMetadata     `bson:"metadata" json:"metadata"`
	Status      ContentStatus       `bson:"status" json:"status"`
	Schedule    PublishSchedule     `bson:"publish_schedule" json:"publishSchedule"`
	Performance *ContentPerformance `bson:"performance,omitempty" json:"performance,omitempty"`
	Version     int                 `bson:"version" json:"version"`
	History     []ContentRevision   `bson:"history" json:"history"`
	CreatedAt   time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updatedAt"`
}

// AIContentFilter narrows a draft listing. Zero-valued fields are ignored.
type AIContentFilter struct {
	Platform ContentPlatform
	Status   ContentStatus
}

// AIContentPatch is a sparse update to a draft. Nil fields are left
// untouched by the merge.
type AIContentPatch struct {
	Content     *string             `json:"content,omitempty"`
	Status      *ContentStatus      `json:"status,omitempty"`
	Metadata    *ContentMetadata    `json:"metadata,omitempty"`
	Schedule    *PublishSchedule    `json:"publishSchedule,omitempty"`
	Performance *ContentPerformance `json:"performance,omitempty"`
}
