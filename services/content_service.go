package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pulsedash/pulsedash/domain"
	apperr "github.com/pulsedash/pulsedash/errors"
)

const (
	// titleLength caps the prompt-derived title.
	titleLength = 100

	// defaultMaxTokens applies when the request metadata has no length budget.
	defaultMaxTokens = 500

	// generationTemperature is fixed for all drafts.
	generationTemperature = 0.7

	// defaultListLimit and maxListLimit bound draft listing pages.
	defaultListLimit = 10
	maxListLimit     = 100
)

// GenerateContentRequest is a request to generate a new draft.
type GenerateContentRequest struct {
	Platform    domain.ContentPlatform `json:"platform"`
	ContentType domain.ContentType     `json:"contentType"`
	Prompt      string                 `json:"prompt"`
	Metadata    domain.ContentMetadata `json:"metadata"`
}

// ContentList is one page of drafts plus pagination bookkeeping.
type ContentList struct {
	Content []*domain.AIContent `json:"content"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	Limit   int                 `json:"limit"`
	Pages   int64               `json:"pages"`
}

// ContentService owns the draft lifecycle: generation through the gateway,
// listing, the versioned update merge, and deletion.
type ContentService struct {
	content   domain.AIContentRepository
	generator ContentGenerator
	timeout   time.Duration
}

// NewContentService creates a new ContentService. timeout bounds each
// gateway call; zero disables the bound.
func NewContentService(content domain.AIContentRepository, generator ContentGenerator, timeout time.Duration) *ContentService {
	return &ContentService{
		content:   content,
		generator: generator,
		timeout:   timeout,
	}
}

// systemInstruction synthesizes the gateway system prompt from the request
// metadata, filling documented defaults for anything unspecified.
func systemInstruction(req GenerateContentRequest) string {
	audience := req.Metadata.TargetAudience
	if audience == "" {
		audience = "General"
	}
	tone := req.Metadata.Tone
	if tone == "" {
		tone = "Professional"
	}
	keywords := "None specified"
	if len(req.Metadata.Keywords) > 0 {
		keywords = strings.Join(req.Metadata.Keywords, ", ")
	}
	length := "Platform default"
	if req.Metadata.Length > 0 {
		length = fmt.Sprintf("%d", req.Metadata.Length)
	}

	return fmt.Sprintf(`You are a professional social media content creator. Create %s content for %s that is engaging and optimized for the platform. Consider the following details:
- Target Audience: %s
- Tone: %s
- Keywords: %s
- Maximum Length: %s`,
		req.ContentType, req.Platform, audience, tone, keywords, length)
}

// Generate validates the request, calls the gateway once, and stores the
// resulting draft. A gateway failure or empty result leaves nothing stored.
func (s *ContentService) Generate(ctx context.Context, userID string, req GenerateContentRequest) (*domain.AIContent, error) {
	if req.Platform == "" || req.ContentType == "" || req.Prompt == "" {
		return nil, apperr.NewValidation("Missing required fields")
	}
	if !domain.KnownContentPlatform(req.Platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if !domain.KnownContentType(req.ContentType) {
		return nil, apperr.NewValidation("Unknown content type")
	}

	maxTokens := req.Metadata.Length
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	generated, err := s.generator.Generate(genCtx, systemInstruction(req), req.Prompt, maxTokens, generationTemperature)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("content generation failed")
		return nil, apperr.ErrGenerationFailed
	}
	if generated == "" {
		return nil, apperr.ErrGenerationFailed
	}

	title := req.Prompt
	if runes := []rune(title); len(runes) > titleLength {
		title = string(runes[:titleLength])
	}

	record := &domain.AIContent{
		UserID:      userID,
		Title:       title,
		Content:     generated,
		Platform:    req.Platform,
		ContentType: req.ContentType,
		Prompt:      req.Prompt,
		Metadata:    req.Metadata,
		Status:      domain.ContentStatusDraft,
		Version:     1,
		History:     []domain.ContentRevision{},
	}
	if err := s.content.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List returns one 1-indexed page of the user's drafts.
func (s *ContentService) List(ctx context.Context, userID string, filter domain.AIContentFilter, page, limit int) (*ContentList, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if filter.Platform != "" && !domain.KnownContentPlatform(filter.Platform) {
		return nil, apperr.NewValidation("Unknown platform")
	}
	if filter.Status != "" && !domain.KnownContentStatus(filter.Status) {
		return nil, apperr.NewValidation("Unknown status")
	}

	records, total, err := s.content.List(ctx, userID, filter, page, limit)
	if err != nil {
		return nil, err
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &ContentList{
		Content: records,
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
	}, nil
}

// applyPatch merges a sparse patch into the record: fields absent from the
// patch are left untouched. The boolean reports whether the content body
// actually changed.
func applyPatch(record *domain.AIContent, patch domain.AIContentPatch) bool {
	contentChanged := patch.Content != nil && *patch.Content != record.Content

	if patch.Content != nil {
		record.Content = *patch.Content
	}
	if patch.Status != nil {
		record.Status = *patch.Status
	}
	if patch.Metadata != nil {
		record.Metadata = *patch.Metadata
	}
	if patch.Schedule != nil {
		record.Schedule = *patch.Schedule
	}
	if patch.Performance != nil {
		record.Performance = patch.Performance
	}

	return contentChanged
}

// Update applies a sparse patch to a draft, enforcing the versioning
// invariant: only a real content-body change snapshots the pre-mutation
// state into history and bumps the version, and the snapshot is taken
// before any patch field lands. The write is a compare-and-swap on the
// version that was read, so a concurrent writer surfaces as a conflict
// instead of a silently dropped history entry.
func (s *ContentService) Update(ctx context.Context, id, userID string, patch domain.AIContentPatch) (*domain.AIContent, error) {
	if id == "" {
		return nil, apperr.NewValidation("Missing content ID")
	}
	if patch.Status != nil && !domain.KnownContentStatus(*patch.Status) {
		return nil, apperr.NewValidation("Unknown status")
	}

	record, err := s.content.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	readVersion := record.Version

	snapshot := domain.ContentRevision{
		Content:   record.Content,
		Prompt:    record.Prompt,
		Metadata:  record.Metadata,
		CreatedAt: time.Now().UTC(),
	}

	if applyPatch(record, patch) {
		record.History = append(record.History, snapshot)
		record.Version++
	}

	if err := s.content.Replace(ctx, record, readVersion); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a draft owned by userID.
func (s *ContentService) Delete(ctx context.Context, id, userID string) error {
	if id == "" {
		return apperr.NewValidation("Missing content ID")
	}
	return s.content.Delete(ctx, id, userID)
}
