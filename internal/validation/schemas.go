package validation

import (
	"bytes"
	"encoding/json"

	"github.com/samber/lo"

	"howtoplatform/internal/domain"
)

type MediaPayload struct {
	URL string `json:"url" validate:"required,url,max=2048"`
	Alt string `json:"alt" validate:"max=255"`
}

func (m *MediaPayload) toDomain() *domain.Media {
	if m == nil {
		return nil
	}
	return &domain.Media{URL: m.URL, Alt: m.Alt}
}

type StepPayload struct {
	Title       string        `json:"title" validate:"required,notblank,max=255"`
	Description string        `json:"description" validate:"max=5000"`
	Media       *MediaPayload `json:"media" validate:"omitnil"`
}

type MaterialPayload struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity" validate:"omitnil,min=1"`
}

// LessonPayload is the body of a lesson creation.
type LessonPayload struct {
	Title       string            `json:"title" validate:"required,notblank,min=3,max=255"`
	Description string            `json:"description" validate:"required,notblank"`
	Media       *MediaPayload     `json:"media" validate:"omitnil"`
	IsPublished bool              `json:"is_published"`
	CategoryID  uint              `json:"category_id" validate:"required"`
	UserID      *uint             `json:"user_id" validate:"omitnil,gt=0"`
	Materials   []MaterialPayload `json:"materials" validate:"dive"`
	Steps       []StepPayload     `json:"steps" validate:"dive"`
}

// Draft converts the payload; a missing author defaults to authorID.
func (p LessonPayload) Draft(authorID uint) domain.LessonDraft {
	userID := authorID
	if p.UserID != nil {
		userID = *p.UserID
	}
	return domain.LessonDraft{
		Title:       p.Title,
		Description: p.Description,
		Media:       p.Media.toDomain(),
		IsPublished: p.IsPublished,
		CategoryID:  p.CategoryID,
		UserID:      userID,
		Materials:   materialDrafts(p.Materials),
		Steps:       stepDrafts(p.Steps),
	}
}

// LessonReplacePayload is the body of a full-aggregate replace. Scalars are
// optional; a present collection replaces the stored one. An explicit
// "media": null clears the lesson media.
type LessonReplacePayload struct {
	Title       *string            `json:"title" validate:"omitnil,notblank,min=3,max=255"`
	Description *string            `json:"description" validate:"omitnil,notblank"`
	Media       *MediaPayload      `json:"media" validate:"omitnil"`
	IsPublished *bool              `json:"is_published"`
	CategoryID  *uint              `json:"category_id" validate:"omitnil,gt=0"`
	UserID      *uint              `json:"user_id" validate:"omitnil,gt=0"`
	Materials   *[]MaterialPayload `json:"materials" validate:"omitnil,dive"`
	Steps       *[]StepPayload     `json:"steps" validate:"omitnil,dive"`
	ClearMedia  bool               `json:"-"`
}

func (p *LessonReplacePayload) UnmarshalJSON(data []byte) error {
	type plain LessonReplacePayload
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	raw, ok := fields["media"]
	decoded.ClearMedia = ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
	*p = LessonReplacePayload(decoded)
	return nil
}

func (p LessonReplacePayload) Replacement() domain.LessonReplacement {
	r := domain.LessonReplacement{
		Patch: domain.LessonPatch{
			Title:       p.Title,
			Description: p.Description,
			IsPublished: p.IsPublished,
			CategoryID:  p.CategoryID,
			UserID:      p.UserID,
		},
	}
	switch {
	case p.Media != nil:
		r.Patch.MediaURL = lo.ToPtr(p.Media.URL)
		r.Patch.MediaAlt = lo.ToPtr(p.Media.Alt)
	case p.ClearMedia:
		r.Patch.MediaURL = lo.ToPtr("")
		r.Patch.MediaAlt = lo.ToPtr("")
	}
	if p.Materials != nil {
		r.Materials = lo.ToPtr(materialDrafts(*p.Materials))
	}
	if p.Steps != nil {
		r.Steps = lo.ToPtr(stepDrafts(*p.Steps))
	}
	return r
}

type PublishPayload struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

func materialDrafts(in []MaterialPayload) []domain.MaterialDraft {
	return lo.Map(in, func(m MaterialPayload, _ int) domain.MaterialDraft {
		return domain.MaterialDraft{Name: m.Name, Quantity: lo.FromPtrOr(m.Quantity, 1)}
	})
}

func stepDrafts(in []StepPayload) []domain.StepDraft {
	return lo.Map(in, func(s StepPayload, _ int) domain.StepDraft {
		return domain.StepDraft{Title: s.Title, Description: s.Description, Media: s.Media.toDomain()}
	})
}

type CategoryPayload struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type CategoryPatchPayload struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,max=1000"`
}

func (p CategoryPatchPayload) Patch() domain.CategoryPatch {
	return domain.CategoryPatch{Name: p.Name, Description: p.Description}
}

type TopicPayload struct {
	Title    string `json:"title" validate:"required,min=3,max=255"`
	Body     string `json:"body" validate:"required,notblank"`
	LessonID *uint  `json:"lesson_id" validate:"omitnil,gt=0"`
}

type TopicPatchPayload struct {
	Title *string `json:"title" validate:"omitnil,min=3,max=255"`
	Body  *string `json:"body" validate:"omitnil,notblank"`
}

func (p TopicPatchPayload) Patch() domain.TopicPatch {
	return domain.TopicPatch{Title: p.Title, Body: p.Body}
}

type ReplyPayload struct {
	Body string `json:"body" validate:"required,notblank"`
}

type RegisterPayload struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AccountPayload is the body of UpdateAccount; at least one field is expected
// but an empty body is a harmless no-op.
type AccountPayload struct {
	Username *string `json:"username" validate:"omitnil,min=3,max=50"`
	Email    *string `json:"email" validate:"omitnil,email,max=100"`
	Password *string `json:"password" validate:"omitnil,min=6,max=72"`
}

type RolePayload struct {
	RoleID uint `json:"role_id" validate:"required,oneof=1 2 3"`
}
