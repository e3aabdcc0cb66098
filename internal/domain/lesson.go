package domain

import "time"

// Media is an optional picture or video attached to a lesson or a step.
type Media struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Lesson is the aggregate root: the lesson row plus its owned steps and materials.
type Lesson struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Media       *Media     `json:"media,omitempty"`
	IsPublished bool       `json:"is_published"`
	CategoryID  uint       `json:"category_id"`
	UserID      uint       `json:"user_id"`
	Category    *Category  `json:"category,omitempty"`
	Author      *Author    `json:"author,omitempty"`
	Materials   []Material `json:"materials"`
	Steps       []Step     `json:"steps"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Step struct {
	ID          uint   `json:"id"`
	StepOrder   int    `json:"step_order"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Media       *Media `json:"media,omitempty"`
}

type Material struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StepDraft is a step as submitted; its position in the slice decides step_order.
type StepDraft struct {
	Title       string
	Description string
	Media       *Media
}

type MaterialDraft struct {
	Name     string
	Quantity int
}

// LessonDraft holds the validated input of a lesson creation.
type LessonDraft struct {
	Title       string
	Description string
	Media       *Media
	IsPublished bool
	CategoryID  uint
	UserID      uint
	Materials   []MaterialDraft
	Steps       []StepDraft
}

// LessonPatch carries scalar changes; nil fields are left untouched.
type LessonPatch struct {
	Title       *string
	Description *string
	MediaURL    *string
	MediaAlt    *string
	IsPublished *bool
	CategoryID  *uint
	UserID      *uint
}

// LessonReplacement is the input of a full-aggregate replace. A nil collection
// leaves the stored children untouched; a non-nil empty one deletes them all.
type LessonReplacement struct {
	Patch     LessonPatch
	Materials *[]MaterialDraft
	Steps     *[]StepDraft
}

// LessonOwnership is the minimal projection the authorization gate needs.
type LessonOwnership struct {
	ID          uint
	UserID      uint
	IsPublished bool
}

// LessonFilter narrows lesson listings; zero values mean "any".
type LessonFilter struct {
	CategoryID uint
	UserID     uint
	// CategoryOwnerID matches lessons filed under categories owned by that user.
	CategoryOwnerID uint
	PublishedOnly   bool
}
