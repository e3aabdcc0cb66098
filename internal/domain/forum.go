package domain

import "time"

type Topic struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	UserID    uint      `json:"user_id"`
	LessonID  *uint     `json:"lesson_id,omitempty"`
	Author    *Author   `json:"author,omitempty"`
	Replies   []Reply   `json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Reply struct {
	ID        uint      `json:"id"`
	Body      string    `json:"body"`
	TopicID   uint      `json:"topic_id"`
	UserID    uint      `json:"user_id"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TopicPatch struct {
	Title *string
	Body  *string
}
