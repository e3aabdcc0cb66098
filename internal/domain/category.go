package domain

type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// UserID is nil for system categories.
	UserID *uint `json:"user_id"`
}

type CategoryPatch struct {
	Name        *string
	Description *string
}
