package domain

// Task is a to-do item owned by exactly one user. ID is unique only among the
// tasks of UserID; two users may both own a task with ID 1.
type Task struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
