package transport

import (
	"time"

	"github.com/fastygo/todo/domain"
)

// TaskResponse is the outward view of a task. Ids and owners are not exposed.
type TaskResponse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UserResponse is the outward view of a user. The password hash never leaves the service.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// HealthResponse reports storage reachability.
type HealthResponse struct {
	Status    string    `json:"status"`
	Storage   string    `json:"storage"`
	Online    bool      `json:"online"`
	LastCheck time.Time `json:"last_check"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{Title: t.Title, Description: t.Description}
}

func NewTaskListResponse(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
