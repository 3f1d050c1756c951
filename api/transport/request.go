package transport

// RegisterRequest is the public sign-up payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskRequest is used for both creation and replacement of a task.
// JSON null decodes to the empty string and is rejected by validation.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
