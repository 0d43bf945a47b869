package models

// CreateTaskRequest represents the request body for creating a task
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTaskRequest carries a partial update; nil fields are left unchanged.
// Any other field in the payload (_id, userId, ...) is ignored.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// MessageResponse is the generic {"message": ...} body
type MessageResponse struct {
	Message string `json:"message"`
}
