package handler

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"     validate:"required"`
	Category    string `json:"category"    validate:"required,oneof=work personal shopping health other"`
}

// updateTaskRequest uses pointers so absent fields can be told apart from
// zero values.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Category    *string `json:"category"    validate:"omitempty,oneof=work personal shopping health other"`
	Completed   *bool   `json:"completed"`
}

type taskResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
	Completed   bool   `json:"completed"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}
