package handler

type createTaskRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description"`
	Framework   string  `json:"framework"   validate:"required,max=100"`
	Category    string  `json:"category"    validate:"required,max=100"`
	Status      string  `json:"status"      validate:"omitempty,oneof=open in_progress done"`
}

// updateTaskRequest accepts any subset of the create fields. Absent fields are
// left untouched.
type updateTaskRequest struct {
	Name        *string `json:"name"        validate:"omitnil,min=1,max=255"`
	Description *string `json:"description"`
	Framework   *string `json:"framework"   validate:"omitnil,min=1,max=100"`
	Category    *string `json:"category"    validate:"omitnil,min=1,max=100"`
	Status      *string `json:"status"      validate:"omitnil,oneof=open in_progress done"`
}

type listTasksQuery struct {
	Framework string `query:"framework"`
	Category  string `query:"category"`
}
