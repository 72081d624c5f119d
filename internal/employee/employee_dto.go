package employee

const dateLayout = "2006-01-02"

type CreateEmployeeRequest struct {
	UserID     string `json:"user_id" binding:"required,uuid"`
	JobTitle   string `json:"job_title" binding:"required,max=100"`
	Department string `json:"department"`
	Role       string `json:"role" binding:"omitempty,oneof=admin employee"`
	HireDate   string `json:"hire_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	JobTitle   string `json:"job_title" binding:"required,max=100"`
	Department string `json:"department"`
	Role       string `json:"role" binding:"omitempty,oneof=admin employee"`
	HireDate   string `json:"hire_date" binding:"required"`
}

type EmployeeResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	JobTitle        string `json:"job_title"`
	Department      string `json:"department"`
	DepartmentLabel string `json:"department_label"`
	Role            string `json:"role"`
	HireDate        string `json:"hire_date"`
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		JobTitle:        e.JobTitle,
		Department:      string(e.Department),
		DepartmentLabel: e.Department.Label(),
		Role:            string(e.Role),
		HireDate:        e.HireDate.Format(dateLayout),
	}
}

func mapToListResponse(list []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(list))
	for i, e := range list {
		res[i] = mapToResponse(e)
	}
	return res
}
