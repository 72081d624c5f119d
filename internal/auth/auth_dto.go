package auth

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=150"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Role       string `json:"role"`
}

func mapToResponse(u User, profile *EmployeeProfile, role string) AuthResponse {
	resp := AuthResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      role,
	}
	if profile != nil {
		resp.EmployeeID = profile.ID.String()
	}
	return resp
}
