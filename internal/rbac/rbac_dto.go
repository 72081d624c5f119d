package rbac

type EnforceRequest struct {
	Role     Role   `json:"role"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
