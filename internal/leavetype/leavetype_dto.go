package leavetype

type LeaveTypeResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	MaxDaysAllowed int    `json:"max_days_allowed"`
	Unlimited      bool   `json:"unlimited"`
}

func mapToResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:             t.ID.String(),
		Kind:           string(t.Kind),
		Label:          t.Kind.Label(),
		Description:    t.Description,
		MaxDaysAllowed: t.MaxDaysAllowed,
		Unlimited:      t.IsUnlimited(),
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, t := range types {
		resp[i] = mapToResponse(t)
	}
	return resp
}
