package leavetype

import (
	"strings"

	"go-leave/internal/warning"

	"github.com/google/uuid"
)

type Kind string

const (
	KindAnnual      Kind = "ANNUAL"
	KindEmergency   Kind = "EMERGENCY"
	KindSick        Kind = "SICK"
	KindPatientCare Kind = "PATIENT_CARE"
	KindSpecial     Kind = "SPECIAL"
	KindBereavement Kind = "BEREAVEMENT"
)

// UnlimitedDays is stored as the cap of SPECIAL leave.
const UnlimitedDays = 100000

var labels = map[Kind]string{
	KindAnnual:      "Annual Leave",
	KindEmergency:   "Emergency Leave",
	KindSick:        "Sick Leave",
	KindPatientCare: "Patient Care Leave",
	KindSpecial:     "Special Leave",
	KindBereavement: "Bereavement Leave",
}

func (k Kind) Label() string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

func (k Kind) Valid() bool {
	_, ok := labels[k]
	return ok
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	return k, k.Valid()
}

type LeaveType struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind           Kind      `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_types_kind"`
	Description    string    `gorm:"type:text"`
	MaxDaysAllowed int       `gorm:"not null"`
}

func (t LeaveType) IsUnlimited() bool {
	return t.Kind == KindSpecial
}

func (t LeaveType) Policy() warning.Policy {
	return warning.Policy{
		MaxDaysAllowed: t.MaxDaysAllowed,
		Unlimited:      t.IsUnlimited(),
		Label:          t.Kind.Label(),
	}
}

// DefaultCatalog is the set of leave types every deployment starts with.
func DefaultCatalog() []LeaveType {
	return []LeaveType{
		{Kind: KindAnnual, Description: "Paid yearly vacation entitlement", MaxDaysAllowed: 30},
		{Kind: KindEmergency, Description: "Short notice leave for urgent personal matters", MaxDaysAllowed: 5},
		{Kind: KindSick, Description: "Leave for personal illness", MaxDaysAllowed: 30},
		{Kind: KindPatientCare, Description: "Leave to care for a sick family member", MaxDaysAllowed: 10},
		{Kind: KindSpecial, Description: "Exceptional leave without a fixed limit, always requires approval", MaxDaysAllowed: UnlimitedDays},
		{Kind: KindBereavement, Description: "Leave following the death of a relative", MaxDaysAllowed: 5},
	}
}
