package employee

import (
	"strings"
	"time"

	"go-leave/internal/rbac"

	"github.com/google/uuid"
)

type Department string

const (
	DepartmentHR          Department = "HR"
	DepartmentMarketing   Department = "MKT"
	DepartmentRnD         Department = "R&D"
	DepartmentSales       Department = "SALES"
	DepartmentFinance     Department = "FIN"
	DepartmentIT          Department = "IT"
	DepartmentAdmin       Department = "ADMIN"
	DepartmentCustomer    Department = "CS"
	DepartmentAccounting  Department = "ACC"
	DepartmentQA          Department = "QA"
	DepartmentMaintenance Department = "MNT"
	DepartmentBusiness    Department = "BIZ"
	DepartmentDesign      Department = "DES"
	DepartmentLeadership  Department = "LEAD"
	DepartmentLegal       Department = "LEGAL"
	DepartmentOther       Department = "OTHER"
)

var departmentLabels = map[Department]string{
	DepartmentHR:          "Human Resources",
	DepartmentMarketing:   "Marketing",
	DepartmentRnD:         "Research & Development",
	DepartmentSales:       "Sales",
	DepartmentFinance:     "Finance",
	DepartmentIT:          "Information Technology",
	DepartmentAdmin:       "Administration",
	DepartmentCustomer:    "Customer Service",
	DepartmentAccounting:  "Accounting",
	DepartmentQA:          "Quality Assurance",
	DepartmentMaintenance: "Maintenance",
	DepartmentBusiness:    "Business",
	DepartmentDesign:      "Designing",
	DepartmentLeadership:  "Leadership",
	DepartmentLegal:       "Legal",
	DepartmentOther:       "Other",
}

func (d Department) Label() string {
	return departmentLabels[d]
}

// ParseDepartment defaults an empty value to OTHER.
func ParseDepartment(v string) (Department, bool) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return DepartmentOther, true
	}
	d := Department(v)
	_, ok := departmentLabels[d]
	return d, ok
}

type Employee struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_employees_user"`
	JobTitle   string     `gorm:"type:varchar(100);not null"`
	Department Department `gorm:"type:varchar(20);not null;default:'OTHER'"`
	Role       rbac.Role  `gorm:"type:varchar(20);not null;default:'employee'"`
	HireDate   time.Time  `gorm:"type:date;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "employees"
}
