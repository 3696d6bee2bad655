package models

// Role identifies a workflow participant's function, not their identity.
type Role string

const (
	RoleStudent            Role = "Student"
	RoleAdvisor            Role = "Advisor"
	RoleDepartmentHead     Role = "DepartmentHead"
	RoleCostSharingOfficer Role = "CostSharingOfficer"
	RoleRegistrar          Role = "Registrar"
)

// Actor is the explicit caller identity passed into every workflow
// operation. There is no ambient principal anywhere in the services.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}
