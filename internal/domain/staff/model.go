package staff

import "time"

// Role del personal de la clínica.
// @Enum vet, assistant, admin
type Role string

const (
	RoleVet       Role = "vet"
	RoleAssistant Role = "assistant"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVet, RoleAssistant, RoleAdmin:
		return true
	}
	return false
}

type Member struct {
	ID    string
	Name  string
	Email string
	Role  Role

	CreatedAt time.Time
}
