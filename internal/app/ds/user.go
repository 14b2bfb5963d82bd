package ds

const RoleAdmin = "admin"

// User - admin account returned by the auth endpoints
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
