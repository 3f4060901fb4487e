package domain

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// SystemActor is used for bootstrap and background writes.
var SystemActor = Actor{UserID: "system", Email: "system", Role: "super_admin"}

// Label is what audit fields store for the actor.
func (a Actor) Label() string {
	if a.Email != "" {
		return a.Email
	}
	return a.UserID
}
