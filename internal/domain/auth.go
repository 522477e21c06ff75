package domain

// Role differentiates admin and ambassador callers.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleAmbassador Role = "AMBASSADOR"
)

// Actor identifies who performed a state change.
type Actor struct {
	Role Role
	ID   string
}

// SystemActor is used for changes not initiated by a caller, such as seeding.
var SystemActor = Actor{Role: RoleAdmin, ID: "system"}
