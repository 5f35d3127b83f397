package core

import "Gin_postgres_redis_material_tracker/models"

// Actor is the caller's identity as supplied by the session gate. The engine
// trusts these fields but enforces role-action legality itself; it never reads
// identity from ambient state.
type Actor struct {
	ID     string
	Role   string
	Status string
}

func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, Status: u.Status}
}

func (a Actor) active() bool { return a.Status == models.UserActive }

func (a Actor) canArbitrate() bool {
	return a.Role == models.RoleAdmin || a.Role == models.RoleManager
}
