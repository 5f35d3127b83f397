// controllers/srv.go
package controllers

import (
	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/core"
	"Gin_postgres_redis_material_tracker/db"
	"Gin_postgres_redis_material_tracker/session"
)

// Srv bundles the dependencies shared by the controllers.
type Srv struct {
	Repo    *db.Repo
	Engine  *core.Engine
	AppSess *session.AppSessionStore
	Cfg     app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	return &Srv{
		Repo:    repo,
		Engine:  core.NewEngine(repo),
		AppSess: a.AppSessions(),
		Cfg:     a.Config,
	}
}
