package routes

import (
	"Gin_postgres_redis_material_tracker/app"
	"Gin_postgres_redis_material_tracker/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	uc := controllers.GetUserController(s)
	itemCtl := controllers.NewItemController(s)
	reqCtl := controllers.NewRequestController(s)
	histCtl := controllers.NewHistoryController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	arbiterMW := app.ArbiterOnly()
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth / session
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/login", uc.Login)
		auth.POST("/logout", uc.Logout)
		auth.GET("/whoami", authMW, uc.WhoAmI)
	}

	// ------------------------------
	// Users (admin only)
	// ------------------------------
	users := r.Group("/api/users", authMW, adminMW)
	{
		users.GET("", uc.ListUsers) // ?q=&page=&size=
		users.GET("/:id", uc.GetUser)
		users.POST("", uc.CreateUser)
		users.PATCH("/:id/status", uc.SetStatus)
		users.PATCH("/:id/role", uc.SetRole)
		users.DELETE("/:id", uc.DeleteUser)
	}

	// ------------------------------
	// Items: manage (admin/manager)
	// ------------------------------
	itemsAdmin := r.Group("/api/items", authMW, arbiterMW)
	{
		itemsAdmin.POST("", itemCtl.CreateItem)
		itemsAdmin.PATCH("/:id", itemCtl.UpdateItem)
		itemsAdmin.POST("/:id/archive", itemCtl.Archive)
		itemsAdmin.POST("/:id/restore", itemCtl.Restore)
	}

	// ------------------------------
	// Items: browse / request / history (any active user)
	// ------------------------------
	items := r.Group("/api/items", authMW, seenMW)
	{
		items.GET("", itemCtl.ListItems) // ?q=&status=&page=&size=
		items.GET("/:id", itemCtl.GetItem)
		items.GET("/:id/history", histCtl.ListForItem)
		items.GET("/:id/requests", reqCtl.ListForItem)
		items.POST("/:id/requests", reqCtl.Submit)
	}

	// ------------------------------
	// Requests: decide (admin/manager), plus own-request view
	// ------------------------------
	requests := r.Group("/api/requests", authMW)
	{
		requests.GET("/mine", reqCtl.ListMine)
		requests.POST("/:id/approve", arbiterMW, reqCtl.Approve)
		requests.POST("/:id/reject", arbiterMW, reqCtl.Reject)
	}
}
