package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"hopefoundation_backend/internals/configs"
	"hopefoundation_backend/internals/constants"
	staffService "hopefoundation_backend/internals/features/users/staff/service"
	authMiddleware "hopefoundation_backend/internals/middlewares/auth"
	routeDetails "hopefoundation_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, staff *staffService.StaffService, finance *routeDetails.FinanceServices) {
	startTime = time.Now()

	BaseRoutes(app)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== GROUPS =====================

	// PUBLIC → tanpa login (summary, institusi, checkout donasi, webhook gateway)
	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")

	// AUTH dipasang sebelum group JWT: prefix /api/auth juga cocok dengan /api/a
	log.Println("[INFO] Setting up AUTH group...")
	auth := app.Group("/api/auth")
	routeDetails.AuthRoutes(auth, staff)

	// ADMIN → semua akun staff; tulis dibatasi per route
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		jwt,
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("the admin dashboard"), constants.AllRoles...),
	)

	// OWNER → admin saja
	log.Println("[INFO] Setting up OWNER group (Auth + admin)...")
	owner := app.Group("/api/o",
		jwt,
		authMiddleware.OnlyRoles(constants.RoleErrorAdmin("this endpoint"), constants.AdminOnly...),
	)

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Staff routes...")
	routeDetails.StaffAdminRoutes(admin, staff)
	routeDetails.StaffOwnerRoutes(owner, staff)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinancePublicRoutes(public, finance)
	routeDetails.FinanceAdminRoutes(admin, finance)
	routeDetails.FinanceOwnerRoutes(owner, finance)
}
