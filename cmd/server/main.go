package main

import (
	"log"
	"strings"

	"dispatch-backend/internal/admin"
	"dispatch-backend/internal/audit"
	"dispatch-backend/internal/auth"
	"dispatch-backend/internal/config"
	"dispatch-backend/internal/dashboard"
	"dispatch-backend/internal/database"
	"dispatch-backend/internal/dispatch"
	"dispatch-backend/internal/export"
	"dispatch-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin: kullanıcı yönetimi
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))
	adminRoutes.Post("/users", admin.CreateUserHandler())
	adminRoutes.Get("/users", admin.ListUsersHandler())

	// Föy CRUD
	protected.Post("/sheets",
		auth.RequireRole(models.RoleStagingSupervisor, models.RoleAdmin, models.RoleSuperAdmin),
		dispatch.CreateSheetHandler())
	protected.Get("/sheets", dispatch.ListSheetsHandler())
	protected.Get("/sheets/:id", dispatch.GetSheetHandler())
	protected.Put("/sheets/:id/header", dispatch.UpdateHeaderHandler())
	protected.Delete("/sheets/:id",
		auth.RequireRole(models.RoleAdmin, models.RoleSuperAdmin),
		dispatch.DeleteSheetHandler())

	// Hazırlama kalemleri
	protected.Put("/sheets/:id/staging-items", dispatch.ReplaceStagingItemsHandler())

	// Yükleme gridi ve ek ürünler
	protected.Post("/sheets/:id/loading-cells", dispatch.SetLoadingCellHandler())
	protected.Post("/sheets/:id/loading-loose", dispatch.SetLoadingLooseHandler())
	protected.Put("/sheets/:id/additional-items/:slot", dispatch.SetAdditionalItemHandler())

	// Yaşam döngüsü geçişleri (rol kontrolü geçiş tablosunda)
	protected.Post("/sheets/:id/submit-staging", dispatch.SubmitStagingHandler())
	protected.Post("/sheets/:id/verify-staging", dispatch.VerifyStagingHandler())
	protected.Post("/sheets/:id/reject-staging", dispatch.RejectStagingHandler())
	protected.Post("/sheets/:id/submit-loading", dispatch.SubmitLoadingHandler())
	protected.Post("/sheets/:id/verify-loading", dispatch.VerifyLoadingHandler())
	protected.Post("/sheets/:id/reject-loading", dispatch.RejectLoadingHandler())

	// Kalem seviyesi ret ve yorumlar
	protected.Post("/sheets/:id/items/:serial/reject", dispatch.ToggleItemRejectionHandler())
	protected.Post("/sheets/:id/comments", dispatch.AddCommentHandler())

	// Dışa aktarma
	protected.Get("/sheets/:id/export", export.ExportSheetHandler())

	// Dashboard
	protected.Get("/dashboard/sheet-summary", dashboard.SheetSummaryHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
