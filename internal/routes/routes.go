package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/zipit/internal/config"
	"github.com/example/zipit/internal/handlers"
	"github.com/example/zipit/internal/middleware"
	"github.com/example/zipit/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	itemHandler := handlers.NewItemHandler(db)
	orderHandler := handlers.NewOrderHandler(db, telegramService)
	backupHandler := handlers.NewBackupHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)

	// Public catalog routes
	categories := api.Group("/categories")
	categories.Get("/", catalogHandler.ListCategories)
	categories.Get("/:id", catalogHandler.GetCategory)

	items := api.Group("/items")
	items.Get("/", itemHandler.ListItems)
	items.Get("/similar", itemHandler.GetSimilarItems)
	items.Get("/:id", itemHandler.GetItem)

	// Anonymous order submission
	api.Post("/orders", orderHandler.CreateOrder)

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg))

	admin.Post("/auth/password", authHandler.ChangePassword)

	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)

	admin.Get("/items/:id", itemHandler.GetItemAdmin)
	admin.Post("/items", itemHandler.CreateItem)
	admin.Put("/items/:id", itemHandler.UpdateItem)
	admin.Delete("/items/:id", itemHandler.DeleteItem)

	admin.Get("/orders", orderHandler.ListOrders)
	admin.Get("/orders/:id", orderHandler.GetOrder)
	admin.Put("/orders/:id/status", orderHandler.UpdateOrderStatus)

	admin.Get("/backup", backupHandler.Backup)
}
