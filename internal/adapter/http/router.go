package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
)

// NewShopRouter wires the public storefront surface, including the
// unauthenticated payment-gateway webhook.
func NewShopRouter(shop *ShopHandler, webhook *WebhookHandler, lgr logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))

	r.Get("/products", shop.ListProducts)
	r.Post("/orders", shop.CreateOrder)
	r.Get("/orders/{id}", shop.GetOrder)
	r.Post("/orders/{id}/payment", shop.StartPayment)
	r.Post("/payments/webhook", webhook.HandleNotification)

	return r
}

// NewAdminRouter wires the staff surface behind basic auth.
func NewAdminRouter(admin *AdminHandler, adminUser, adminPass string, lgr logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RecoveryMiddleware(lgr))
	r.Use(LoggingMiddleware(lgr))
	r.Use(BasicAuthMiddleware(adminUser, adminPass, lgr))

	r.Route("/admin", func(r chi.Router) {
		r.Get("/orders", admin.ListOrders)
		r.Get("/orders/{id}", admin.GetOrder)
		r.Post("/orders/{id}/status", admin.UpdateStatus)
		r.Post("/orders/{id}/cancel", admin.Cancel)
		r.Post("/orders/{id}/restore", admin.Restore)
		r.Post("/orders/{id}/archive", admin.Archive)
		r.Post("/orders/{id}/unarchive", admin.Unarchive)

		r.Post("/orders/bulk/cancel", admin.BulkCancel)
		r.Post("/orders/bulk/restore", admin.BulkRestore)
		r.Post("/orders/bulk/archive", admin.BulkArchive)
		r.Post("/orders/bulk/unarchive", admin.BulkUnarchive)

		r.Post("/orders/{id}/notes", admin.AddNote)
		r.Get("/orders/{id}/notes", admin.ListNotes)

		r.Get("/dispatch", admin.Dispatch)
	})

	return r
}
