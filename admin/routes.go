package admin

import (
	"github.com/Kariqs/amexan-catalog/middlewares"
	"github.com/gin-gonic/gin"
)

// Routes mounts the edit-session API. Operators authenticate with the same
// token the catalog API issues; it is forwarded on every remote call.
func Routes(server *gin.Engine, h *Handler) {
	drafts := server.Group("/drafts", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		drafts.POST("", h.OpenDraft)
		drafts.GET("/:session", h.GetDraft)
		drafts.DELETE("/:session", h.CloseDraft)

		drafts.PATCH("/:session/fields", h.UpdateFields)
		drafts.POST("/:session/variants", h.AddVariant)
		drafts.PATCH("/:session/variants/:index", h.UpdateVariant)
		drafts.DELETE("/:session/variants/:index", h.RemoveVariant)

		drafts.POST("/:session/uploads", h.AddUpload)
		drafts.DELETE("/:session/uploads/:index", h.CancelUpload)
		drafts.POST("/:session/deletions", h.MarkDeletion)
		drafts.POST("/:session/deletions/:index/undo", h.UndoDeletion)
		drafts.POST("/:session/featured/:index", h.SetFeatured)

		drafts.POST("/:session/commit", h.Commit)
	}
}
