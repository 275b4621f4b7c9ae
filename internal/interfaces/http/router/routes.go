package router

import (
	"github.com/gin-gonic/gin"
	"github.com/studyreuse/backend/internal/interfaces/http/middleware"
)

// apiGroups declares every route of /api/v1. Groups whose handler is nil
// are left out.
func apiGroups(jwt middleware.JWTConfig, limiters Limiters, h Handlers) []*DomainGroup {
	authed := middleware.JWTAuth(jwt)
	optional := middleware.OptionalJWTAuth(jwt)
	admin := []gin.HandlerFunc{authed, middleware.RequireAdmin()}

	var groups []*DomainGroup

	if h.Auth != nil {
		public := NewDomainGroup("auth", "/auth")
		if limiters.Auth != nil {
			public.Use(middleware.RateLimit(limiters.Auth, "auth"))
		}
		public.POST("/register", h.Auth.Register)
		public.POST("/login", h.Auth.Login)
		public.POST("/refresh", h.Auth.Refresh)

		session := NewDomainGroup("session", "/auth").Use(authed)
		session.POST("/logout", h.Auth.Logout)
		session.PUT("/password", h.Auth.ChangePassword)

		groups = append(groups, public, session)
	}

	if h.User != nil {
		users := NewDomainGroup("users", "/users").Use(authed)
		users.GET("/me", h.User.GetProfile)
		users.PUT("/me", h.User.UpdateProfile)
		groups = append(groups, users)
	}

	if h.Item != nil {
		browse := NewDomainGroup("catalog", "/items").Use(optional)
		browse.GET("", h.Item.List)
		browse.GET("/:id", h.Item.Get)

		items := NewDomainGroup("listings", "/items").Use(authed)
		items.GET("/mine", h.Item.ListMine)
		items.POST("", h.Item.Create)
		items.PUT("/:id", h.Item.Update)
		items.PATCH("/:id/status", h.Item.ChangeStatus)
		items.DELETE("/:id", h.Item.Delete)
		items.POST("/:id/image/upload-url", h.Item.RequestImageUpload)
		items.POST("/:id/image", h.Item.ConfirmImage)

		groups = append(groups, browse, items)
	}

	if h.Review != nil {
		reviews := NewDomainGroup("reviews", "")
		reviews.GET("/items/:id/reviews", h.Review.ListByItem)
		reviews.POST("/items/:id/reviews", authed, h.Review.Submit)
		reviews.DELETE("/reviews/:id", authed, h.Review.Delete)
		groups = append(groups, reviews)
	}

	if h.Barter != nil {
		barters := NewDomainGroup("barters", "/barters").Use(authed)
		barters.POST("", h.Barter.Create)
		barters.GET("/incoming", h.Barter.ListIncoming)
		barters.GET("/outgoing", h.Barter.ListOutgoing)
		barters.GET("/:id", h.Barter.Get)
		barters.PATCH("/:id/status", h.Barter.UpdateStatus)
		groups = append(groups, barters)
	}

	if h.Order != nil {
		orders := NewDomainGroup("orders", "/orders").Use(authed)
		orders.POST("", h.Order.Create)
		orders.GET("/mine", h.Order.ListMine)
		orders.GET("/selling", h.Order.ListSelling)
		orders.GET("/:id", h.Order.Get)
		orders.GET("/:id/receipt", h.Order.Receipt)
		orders.POST("/:id/accept", h.Order.Accept)
		orders.POST("/:id/reject", h.Order.Reject)
		orders.POST("/:id/cancel", h.Order.Cancel)
		orders.POST("/:id/ship", h.Order.Ship)
		orders.POST("/:id/deliver", h.Order.Deliver)
		groups = append(groups, orders)
	}

	if h.Notification != nil {
		inbox := NewDomainGroup("notifications", "/notifications").Use(authed)
		inbox.GET("", h.Notification.List)
		inbox.GET("/unread-count", h.Notification.UnreadCount)
		inbox.PATCH("/:id/read", h.Notification.MarkRead)
		inbox.POST("/read-all", h.Notification.MarkAllRead)
		groups = append(groups, inbox)
	}

	adminGroup := NewDomainGroup("admin", "/admin").Use(admin...)
	if h.Admin != nil {
		adminGroup.GET("/dashboard", h.Admin.Dashboard)
	}
	if h.User != nil {
		adminGroup.GET("/users", h.User.List)
	}
	if h.Item != nil {
		moderation := adminGroup.Group("moderation", "/items")
		moderation.GET("", h.Item.ListForModeration)
		moderation.POST("/:id/approve", h.Item.Approve)
		moderation.POST("/:id/flag", h.Item.Flag)
		moderation.POST("/:id/unflag", h.Item.Unflag)
	}
	if h.Barter != nil {
		adminGroup.GET("/barters", h.Barter.ListAll)
	}
	if h.Order != nil {
		adminGroup.GET("/orders", h.Order.ListAll)
	}
	groups = append(groups, adminGroup)

	return groups
}
