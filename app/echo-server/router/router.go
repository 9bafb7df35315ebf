package router

import (
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/middleware"
	"github.com/lorenzotett/alma-skin-guru-sub000/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	admin := api.Group("/admin")
	admin.POST("/login", handler.Login)
	admin.POST("/logout", handler.Logout, authRequired)
	admin.GET("/me", handler.Me, authRequired)

	users := admin.Group("/users", authRequired)
	users.GET("", handler.GetAllUsers, middleware.AdminOnly())
	users.POST("", handler.CreateUser, middleware.AdminOnly())
	users.GET("/:id", handler.GetUserByID, middleware.SelfOrAdmin())
	users.PUT("/:id", handler.UpdateUser, middleware.SelfOrAdmin())
	users.DELETE("/:id", handler.DeleteUser, middleware.AdminOnly())
}

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/products", handler.ListProducts)
	api.GET("/categories", handler.ListCategories)

	products := api.Group("/admin/products", authRequired, middleware.StaffOnly())
	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
	products.POST("", handler.CreateProduct)
	products.PUT("/:id", handler.UpdateProduct)
	products.DELETE("/:id", handler.DeleteProduct, middleware.AdminOnly())
}

func SetupQuizRoutes(api *echo.Group, quiz *rest.QuizHandler, analysis *rest.AnalysisHandler, chat *rest.ChatHandler) {
	api.POST("/quiz/recommendations", quiz.Recommend)
	api.POST("/skin-analysis", analysis.Analyze)
	api.POST("/chat/:kind", chat.Chat)
}

func SetupLeadRoutes(api *echo.Group, handler *rest.LeadHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/leads", handler.CreateLead)

	admin := api.Group("/admin", authRequired, middleware.StaffOnly())
	admin.GET("/leads", handler.ListLeads)
	admin.GET("/leads/:id", handler.GetLead)
	admin.GET("/analytics", handler.Analytics)
}

func SetupCartRoutes(api *echo.Group, handler *rest.CartHandler) {
	carts := api.Group("/carts")
	carts.POST("", handler.CreateCart)
	carts.GET("/:id", handler.GetCart)
	carts.DELETE("/:id", handler.DeleteCart)
	carts.POST("/:id/items", handler.AddItem)
	carts.PUT("/:id/items/:product_id", handler.SetQuantity)
	carts.DELETE("/:id/items/:product_id", handler.RemoveItem)
	carts.GET("/:id/checkout", handler.Checkout)
}
