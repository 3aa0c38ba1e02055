package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/handlers"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/middleware"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/token"
)

// Deps bundles the services the routes dispatch to.
type Deps struct {
	Tokens     *token.Service
	Auth       *services.AuthService
	Users      *services.UserService
	Products   *services.ProductService
	Categories *services.CategoryService
	Carts      *services.CartService
	Orders     *services.OrderService
	Statistics *services.StatisticsService
}

func SetupRouters(deps Deps) *gin.Engine {
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil
	}

	router.Static("/uploads", "./uploads")

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	////No permission needed, middleware resolves the user when a token is present
	router.Use(middleware.AuthMiddleware(deps.Tokens, deps.Users))
	{
		router.POST("/api/v1/auth/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, deps.Users)
		})
		router.GET("/api/v1/auth/activate", func(context *gin.Context) {
			handlers.ActivateHandler(context, deps.Users)
		})
		router.POST("/api/v1/auth/login", func(context *gin.Context) {
			handlers.LoginHandler(context, deps.Auth)
		})
		router.POST("/api/v1/auth/refresh-token", func(context *gin.Context) {
			handlers.RefreshTokenHandler(context, deps.Auth)
		})
		// Logout presents the refresh token, not an access token, so it lives
		// beside refresh rather than behind the login gate.
		router.POST("/api/v1/auth/logout", func(context *gin.Context) {
			handlers.LogoutHandler(context, deps.Auth)
		})
		router.POST("/api/v1/auth/forgot-password", func(context *gin.Context) {
			handlers.ForgotPasswordHandler(context, deps.Users)
		})
		router.GET("/api/v1/products", func(context *gin.Context) {
			handlers.GetProductListHandler(context, deps.Products)
		})
		router.GET("/api/v1/products/:productID", func(context *gin.Context) {
			handlers.GetProductDataHandler(context, deps.Products)
		})
		router.GET("/api/v1/categories", func(context *gin.Context) {
			handlers.GetCategoryListHandler(context, deps.Categories)
		})
		router.GET("/api/v1/categories/type/:type", func(context *gin.Context) {
			handlers.GetCategoriesByTypeHandler(context, deps.Categories)
		})

		////Login required, middleware rejects anonymous requests
		loginRequired := router.Group("/api/v1/user")
		loginRequired.Use(middleware.CheckLoginMiddleware())
		{
			loginRequired.GET("/profile", func(context *gin.Context) {
				handlers.GetUserProfileHandler(context, deps.Users)
			})
			loginRequired.PATCH("/profile/edit", func(context *gin.Context) {
				handlers.UpdateUserProfileHandler(context, deps.Users)
			})
			loginRequired.POST("/change-password", func(context *gin.Context) {
				handlers.ChangePasswordHandler(context, deps.Users)
			})
			loginRequired.POST("/carts/add", func(context *gin.Context) {
				handlers.AddToCartHandler(context, deps.Carts)
			})
			loginRequired.POST("/carts/update", func(context *gin.Context) {
				handlers.UpdateCartHandler(context, deps.Carts)
			})
			loginRequired.GET("/carts", func(context *gin.Context) {
				handlers.GetCartHandler(context, deps.Carts)
			})
			loginRequired.POST("/orders", func(context *gin.Context) {
				handlers.CreateOrderHandler(context, deps.Orders)
			})
			loginRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetMyOrdersHandler(context, deps.Orders)
			})
			loginRequired.GET("/orders/:orderID", func(context *gin.Context) {
				handlers.GetOrderHandler(context, deps.Orders)
			})
		}

		////Admin only, middleware checks login and the ADMIN role
		adminRequired := router.Group("/api/v1/admin")
		adminRequired.Use(middleware.CheckLoginMiddleware(), middleware.CheckAdminPermissionMiddleware())
		{
			adminRequired.GET("/users", func(context *gin.Context) {
				handlers.GetUserListHandler(context, deps.Users)
			})
			adminRequired.POST("/image", func(context *gin.Context) {
				handlers.UploadImageHandler(context)
			})
			adminRequired.POST("/products", func(context *gin.Context) {
				handlers.CreateProductHandler(context, deps.Products)
			})
			adminRequired.PATCH("/products/:productID", func(context *gin.Context) {
				handlers.UpdateProductHandler(context, deps.Products)
			})
			adminRequired.DELETE("/products/:productID", func(context *gin.Context) {
				handlers.DeleteProductHandler(context, deps.Products)
			})
			adminRequired.POST("/categories", func(context *gin.Context) {
				handlers.CreateCategoryHandler(context, deps.Categories)
			})
			adminRequired.PATCH("/categories/:categoryID", func(context *gin.Context) {
				handlers.UpdateCategoryHandler(context, deps.Categories)
			})
			adminRequired.DELETE("/categories/:categoryID", func(context *gin.Context) {
				handlers.DeleteCategoryHandler(context, deps.Categories)
			})
			adminRequired.GET("/orders", func(context *gin.Context) {
				handlers.GetAllOrdersHandler(context, deps.Orders)
			})
			adminRequired.PATCH("/orders/:orderID", func(context *gin.Context) {
				handlers.UpdateOrderStatusHandler(context, deps.Orders)
			})
			adminRequired.GET("/statistics/top-products", func(context *gin.Context) {
				handlers.GetTopSellingProductsHandler(context, deps.Statistics)
			})
			adminRequired.GET("/statistics/revenue", func(context *gin.Context) {
				handlers.GetRevenueByDateHandler(context, deps.Statistics)
			})
			adminRequired.GET("/statistics/revenue/period", func(context *gin.Context) {
				handlers.GetRevenueByPeriodHandler(context, deps.Statistics)
			})
		}
	}

	return router
}
