package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kimsann/payway-checkout/internal/adapter/config"
	"github.com/kimsann/payway-checkout/internal/adapter/metrics"
	"github.com/kimsann/payway-checkout/internal/core/port"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	*gin.Engine
}

func NewRouter(
	conf *config.HTTP,
	tokenService port.TokenService,
	userHandler *UserHandler,
	orderHandler *OrderHandler,
	paymentHandler *PaymentHandler) (*Router, error) {

	router := gin.New()

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		user := api.Group("/user")
		{
			user.POST("/register", userHandler.RegisterUser)
			user.POST("/login", userHandler.LoginUser)
		}

		payments := api.Group("/payments")
		{
			// Server-to-server webhook, authenticated by its signature.
			payments.POST("/callback", paymentHandler.Callback)

			authed := payments.Group("")
			{
				authed.Use(authCheck(tokenService))
				authed.POST("/:id", paymentHandler.Initiate)
				authed.POST("/:id/reconcile", paymentHandler.Reconcile)
			}
		}

		orders := api.Group("/orders")
		{
			orders.Use(authCheck(tokenService))
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", orderHandler.ListOrdersByUser)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.GET("/:id/status", orderHandler.OrderStatus)
			orders.POST("/:id/deliver", orderHandler.MarkDelivered)
		}
	}

	return &Router{router}, nil
}

// Serve starts the HTTP server
func (r *Router) Serve(listenAddr string) error {
	return r.Run(listenAddr)
}
