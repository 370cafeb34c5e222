package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pawmart/internal/config"
)

// Server is a development stand-in for the storefront backend. It implements
// the REST contract the client consumes against an in-memory store.
type Server struct {
	cfg    config.ServerConfig
	store  *Store
	router *gin.Engine
}

// New wires a server around the given store
func New(cfg config.ServerConfig, store *Store) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{
		cfg:    cfg,
		store:  store,
		router: router,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.Group("/api")

	api.POST("/token/", s.obtainToken)
	api.POST("/token/refresh/", s.refreshToken)
	api.POST("/user/register/", s.register)

	api.GET("/products/", s.listProducts)
	api.GET("/products/:id/", s.getProduct)
	api.GET("/events/", s.listEvents)
	api.GET("/events/:id/", s.getEvent)

	authed := api.Group("")
	authed.Use(s.requireAuth)
	authed.GET("/user/", s.currentUser)
	authed.GET("/cart/", s.getCart)
	authed.POST("/cart/add/", s.addToCart)
	authed.PATCH("/cart/update/:id/", s.updateCartLine)
	authed.DELETE("/cart/remove/:id/", s.removeCartLine)
	authed.POST("/cart/complete/", s.completeCart)
	authed.GET("/orders/", s.listOrders)
}

// Router exposes the underlying handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the server on the configured host and port
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	log.Printf("pawmart dev API listening on %s", addr)
	return s.router.Run(addr)
}
