// Package httpapi exposes the user services over HTTP: the public signup and
// signin endpoints plus the bearer-token-protected profile routes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/viktorkr/authapp/internal/logging"
	"github.com/viktorkr/authapp/internal/server/users"
)

// Server wires the gin router to the user service.
type Server struct {
	address   string
	users     *users.Service
	logger    logging.Logger
	jwtSecret []byte
	cors      []string
}

func NewServer(address string, l logging.Logger, us *users.Service, secretKey string, corsOrigins []string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		users:     us,
		jwtSecret: []byte(secretKey),
		cors:      corsOrigins,
	}
}

// Router builds the gin engine with all routes attached. Split from Run so
// tests can drive it through httptest.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(s.cors) == 0 || (len(s.cors) == 1 && s.cors[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cors
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/ping", s.Ping)

	auth := router.Group("/auth")
	{
		auth.POST("/signup", s.SignUp)
		auth.POST("/signin", s.SignIn)
		// Tokens are stateless, so signout has no server state to clear;
		// the bearer token is accepted but not required.
		auth.POST("/signout", s.SignOut)
		auth.GET("/me", s.requireToken(), s.Me)
	}

	api := router.Group("/api")
	api.Use(s.requireToken())
	{
		api.GET("/me", s.Me)
		api.PUT("/me", s.UpdateMe)
		api.PATCH("/me", s.UpdateMe)
	}

	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
