package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/openroom/openroom-server/internal/auth"
	"github.com/openroom/openroom-server/internal/config"
	"github.com/openroom/openroom-server/internal/core"
)

// NewServer builds the HTTP server: auth endpoints plus the websocket
// upgrade route.
func NewServer(engine *core.Engine, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	api := NewAPIHandlers(engine, authService, logger)
	apiGroup := router.Group("/api")
	apiGroup.POST("/register", api.Register)
	apiGroup.POST("/login", api.Login)
	apiGroup.POST("/logout", api.Logout)

	ws := NewWSHandler(engine, authService, cfg, logger)
	router.GET("/ws", ws.Handle)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
