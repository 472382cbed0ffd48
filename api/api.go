package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfoliosim/internal/app"
	"portfoliosim/internal/config"
	"portfoliosim/internal/domain"
	"portfoliosim/internal/logger"
	l1_service "portfoliosim/internal/service/l1"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Store           *l1_service.PriceHistoryStore
	BacktestHandler app.BacktestHandler
	// request parameters fall back to these
	Config config.Config
	Logger *zap.SugaredLogger
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "portfolio simulator"})
	})
	router.GET("/instruments", m.listInstruments)
	router.POST("/backtest", m.backtest)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	router := m.InitializeRouterEngine()
	m.logger().Infof("listening on :%d", port)
	return router.Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) logger() *zap.SugaredLogger {
	if m.Logger == nil {
		return zap.S()
	}
	return m.Logger
}

// returnErrorJson maps configuration errors to 400, everything else to 500
func returnErrorJson(err error, c *gin.Context) {
	code := http.StatusInternalServerError
	if errors.Is(err, domain.ErrConfiguration) {
		code = http.StatusBadRequest
	}
	returnErrorJsonCode(err, c, code)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Warnf("request failed with %d: %s", code, err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	lg := m.logger().With(
		"method", c.Request.Method,
		"route", c.Request.URL.Path,
		"ip", c.ClientIP(),
	)
	c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), lg))

	start := time.Now().UTC()
	c.Next()

	lg.Infow("request",
		"status", c.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
	)
}
