package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func observedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{Log: zap.New(core)}, logs
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger()
	assert.NoError(t, err)
	assert.NotNil(t, l.Log)

	dev, err := NewDevelopmentLogger()
	assert.NoError(t, err)
	assert.NotNil(t, dev.Log)
}

func TestGinZapLogger_LogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	l, logs := observedLogger()

	router := gin.New()
	router.Use(l.GinZapLogger())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping?x=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.FilterMessage("Request served").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/ping", fields["path"])
		assert.Equal(t, "x=1", fields["query"])
		assert.Equal(t, int64(http.StatusOK), fields["status"])
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := observedLogger()
	g := NewGormLogger(l.Log)
	silent := g.LogMode(gormlogger.Silent).(*GormLogger)
	assert.Equal(t, gormlogger.Silent, silent.logLevel)
	assert.Equal(t, gormlogger.Warn, g.logLevel)
}
