package middlewares

import (
	"bytes"
	"net/http"

	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/rest/controllers"

	"github.com/gin-gonic/gin"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

const CacheHeader = "X-Cache"

// CachedResponse is a stored 200 response body
type CachedResponse struct {
	ContentType string
	Body        []byte
}

type cacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w cacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w cacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse serves GET responses from store, keyed by request URI and the caller's
// scope for elevated. Only 200 responses are stored; writes never invalidate entries.
func CacheResponse(store *ttlcache.Cache[string, CachedResponse], elevated domainPermission.Permission, loggerInstance *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || store == nil {
			c.Next()
			return
		}
		identity, err := controllers.Identity(c)
		if err != nil {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI() + "|" + identity.ScopeKey(elevated)
		if item := store.Get(key); item != nil && !item.IsExpired() {
			cached := item.Value()
			c.Header(CacheHeader, "HIT")
			c.Data(http.StatusOK, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		writer := &cacheWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Header(CacheHeader, "MISS")
		c.Next()

		if writer.Status() == http.StatusOK && len(c.Errors) == 0 {
			store.Set(key, CachedResponse{
				ContentType: writer.Header().Get("Content-Type"),
				Body:        append([]byte(nil), writer.body.Bytes()...),
			}, ttlcache.DefaultTTL)
			loggerInstance.Debug("Response cached", zap.String("key", key))
		}
	}
}
