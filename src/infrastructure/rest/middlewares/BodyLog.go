package middlewares

import (
	"bytes"
	"io"
	"strings"

	logger "go-mailing-api/src/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
)

const maxLoggedBody = 4096

// redactedPaths maps a JSON key to the sjson path overwritten when the key appears in a body
var redactedPaths = map[string]string{
	"password":        "password",
	"password2":       "password2",
	"refreshToken":    "refreshToken",
	"jwtAccessToken":  "security.jwtAccessToken",
	"jwtRefreshToken": "security.jwtRefreshToken",
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// RedactJSON replaces secrets in a JSON document with "***". Bodies that are not JSON are returned unchanged.
func RedactJSON(body []byte) []byte {
	out := body
	for key, path := range redactedPaths {
		if !bytes.Contains(out, []byte(`"`+key+`"`)) {
			continue
		}
		redacted, err := sjson.SetBytes(out, path, "***")
		if err != nil {
			return body
		}
		out = redacted
	}
	return out
}

func truncate(b []byte) string {
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "..."
	}
	return string(b)
}

// GinBodyLogMiddleware logs JSON request and response bodies at debug level with secrets redacted
func GinBodyLogMiddleware(loggerInstance *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		isJSON := strings.HasPrefix(c.ContentType(), "application/json")
		var requestBody []byte
		if isJSON && c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("requestID", c.GetString(RequestIDKey)),
		}
		if len(requestBody) > 0 {
			fields = append(fields, zap.String("requestBody", truncate(RedactJSON(requestBody))))
		}
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			fields = append(fields, zap.String("responseBody", truncate(RedactJSON(writer.body.Bytes()))))
		}
		loggerInstance.Debug("HTTP body", fields...)
	}
}
