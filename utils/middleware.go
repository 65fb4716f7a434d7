package utils

import (
	"log"
	"strconv"

	"github.com/gin-gonic/gin"
)

type errorLogWriter struct {
	gin.ResponseWriter
	gc *gin.Context
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	status := w.gc.Writer.Status()
	if status >= 400 {
		log.Printf("[HTTP %d] %s %s: %s", status, w.gc.Request.Method, w.gc.Request.URL.Path, string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs every error response body. Doesn't work with GZIP
func ErrorLogMiddleware(c *gin.Context) {
	blw := &errorLogWriter{gc: c, ResponseWriter: c.Writer}
	c.Writer = blw
	c.Next()
}

const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter sets a default cache-control header; individual end-points can
// override it (locator responses are presigned and must not be cached).
type CacheRouter struct {
	CacheTime int // defaults to CacheNoCache = 0
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime != CacheCustom {
			if cr.CacheTime == CacheNoCache {
				c.Header("cache-control", "no-cache")
			} else {
				c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
			}
		}
		c.Next()
	}
}
