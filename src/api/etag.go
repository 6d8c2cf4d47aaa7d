package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/OneOfOne/xxhash"
	"github.com/gin-gonic/gin"
)

// writeCached renders v as JSON with a content hash ETag and answers 304
// when the client already holds that version.
func writeCached(c *gin.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		internalError(c, err)
		return
	}
	etag := `"` + strconv.FormatUint(xxhash.Checksum64(body), 16) + `"`
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
