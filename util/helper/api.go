package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func GetPaginationParams(c *gin.Context) (skip int, limit int, err error) {
	skip, err = strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		return 0, 0, err
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

// GetIfMatchHeader parses the optional If-Match header into a version
// token. A missing header means the caller opted out of the
// concurrency check.
func GetIfMatchHeader(c *gin.Context) (*int, error) {
	raw := c.GetHeader("If-Match")
	if raw == "" {
		return nil, nil
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &version, nil
}
