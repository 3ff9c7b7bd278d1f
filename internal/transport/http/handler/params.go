package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func refreshRequested(c *gin.Context) bool {
	v := queryBool(c, "refresh")
	return v != nil && *v
}

// queryBool returns nil when the parameter is absent or not a boolean.
func queryBool(c *gin.Context, name string) *bool {
	raw, ok := c.GetQuery(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
