package common

import "github.com/gin-gonic/gin"

// Shared JSON envelope: {code, message, data}. code 0 is success; non-zero
// codes group by failure class (1xxxx bad request, 4xxxx client-visible
// state, 5xxxx server side).
func Ok(c *gin.Context, data any) {
	c.JSON(200, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}
