package server

import "github.com/gin-gonic/gin"

// Machine-readable error codes. A response body is always
// {"code": <one of these>, "msg": <human readable detail>}.
const (
	ErrorValidation         = "VALIDATION_ERROR"
	ErrorConflict           = "CONFLICT"
	ErrorNotFound           = "NOT_FOUND"
	ErrorForbidden          = "FORBIDDEN"
	ErrorInternal           = "INTERNAL_ERROR"
	ErrorOracleUnavailable  = "ORACLE_UNAVAILABLE"
	ErrorOracleInvalidReply = "ORACLE_INVALID_REPLY"
)

func abortWithError(c *gin.Context, status int, code string, msg string) {
	c.JSON(status, gin.H{
		"code": code,
		"msg":  msg,
	})
	c.Abort()
}
