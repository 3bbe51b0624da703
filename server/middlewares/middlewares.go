// Package middlewares holds the gin middlewares shared by the API server.
// Authentication is bearer-token based: the JWT middleware resolves a token
// into a user id header ("sub") that handlers read, so handler code never
// touches token parsing itself.
package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// ErrorTokenAuthFail is the machine-readable code returned whenever a
	// request's token is missing, malformed or expired.
	ErrorTokenAuthFail = "TOKEN_AUTH_FAIL"

	accessTokenTTL = 24 * time.Hour
)

func secretKey() []byte {
	return []byte(os.Getenv("SECRET_KEY"))
}

// CreateAccessToken issues a signed bearer token for the given user id.
func CreateAccessToken(userId uint) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userId), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
		ID:        uuid.New().String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey())
}

// parseAccessToken validates a bearer token and returns the user id inside.
func parseAccessToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, errors.New("token has no subject")
	}
	userId, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("token subject is not a user id")
	}
	return uint(userId), nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Fall back to a query param so simple clients can still authenticate.
	return c.Query("token")
}

// JWT rejects any request without a valid bearer token. On success it
// replaces whatever "sub" header the client may have sent with the
// authenticated user id, which handlers read via CurrentUserId.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorTokenAuthFail,
				"msg":  "empty jwt token",
			})
			c.Abort()
			return
		}

		userId, err := parseAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": ErrorTokenAuthFail,
				"msg":  err.Error(),
			})
			c.Abort()
			return
		}

		c.Request.Header.Del("sub")
		c.Request.Header.Add("sub", strconv.FormatUint(uint64(userId), 10))
		c.Next()
	}
}

// OptionalJWT resolves a token when present but lets anonymous requests
// through, for endpoints that merely personalize their output.
func OptionalJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Header.Del("sub")
		if tokenString := bearerToken(c); tokenString != "" {
			if userId, err := parseAccessToken(tokenString); err == nil {
				c.Request.Header.Add("sub", strconv.FormatUint(uint64(userId), 10))
			}
		}
		c.Next()
	}
}

// CurrentUserId returns the authenticated user id set by JWT/OptionalJWT,
// or false when the request is anonymous.
func CurrentUserId(c *gin.Context) (uint, bool) {
	sub := c.Request.Header.Get("sub")
	if sub == "" {
		return 0, false
	}
	userId, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(userId), true
}
