package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/ak00-rgb/popfeed-app/utils"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

func parseBearerToken(c *gin.Context) (*utils.UserClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	bearerToken := strings.Split(authHeader, " ")
	if len(bearerToken) != 2 {
		return nil, false
	}

	token := bearerToken[1]
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !parsedToken.Valid {
		return nil, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, false
	}
	email, _ := claims["email"].(string)

	return &utils.UserClaims{UserID: userID, Email: email}, true
}

// AuthMiddleware rejects requests without a valid bearer token. The
// error carries the AUTH_REQUIRED code so clients can route to sign-in.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userClaims, ok := parseBearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Authentication required",
				"code":    "AUTH_REQUIRED",
			})
			c.Abort()
			return
		}

		c.Set(string(utils.UserContextKey), userClaims)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the viewer when a valid token is
// present and continues anonymously otherwise. Feed views are readable
// without signing in; only the per-viewer like flags depend on identity.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userClaims, ok := parseBearerToken(c); ok {
			c.Set(string(utils.UserContextKey), userClaims)
		}
		c.Next()
	}
}
