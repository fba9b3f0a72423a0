package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	domain "github.com/BruksfildServices01/appointment-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/appointment-engine/internal/httperr"
)

const (
	ContextUserID = "userID"
	ContextActor  = "actor"
)

// AuthMiddleware accepts HS256 bearer tokens carrying "sub", "role" and,
// for professionals, "professionalId".
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid_authorization_header", "Authorization header must be a bearer token.")
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid_token", "Token is invalid or expired.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid_token_claims", "Token claims are unreadable.")
			return
		}

		actor, ok := actorFromClaims(claims)
		if !ok {
			unauthorized(c, "invalid_token_payload", "Token does not identify a user.")
			return
		}

		c.Set(ContextUserID, actor.UserID)
		c.Set(ContextActor, actor)

		c.Next()
	}
}

func unauthorized(c *gin.Context, code, message string) {
	httperr.Unauthorized(c, code, message)
	c.Abort()
}

func actorFromClaims(claims jwt.MapClaims) (domain.Actor, bool) {
	userID, ok := claims["sub"].(float64)
	if !ok || userID <= 0 {
		return domain.Actor{}, false
	}

	role := domain.Role(strings.ToLower(stringClaim(claims, "role")))
	switch role {
	case domain.RoleAdmin, domain.RoleProfessional:
	default:
		role = domain.RoleUser
	}

	actor := domain.Actor{UserID: uint(userID), Role: role}

	if role == domain.RoleProfessional {
		proID, ok := claims["professionalId"].(float64)
		if !ok || proID <= 0 {
			return domain.Actor{}, false
		}
		actor.ProfessionalID = uint(proID)
	}

	return actor, true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// ActorFrom returns the authenticated actor. Routes behind AuthMiddleware
// always have one.
func ActorFrom(c *gin.Context) domain.Actor {
	return c.MustGet(ContextActor).(domain.Actor)
}
