package handlers

import (
	"net/http"
	"strings"

	casdoorsdk "github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/soma-study/exam-service/internal/config"
	"github.com/soma-study/exam-service/internal/models"
	"github.com/soma-study/exam-service/internal/utils"
)

const (
	contextUserKey   = "current_user"
	contextUserIDKey = "current_user_id"
)

// NewCasdoorAuth gates every request behind the external identity provider.
// The service has no session logic of its own; a missing or invalid token is
// simply a 401.
func NewCasdoorAuth(cfg config.CasdoorConfig, logger utils.Logger) gin.HandlerFunc {
	casdoorsdk.InitConfig(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "missing bearer token"})
			return
		}

		claims, err := casdoorsdk.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Rejected invalid token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "invalid token"})
			return
		}

		user := models.User{
			ID:        claims.User.Id,
			Name:      claims.User.DisplayName,
			Email:     claims.User.Email,
			AvatarURL: claims.User.Avatar,
		}
		c.Set(contextUserKey, user)
		c.Set(contextUserIDKey, user.ID)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, empty when unset.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(contextUserIDKey)
}
