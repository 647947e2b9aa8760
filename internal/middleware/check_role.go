package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"CampusPlacement-backend/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific roles
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			utilities.AbortFail(ctx, http.StatusUnauthorized, err.Error())
			return
		}

		if !lo.Contains(roles, user.Role) {
			utilities.AbortFail(ctx, http.StatusForbidden, "User doesn't have permission to access")
		}
	}
}
