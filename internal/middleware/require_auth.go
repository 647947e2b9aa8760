// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/auth"
	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

// RequireAuth validates a Bearer token in the Authorization header and checks
// that the user associated with the token still exists before allowing access
// to the endpoint.
func RequireAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			utilities.AbortFail(ctx, http.StatusBadRequest, err.Error())
			return
		}

		token, err := auth.ValidatedToken(tokenString)

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utilities.AbortFail(ctx, http.StatusUnauthorized, "Access token expired")
				return
			}

			utilities.AbortFail(ctx, http.StatusUnauthorized, fmt.Sprintf("Failed to validate token: %s", err.Error()))
			return
		}

		if !token.Valid {
			utilities.AbortFail(ctx, http.StatusUnauthorized, "Invalid access token")
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)

		if claims.Issuer != auth.JwtIssuer {
			utilities.AbortFail(ctx, http.StatusUnauthorized, "Invalid token issuer")
			return
		}

		userID := claims.Subject

		var foundUser model.User

		if err := db.Where("id = ?", userID).First(&foundUser).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				utilities.AbortFail(ctx, http.StatusUnauthorized, "User not exist")
				return
			}

			utilities.AbortFail(ctx, http.StatusInternalServerError,
				fmt.Sprintf("Failed to retrieve user data: %s", err.Error()))
			return
		}

		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
