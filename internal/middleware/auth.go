package middleware

import (
	"net/http"

	"restopos-be/internal/auth"
	"restopos-be/internal/logger"
	"restopos-be/internal/staff"
	"restopos-be/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware attaches the staff identity when a token is present.
// Requests without a token pass through anonymously; a bad or expired token
// is rejected.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.ExtractAccessToken(r)
		if tokenStr == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := staff.ParseJWT(tokenStr)
		if err != nil {
			logger.FromCtx(r.Context()).Info("rejected token", zap.Error(err))
			utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		if claims.RestaurantID != nil {
			ctx = utils.WithRestaurant(ctx, *claims.RestaurantID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff aborts with 401 unless AuthMiddleware identified a staff member.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUserIDFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "authentication required"})
			return
		}
		c.Next()
	}
}
