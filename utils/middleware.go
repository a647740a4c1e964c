package utils

import (
	"property-reviews-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the verified access
// token and stores it in the request values for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// StaffOnlyMiddleware ensures the requester has the staff role.
func StaffOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != models.RoleStaff {
		JSONError(ctx, iris.StatusForbidden, "forbidden", "staff access required")
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// OptionalUserMiddleware populates the viewer identity when a valid bearer
// token is present and stays silent otherwise. Public read paths use it so
// the visibility filter can distinguish anonymous, authenticated and staff
// viewers without requiring authentication.
func OptionalUserMiddleware(verifier *jwt.Verifier) iris.Handler {
	return func(ctx iris.Context) {
		token := jwt.FromHeader(ctx)
		if token == "" {
			ctx.Next()
			return
		}
		verifiedToken, err := verifier.VerifyToken([]byte(token))
		if err != nil {
			ctx.Next()
			return
		}
		var claims AccessToken
		if err := verifiedToken.Claims(&claims); err == nil && claims.ID != 0 {
			ctx.Values().Set("userID", claims.ID)
			ctx.Values().Set("userRole", claims.Role)
		}
		ctx.Next()
	}
}
