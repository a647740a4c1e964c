package routes

import (
	"property-reviews-server/models"
	"property-reviews-server/services"

	"github.com/kataras/iris/v12"
)

// viewerFromContext builds the visibility identity from request values set
// by the auth middleware. Missing values mean an anonymous visitor.
func viewerFromContext(ctx iris.Context) services.Viewer {
	var viewer services.Viewer
	if id, ok := ctx.Values().Get("userID").(uint); ok && id != 0 {
		viewer.ID = id
		viewer.Authenticated = true
	}
	if role, ok := ctx.Values().Get("userRole").(string); ok {
		viewer.Staff = role == models.RoleStaff
	}
	return viewer
}
