package utils

import (
	"github.com/kataras/iris/v12"
)

// PageMeta carries pagination info on list responses. The staff console
// tables and the public property listing share this envelope.
type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

// JSONPage writes a paginated list response.
func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data": data,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

// JSONError writes a flat machine-readable error code plus a human message,
// used where clients key off the code instead of the problem-details shape
// from errors.go.
func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}
