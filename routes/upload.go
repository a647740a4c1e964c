package routes

import (
	"path/filepath"
	"strings"

	"property-reviews-server/config"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
)

// GetUploadSignature hands the client a signed parameter set for a direct
// blob store upload. The secret never leaves the server.
func GetUploadSignature(ctx iris.Context) {
	fileName := ctx.URLParam("fileName")
	if fileName != "" {
		ext := strings.ToLower(filepath.Ext(fileName))
		if !slices.Contains(config.AppConfig.Image.AllowedExtensions, ext) {
			utils.CreateError(iris.StatusBadRequest, "Invalid Image",
				"Unsupported image extension "+ext, ctx)
			return
		}
	}

	params, err := storage.UploadSignature(config.AppConfig.CloudinaryFolder)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(params)
}
