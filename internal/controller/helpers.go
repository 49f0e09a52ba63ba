package controller

import (
	"errors"
	"mime/multipart"
	"net/http"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser 路由已挂 AuthMiddleware 时一定非空
func currentUser(ctx *gin.Context) *util.Claims {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return nil
	}
	return claims
}

// formUpload 读取可选的上传文件，未提交时返回 nil
func formUpload(ctx *gin.Context, field string) (*service.Upload, func(), error) {
	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &service.Upload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	}, func() { f.Close() }, nil
}
