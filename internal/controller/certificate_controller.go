package controller

import (
	"errors"
	"fmt"
	"net/http"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

// IssueCertificate godoc
// @Summary 申请课程证书
// @Description 课程全部内容完成后签发；已签发时返回原证书
// @Tags 证书
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response{data=service.IssueResult} "新签发"
// @Success 200 {object} util.Response{data=service.IssueResult} "已有证书"
// @Failure 400 {object} util.Response{data=model.CourseProgress} "课程未完成"
// @Failure 403 {object} util.Response "未报名"
// @Router /api/courses/{id}/certificate [post]
func (c *CertificateController) IssueCertificate(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	res, err := c.CertificateService.Issue(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		var elig *service.EligibilityError
		if errors.As(err, &elig) && elig.Progress != nil {
			// 附带当前进度，前端据此提示还差多少
			ctx.JSON(http.StatusBadRequest, util.Response{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
				Data:    elig.Progress.Rounded(),
			})
			return
		}
		util.HandleError(ctx, err)
		return
	}

	if res.Existing {
		util.Success(ctx, res)
		return
	}
	util.Created(ctx, res)
}

// GetCourseCertificate godoc
// @Summary 查询课程证书
// @Tags 证书
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Certificate}
// @Failure 404 {object} util.Response
// @Router /api/courses/{id}/certificate [get]
func (c *CertificateController) GetCourseCertificate(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	cert, err := c.CertificateService.GetForCourse(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, cert)
}

// MyCertificates godoc
// @Summary 我的证书
// @Tags 证书
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Certificate}
// @Router /api/certificates [get]
func (c *CertificateController) MyCertificates(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}

	items, err := c.CertificateService.ListForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// DownloadCertificate godoc
// @Summary 下载证书文件
// @Tags 证书
// @Security ApiKeyAuth
// @Produce application/pdf,image/png
// @Param id path int true "证书ID"
// @Success 200 {file} file
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/certificates/{id}/download [get]
func (c *CertificateController) DownloadCertificate(ctx *gin.Context) {
	claims := currentUser(ctx)
	if claims == nil {
		return
	}
	id, ok := util.ParamID(ctx, "id")
	if !ok {
		return
	}

	dl, err := c.CertificateService.Open(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	defer dl.Body.Close()

	ctx.DataFromReader(http.StatusOK, -1, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, dl.Filename),
	})
}

// VerifyCertificate godoc
// @Summary 校验证书编号
// @Description 公开接口，返回持有人、课程和签发日期
// @Tags 证书
// @Produce json
// @Param number path string true "证书编号"
// @Success 200 {object} util.Response{data=model.CertificateVerification}
// @Failure 404 {object} util.Response
// @Router /api/certificates/verify/{number} [get]
func (c *CertificateController) VerifyCertificate(ctx *gin.Context) {
	v, err := c.CertificateService.Verify(ctx.Request.Context(), ctx.Param("number"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, v)
}
