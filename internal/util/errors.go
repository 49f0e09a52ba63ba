package util

import "errors"

// 领域错误分类，服务层用 fmt.Errorf("%w: ...") 包装，控制器按类别映射状态码
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrNotEligible  = errors.New("not eligible")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)
