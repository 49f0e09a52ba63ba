package service

import (
	"errors"
	"fmt"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", util.ErrNotFound)
	ErrCourseNotFound      = fmt.Errorf("course %w", util.ErrNotFound)
	ErrModuleNotFound      = fmt.Errorf("module %w", util.ErrNotFound)
	ErrContentNotFound     = fmt.Errorf("content %w", util.ErrNotFound)
	ErrQuizNotFound        = fmt.Errorf("quiz %w", util.ErrNotFound)
	ErrAssignmentNotFound  = fmt.Errorf("assignment %w", util.ErrNotFound)
	ErrSubmissionNotFound  = fmt.Errorf("submission %w", util.ErrNotFound)
	ErrCertificateNotFound = fmt.Errorf("certificate %w", util.ErrNotFound)
	ErrThreadNotFound      = fmt.Errorf("thread %w", util.ErrNotFound)
	ErrEnrollmentNotFound  = fmt.Errorf("enrollment %w", util.ErrNotFound)

	ErrNotEnrolled       = fmt.Errorf("%w: you are not enrolled in this course", util.ErrForbidden)
	ErrNotCourseOwner    = fmt.Errorf("%w: only the course instructor can do this", util.ErrForbidden)
	ErrNotInstructor     = fmt.Errorf("%w: instructor role required", util.ErrForbidden)
	ErrEnrollOwnCourse   = fmt.Errorf("%w: instructors cannot enroll in their own course", util.ErrForbidden)
	ErrNotSubmissionUser = fmt.Errorf("%w: submission belongs to another user", util.ErrForbidden)

	ErrCourseIncomplete = fmt.Errorf("%w: complete all course content before requesting a certificate", util.ErrNotEligible)

	ErrUsernameTaken     = fmt.Errorf("%w: username already taken", util.ErrConflict)
	ErrEmailRegistered   = fmt.Errorf("%w: email already registered", util.ErrConflict)
	ErrModuleOrderTaken  = fmt.Errorf("%w: module order already used in this course", util.ErrConflict)
	ErrInvalidCredential = fmt.Errorf("%w: invalid email or password", util.ErrUnauthorized)
	ErrTokenRevoked      = fmt.Errorf("%w: token has been revoked", util.ErrUnauthorized)
)

// EligibilityError 证书资格不满足，Reason 为 ErrNotEnrolled 或 ErrCourseIncomplete
type EligibilityError struct {
	UserID   uint
	CourseID uint
	Progress *model.CourseProgress
	Reason   error
}

func (e *EligibilityError) Error() string {
	return e.Reason.Error()
}

func (e *EligibilityError) Unwrap() error {
	return e.Reason
}

// notFound 把 gorm 的记录不存在翻译为领域错误
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
