package util

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("course %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not yours", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: bad token", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("%w: taken", ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: incomplete", ErrNotEligible), http.StatusBadRequest},
		{fmt.Errorf("%w: empty title", ErrInvalidInput), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		HandleError(ctx, c.err)
		assert.Equal(t, c.want, w.Code, c.err.Error())
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidUsername("dr_smith"))
	assert.False(t, ValidUsername("x"))
	assert.False(t, ValidUsername("has space"))

	assert.True(t, ValidEmail("a@example.com"))
	assert.False(t, ValidEmail("example.com"))
	assert.False(t, ValidEmail(""))
}
