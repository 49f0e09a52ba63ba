package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseProgressRounded(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{100.0 / 3, 33.3},
		{200.0 / 3, 66.7},
		{100.0 / 6, 16.7},
		{12.25, 12.3},
		{0, 0},
		{100, 100},
	}
	for _, c := range cases {
		p := CourseProgress{Total: 3, Completed: 1, Percentage: c.in}
		got := p.Rounded()
		assert.Equal(t, c.want, got.Percentage, "rounding %v", c.in)
		assert.Equal(t, c.in, p.Percentage, "receiver is not modified")
	}
}

func TestCourseProgressComplete(t *testing.T) {
	assert.False(t, CourseProgress{}.Complete())
	assert.False(t, CourseProgress{Total: 3, Completed: 2}.Complete())
	assert.True(t, CourseProgress{Total: 3, Completed: 3}.Complete())
}
