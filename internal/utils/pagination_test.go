package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name  string
		page  string
		limit string
		want  PaginationParams
	}{
		{"defaults", "", "", PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"explicit", "3", "20", PaginationParams{Page: 3, Limit: 20, Offset: 40}},
		{"negative page", "-2", "5", PaginationParams{Page: 1, Limit: 5, Offset: 0}},
		{"limit too large", "1", "1000", PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"garbage", "x", "y", PaginationParams{Page: 1, Limit: 10, Offset: 0}},
		{"all", "4", "all", PaginationParams{Page: 1, All: true}},
		{"all uppercase", "", "ALL", PaginationParams{Page: 1, All: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParsePagination(tc.page, tc.limit))
		})
	}
}

func TestNewPaginationResponse(t *testing.T) {
	resp := NewPaginationResponse(PaginationParams{Page: 2, Limit: 10}, 21)
	require.NotNil(t, resp)
	assert.Equal(t, 3, resp.Pages)
	assert.Equal(t, int64(21), resp.Total)

	assert.Nil(t, NewPaginationResponse(PaginationParams{All: true}, 21))

	empty := NewPaginationResponse(PaginationParams{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.Pages)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/projects?page=2&limit=5", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, PaginationParams{Page: 2, Limit: 5, Offset: 5}, params)
}
