package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/seekernothing/next-homes/utils"
)

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 9, clampPageSize(9))
	assert.Equal(t, maxPageSize, clampPageSize(maxPageSize))
	assert.Equal(t, maxPageSize, clampPageSize(maxPageSize+1))
	assert.Equal(t, maxPageSize, clampPageSize(1000000000))
}

func TestRemovedPaths(t *testing.T) {
	before := []string{"a.jpg", "b.jpg", "c.jpg"}

	assert.Equal(t, []string{"b.jpg"}, removedPaths(before, []string{"a.jpg", "c.jpg"}))
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, removedPaths(before, nil))
	assert.Nil(t, removedPaths(before, before))
	assert.Nil(t, removedPaths(nil, []string{"a.jpg"}))
}

func TestBearerIsAdmin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	newContext := func(header string) echo.Context {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/api/properties", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	adminToken, err := utils.GenerateJWT(primitive.NewObjectID(), "admin@example.com", true)
	require.NoError(t, err)
	userToken, err := utils.GenerateJWT(primitive.NewObjectID(), "user@example.com", false)
	require.NoError(t, err)

	assert.True(t, bearerIsAdmin(newContext("Bearer "+adminToken)))
	assert.False(t, bearerIsAdmin(newContext("Bearer "+userToken)))
	assert.False(t, bearerIsAdmin(newContext("")))
	assert.False(t, bearerIsAdmin(newContext("Bearer junk")))
}
