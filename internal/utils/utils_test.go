package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContext(t *testing.T) {
	t.Run("SetUserContext and getters", func(t *testing.T) {
		ctx := SetUserContext(context.Background(), 100, "mesero@pos.co", RoleWaiter)

		id, ok := GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, uint(100), id)
		assert.Equal(t, "mesero@pos.co", GetUserEmailFromContext(ctx))
		assert.Equal(t, RoleWaiter, GetUserRoleFromContext(ctx))
	})

	t.Run("Empty context", func(t *testing.T) {
		_, ok := GetUserIDFromContext(context.Background())
		assert.False(t, ok)
		assert.Empty(t, GetUserRoleFromContext(context.Background()))
	})

	t.Run("Restaurant", func(t *testing.T) {
		ctx := WithRestaurant(context.Background(), 3)
		id, ok := GetRestaurantIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, int64(3), id)

		_, ok = GetRestaurantIDFromContext(WithRestaurant(context.Background(), 0))
		assert.False(t, ok)
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bebidas", "bebidas"},
		{"Platos  Fuertes", "platos-fuertes"},
		{"  Menú del día ", "menú-del-día"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = ParseID("0")
	assert.Error(t, err)

	_, err = ParseID("-3")
	assert.Error(t, err)

	_, err = ParseID("abc")
	assert.Error(t, err)
}

func TestPtrInt64(t *testing.T) {
	n := int64(9)
	assert.Equal(t, int64(0), PtrInt64(nil))
	assert.Equal(t, int64(9), PtrInt64(&n))
}

func TestWriteJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSONError(w, "boom", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "boom", body["error"])
}
