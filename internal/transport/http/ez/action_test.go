package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"court-admin/internal/domain"
)

func TestStatusOf(t *testing.T) {
	cases := map[error]int{
		domain.Validation("bad"):                         http.StatusBadRequest,
		domain.Conflict("dup", domain.ErrDuplicate):      http.StatusBadRequest,
		domain.NotFound("nope"):                          http.StatusNotFound,
		domain.TypeMismatch("nope"):                      http.StatusNotFound,
		domain.Unauthorized("who"):                       http.StatusUnauthorized,
		fmt.Errorf("load: %w", context.DeadlineExceeded): http.StatusGatewayTimeout,
		errors.New("boom"):                               http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusOf(err), err.Error())
	}
}

func TestRegisterAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	e := New(r.Group("/x"), zap.NewNop())

	type in struct {
		Name string `json:"name" binding:"required"`
	}
	RegisterAction(e, Action[in]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(_ *gin.Context, i *in) (Reply, error) {
			if i.Name == "boom" {
				return Reply{}, errors.New("db exploded")
			}
			return Reply{Status: http.StatusCreated, Message: "ok", Data: gin.H{"name": i.Name}}, nil
		},
	})
	RegisterAction(e, Action[struct{}]{
		Method:  http.MethodGet,
		Path:    "/private",
		Binder:  BindNone,
		Auth:    true,
		Handler: func(*gin.Context, *struct{}) (Reply, error) { return Reply{}, nil },
	})

	call := func(method, path, body string) (int, map[string]any) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		out := map[string]any{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		return w.Code, out
	}

	code, body := call(http.MethodPost, "/x/echo", `{"name":"court"}`)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, gin.H{"success": true, "message": "ok", "name": "court"}, gin.H(body))

	code, body = call(http.MethodPost, "/x/echo", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Name is required", body["message"])

	code, body = call(http.MethodPost, "/x/echo", `{"name":"boom"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["message"])

	code, _ = call(http.MethodGet, "/x/private", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}
