package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetRequest struct {
	ID    string `uri:"id"`
	Lang  string `form:"lang"`
	Name  string `json:"name"`
	Times int    `json:"times"`
}

func (r greetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Times, validation.Min(0), validation.Max(3)),
	)
}

type greetResponse struct {
	Greeting string `json:"greeting"`
	ID       string `json:"id"`
	Lang     string `json:"lang"`
}

func newTestEngine(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/greet/:id", handler)
	return engine
}

func doJSON(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWrap_Success(t *testing.T) {
	engine := newTestEngine(Wrap(func(c *gin.Context, req *greetRequest) (*greetResponse, error) {
		return &greetResponse{Greeting: "Hello, " + req.Name, ID: req.ID, Lang: req.Lang}, nil
	}))

	w := doJSON(engine, http.MethodPost, "/greet/42?lang=en", `{"name":"World"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp greetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, greetResponse{Greeting: "Hello, World", ID: "42", Lang: "en"}, resp)
}

func TestWrap_MalformedBody(t *testing.T) {
	called := false
	engine := newTestEngine(Wrap(func(c *gin.Context, req *greetRequest) (*greetResponse, error) {
		called = true
		return &greetResponse{}, nil
	}))

	w := doJSON(engine, http.MethodPost, "/greet/1", `{"name": 5}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid request body", decode(t, w).Detail)
	assert.False(t, called)
}

func TestWrap_ValidationFields(t *testing.T) {
	engine := newTestEngine(Wrap(func(c *gin.Context, req *greetRequest) (*greetResponse, error) {
		return &greetResponse{}, nil
	}))

	w := doJSON(engine, http.MethodPost, "/greet/1", `{"times": 9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Validation failed", body.Detail)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "times")
}

func TestWrap_LayeredError(t *testing.T) {
	engine := newTestEngine(Wrap(func(c *gin.Context, req *greetRequest) (*greetResponse, error) {
		return nil, ErrInvalidStatus
	}))

	w := doJSON(engine, http.MethodPost, "/greet/1", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorResponse{Detail: "Invalid status"}, decode(t, w))
}

func TestWrap_UnknownErrorHidesCause(t *testing.T) {
	engine := newTestEngine(Wrap(func(c *gin.Context, req *greetRequest) (*greetResponse, error) {
		return nil, errors.New("dial tcp 10.0.0.1:5432: connection refused")
	}))

	w := doJSON(engine, http.MethodPost, "/greet/1", `{"name":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode(t, w).Detail)
}

func TestBindJSON_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/batch", func(c *gin.Context) {
		var ids []int
		if err := BindJSON(c, &ids); err != nil {
			HandleError(c, err)
			return
		}
		OK(c, gin.H{"count": len(ids)})
	})

	w := doJSON(engine, http.MethodPost, "/batch", `[1,2,3]`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":3}`, w.Body.String())

	w = doJSON(engine, http.MethodPost, "/batch", `{"ids":[1]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
