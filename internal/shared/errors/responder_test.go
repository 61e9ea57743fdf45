package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errOutOfStock = errors.New("out of stock")

func serve(t *testing.T, responder *Responder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/things/:id", func(c *gin.Context) { responder.RespondError(c, err) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/7", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespondError_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewResponder("",
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errOutOfStock) {
				return ErrInsufficientStock.WithDetail(err.Error()).WithExtension("productId", 7), true
			}
			return ProblemDetail{}, false
		},
		func(error) (ProblemDetail, bool) { return ErrConflict, true },
	)

	rec, problem := serve(t, responder, errOutOfStock)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, TypeInsufficientStock, problem.Type)
	require.Equal(t, "/things/7", problem.Instance)
	require.EqualValues(t, 7, problem.Extensions["productId"])
	require.Nil(t, ErrInsufficientStock.Extensions)
}

func TestRespondError_FallsBackToInternal(t *testing.T) {
	rec, problem := serve(t, NewResponder("https://errors.example.test"), errors.New("disk full"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "https://errors.example.test"+TypeInternal, problem.Type)
	require.Equal(t, "disk full", problem.Detail)
}

func TestRespondError_PassesProblemDetailsThrough(t *testing.T) {
	rec, problem := serve(t, NewResponder(""), NewNotFoundProblem("invoice", 7))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "invoice", problem.Extensions["resourceType"])
}
