package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update goal: %w", ErrForbidden)

	assert.True(t, errors.Is(wrapped, ErrForbidden))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, KindAuthorization, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindAuthorization))
}

func TestStatusCodes(t *testing.T) {
	cases := map[error]int{
		Validation("date is required"):      http.StatusBadRequest,
		ErrInvalidCredentials:               http.StatusUnauthorized,
		ErrForbidden:                        http.StatusForbidden,
		ErrNotFound:                         http.StatusNotFound,
		Aggregate(errors.New("sum failed")): http.StatusInternalServerError,
		errors.New("boom"):                  http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, StatusCode(err), err.Error())
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := Aggregate(errors.New("pq: relation nutrition_records does not exist"))

	assert.Equal(t, "failed to compute statistics", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw driver error")))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Respond(c, zap.NewNop(), Validation("progress must be between 0 and 100"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"progress must be between 0 and 100"}`, rr.Body.String())
	assert.True(t, c.IsAborted())
}

func TestFromBindingNamesFields(t *testing.T) {
	type payload struct {
		MealType string `validate:"required"`
	}
	err := validator.New().Struct(payload{})

	appErr := FromBinding(err)
	assert.Equal(t, KindValidation, appErr.Kind)
	assert.Equal(t, "meal_type: failed on 'required'", appErr.Message)

	assert.Equal(t, "invalid request body", FromBinding(errors.New("EOF")).Message)
}
