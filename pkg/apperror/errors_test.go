package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("slot", nil).StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("taken", nil).StatusCode())
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("nope", nil).StatusCode())
	assert.Equal(t, http.StatusBadRequest, Validation("bad", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, CascadeFailure("partial", nil).StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(nil).StatusCode())
}

func TestIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("slot", errors.New("no rows")))

	assert.True(t, errors.Is(err, NotFound("anything", nil)))
	assert.False(t, errors.Is(err, Conflict("anything", nil)))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := Conflict("slot is taken", inner)

	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "slot is taken")
	assert.Contains(t, err.Error(), "root cause")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(TransientStore(errors.New("serialization failure"))))
	assert.True(t, IsTransient(fmt.Errorf("wrapped: %w", TransientStore(nil))))
	assert.False(t, IsTransient(Conflict("taken", nil)))
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(NotFound("slot", nil)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}
