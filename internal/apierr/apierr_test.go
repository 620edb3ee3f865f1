package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"counselgo/backend/internal/apierr"

	"github.com/stretchr/testify/assert"
)

// TestKindOf_ClassifiedErrors verifies that the kind survives wrapping with
// both apierr.Wrap and fmt.Errorf chains.
func TestKindOf_ClassifiedErrors(t *testing.T) {
	cause := errors.New("kick failed")
	classified := apierr.Wrap(apierr.Internal, cause, "could not prune members of room %s", "room-1")

	assert.Equal(t, apierr.Internal, apierr.KindOf(classified))
	assert.Equal(t, apierr.Internal, apierr.KindOf(fmt.Errorf("handler: %w", classified)))
	assert.ErrorIs(t, classified, cause)
}

// TestKindOf_UnclassifiedError verifies that plain errors default to
// Internal.
func TestKindOf_UnclassifiedError(t *testing.T) {
	assert.Equal(t, apierr.Internal, apierr.KindOf(errors.New("boom")))
}

// TestErrorMessage verifies the message format with and without a cause.
func TestErrorMessage(t *testing.T) {
	withoutCause := apierr.New(apierr.Conflict, "session %d is already assigned", 1)
	assert.Equal(t, "session 1 is already assigned", withoutCause.Error())

	withCause := apierr.Wrap(apierr.Internal, errors.New("timeout"), "could not create room")
	assert.Equal(t, "could not create room: timeout", withCause.Error())
}

// TestHTTPStatus verifies the kind to status code mapping.
func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind     apierr.Kind
		expected int
	}{
		{apierr.BadRequest, http.StatusBadRequest},
		{apierr.PreconditionFailed, http.StatusPreconditionFailed},
		{apierr.Conflict, http.StatusConflict},
		{apierr.Forbidden, http.StatusForbidden},
		{apierr.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, apierr.HTTPStatus(tt.kind))
	}
}
