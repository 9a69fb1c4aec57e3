package stripe

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestErrorClassification(t *testing.T) {
	c := qt.New(t)

	c.Assert(IsConfiguration(ErrNoWebhookSecret), qt.IsTrue)
	c.Assert(IsConfiguration(ErrInvalidConnection), qt.IsTrue)
	c.Assert(IsIntegrity(ErrNoRedirectURL), qt.IsTrue)
	c.Assert(IsAuthentication(ErrNoWebhookSecret), qt.IsFalse)

	// Classification survives wrapping.
	wrapped := fmt.Errorf("handling webhook: %w", NewError(CodeAuthentication, "bad signature", nil))
	c.Assert(IsAuthentication(wrapped), qt.IsTrue)

	c.Assert(IsConfiguration(fmt.Errorf("plain error")), qt.IsFalse)
}

func TestErrorMessage(t *testing.T) {
	c := qt.New(t)

	err := NewError(CodeAuthentication, "webhook signature verification failed", fmt.Errorf("timestamp too old"))
	c.Assert(err.Error(), qt.Equals,
		"stripe error [authentication]: webhook signature verification failed - timestamp too old")
	c.Assert(err.Unwrap(), qt.ErrorMatches, "timestamp too old")
}
