package stripe

import (
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/apiforge/stripe-adapter/engine"
)

func TestMapSessionStatus(t *testing.T) {
	c := qt.New(t)

	cases := map[stripeapi.CheckoutSessionStatus]engine.TransactionStatus{
		stripeapi.CheckoutSessionStatusOpen:     engine.TransactionCreated,
		stripeapi.CheckoutSessionStatusComplete: engine.TransactionApproved,
		stripeapi.CheckoutSessionStatusExpired:  engine.TransactionFailed,
		"something_else":                        engine.TransactionUnknown,
		"":                                      engine.TransactionUnknown,
	}
	for status, expected := range cases {
		c.Assert(mapSessionStatus(status), qt.Equals, expected, qt.Commentf("status %q", status))
	}
}

func TestApplySession(t *testing.T) {
	c := qt.New(t)

	tx := &engine.Transaction{ID: 42}
	applySession(tx, &stripeapi.CheckoutSession{
		ID:     "sess_42",
		Status: stripeapi.CheckoutSessionStatusComplete,
	})
	c.Assert(tx.Status, qt.Equals, engine.TransactionApproved)
	c.Assert(tx.RemoteID, qt.Equals, "sess_42")
}

func TestExecuteRequiresSessionID(t *testing.T) {
	c := qt.New(t)

	provider := New(Connect(engine.MapParameters{}), engine.MapParameters{})
	err := provider.Execute(&engine.Transaction{ID: 42}, engine.MapParameters{})
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsConfiguration(err), qt.IsTrue)
}

func TestExecuteRequiresConnection(t *testing.T) {
	c := qt.New(t)

	provider := New(nil, engine.MapParameters{})
	err := provider.Execute(&engine.Transaction{ID: 42}, engine.MapParameters{"session_id": "sess_1"})
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsConfiguration(err), qt.IsTrue)
}
