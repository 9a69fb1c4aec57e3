package db

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestSetPayment(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	// invoice and customer ids are required
	c.Assert(testDB.SetPayment(&Payment{}), qt.Equals, ErrInvalidData)
	// store a payment
	start := time.Unix(1700000000, 0).UTC()
	end := time.Unix(1702592000, 0).UTC()
	c.Assert(testDB.SetPayment(&Payment{
		InvoiceID:   testInvoiceID,
		CustomerID:  testCustomerID,
		Amount:      999,
		PeriodStart: start,
		PeriodEnd:   end,
	}), qt.IsNil)
	payment, err := testDB.Payment(testInvoiceID)
	c.Assert(err, qt.IsNil)
	c.Assert(payment.Amount, qt.Equals, int64(999))
	c.Assert(payment.PeriodStart.Unix(), qt.Equals, start.Unix())
	c.Assert(payment.ReceivedAt.IsZero(), qt.IsFalse)
	// storing the same invoice again overwrites instead of duplicating
	c.Assert(testDB.SetPayment(&Payment{
		InvoiceID:  testInvoiceID,
		CustomerID: testCustomerID,
		Amount:     1099,
	}), qt.IsNil)
	payments, err := testDB.PaymentsByCustomerID(testCustomerID)
	c.Assert(err, qt.IsNil)
	c.Assert(payments, qt.HasLen, 1)
	c.Assert(payments[0].Amount, qt.Equals, int64(1099))
}

func TestPaymentNotFound(t *testing.T) {
	defer func() { _ = testDB.Reset() }()
	c := qt.New(t)
	_, err := testDB.Payment("in_missing")
	c.Assert(err, qt.Equals, ErrNotFound)
	_, err = testDB.Payment("")
	c.Assert(err, qt.Equals, ErrInvalidData)
}
