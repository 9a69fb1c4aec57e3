package stripe

import (
	"testing"

	qt "github.com/frankban/quicktest"
	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/apiforge/stripe-adapter/engine"
)

func testCheckoutContext() *engine.CheckoutContext {
	return &engine.CheckoutContext{
		Currency:  "eur",
		ReturnURL: "https://host.example/return",
		CancelURL: "https://host.example/cancel",
	}
}

func TestCheckoutSessionParamsInlinePrice(t *testing.T) {
	c := qt.New(t)

	product := &engine.Product{ID: 3, Name: "Pro plan", Price: 500}
	user := &engine.User{ID: 7, Email: "user@example.com"}
	params := checkoutSessionParams(product, user, testCheckoutContext())

	c.Assert(params.LineItems, qt.HasLen, 1)
	item := params.LineItems[0]
	c.Assert(item.Price, qt.IsNil)
	c.Assert(*item.PriceData.Currency, qt.Equals, "eur")
	c.Assert(*item.PriceData.ProductData.Name, qt.Equals, "Pro plan")
	c.Assert(*item.PriceData.UnitAmount, qt.Equals, int64(500))
	c.Assert(*item.Quantity, qt.Equals, int64(1))
}

func TestCheckoutSessionParamsPriceReference(t *testing.T) {
	c := qt.New(t)

	product := &engine.Product{ID: 3, Name: "Pro plan", Price: 500, ExternalID: "price_123"}
	user := &engine.User{ID: 7}
	params := checkoutSessionParams(product, user, testCheckoutContext())

	item := params.LineItems[0]
	c.Assert(*item.Price, qt.Equals, "price_123")
	c.Assert(item.PriceData, qt.IsNil)
}

func TestCheckoutSessionParamsMode(t *testing.T) {
	c := qt.New(t)

	oneTime := &engine.Product{ID: 3, Name: "Credits"}
	recurring := &engine.Product{ID: 4, Name: "Pro plan", Interval: "month"}
	user := &engine.User{ID: 7}

	params := checkoutSessionParams(oneTime, user, testCheckoutContext())
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModePayment))

	params = checkoutSessionParams(recurring, user, testCheckoutContext())
	c.Assert(*params.Mode, qt.Equals, string(stripeapi.CheckoutSessionModeSubscription))
}

func TestCheckoutSessionParamsURLs(t *testing.T) {
	c := qt.New(t)

	params := checkoutSessionParams(&engine.Product{ID: 3}, &engine.User{ID: 7}, testCheckoutContext())
	c.Assert(*params.SuccessURL, qt.Equals, "https://host.example/return?session_id={CHECKOUT_SESSION_ID}")
	c.Assert(*params.CancelURL, qt.Equals, "https://host.example/cancel")
}

func TestCheckoutSessionParamsCustomerAssociation(t *testing.T) {
	c := qt.New(t)

	product := &engine.Product{ID: 3}
	checkout := testCheckoutContext()

	// Known customer reference wins over the email hint.
	params := checkoutSessionParams(product, &engine.User{ID: 7, Email: "user@example.com", ExternalID: "cus_1"}, checkout)
	c.Assert(*params.Customer, qt.Equals, "cus_1")
	c.Assert(params.CustomerEmail, qt.IsNil)

	// Email hint when no customer reference is stored yet.
	params = checkoutSessionParams(product, &engine.User{ID: 7, Email: "user@example.com"}, checkout)
	c.Assert(params.Customer, qt.IsNil)
	c.Assert(*params.CustomerEmail, qt.Equals, "user@example.com")

	// Anonymous session otherwise.
	params = checkoutSessionParams(product, &engine.User{ID: 7}, checkout)
	c.Assert(params.Customer, qt.IsNil)
	c.Assert(params.CustomerEmail, qt.IsNil)
}

func TestCheckoutSessionParamsMetadata(t *testing.T) {
	c := qt.New(t)

	checkout := testCheckoutContext()
	params := checkoutSessionParams(&engine.Product{ID: 3}, &engine.User{ID: 7}, checkout)
	c.Assert(params.Metadata, qt.DeepEquals, map[string]string{"user_id": "7", "product_id": "3"})
	c.Assert(*params.ClientReferenceID, qt.Equals, "7")

	checkout.Domain = "tenant-a"
	params = checkoutSessionParams(&engine.Product{ID: 3}, &engine.User{ID: 7}, checkout)
	c.Assert(params.Metadata["domain"], qt.Equals, "tenant-a")
}

func TestCheckoutRequiresConnection(t *testing.T) {
	c := qt.New(t)

	provider := New(nil, engine.MapParameters{})
	_, err := provider.Checkout(&engine.Product{ID: 3}, &engine.User{ID: 7}, testCheckoutContext())
	c.Assert(err, qt.IsNotNil)
	c.Assert(IsConfiguration(err), qt.IsTrue)
}
