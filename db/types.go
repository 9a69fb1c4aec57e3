package db

import (
	"time"

	"github.com/apiforge/stripe-adapter/engine"
)

// User is a host platform account. CustomerID is the identity the payment
// provider knows the user by, set the first time a checkout completes.
type User struct {
	ID         uint64 `json:"id" bson:"_id"`
	Email      string `json:"email" bson:"email"`
	Password   string `json:"-" bson:"password"`
	CustomerID string `json:"customerID" bson:"customerID"`
	PastDue    bool   `json:"pastDue" bson:"pastDue"`
}

// Product is a purchasable item. Price is in the currency's minor unit.
// PriceID, when set, references a price object defined at the provider.
type Product struct {
	ID       uint64 `json:"id" bson:"_id"`
	Name     string `json:"name" bson:"name"`
	Price    int64  `json:"price" bson:"price"`
	Interval string `json:"interval" bson:"interval"`
	PriceID  string `json:"priceID" bson:"priceID"`
}

// Transaction tracks a checkout from creation to its terminal status.
// RemoteID is the provider's session id and doubles as the idempotency
// key when webhook events are redelivered.
type Transaction struct {
	ID        uint64                   `json:"id" bson:"_id"`
	UserID    uint64                   `json:"userID" bson:"userID"`
	ProductID uint64                   `json:"productID" bson:"productID"`
	Status    engine.TransactionStatus `json:"status" bson:"status"`
	RemoteID  string                   `json:"remoteID" bson:"remoteID,omitempty"`
	Amount    int64                    `json:"amount" bson:"amount"`
	CreatedAt time.Time                `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt" bson:"updatedAt"`
}

// Payment records a settled recurring invoice. The provider's invoice id
// is the document key, so redelivered events overwrite instead of duplicate.
type Payment struct {
	InvoiceID   string    `json:"invoiceID" bson:"_id"`
	CustomerID  string    `json:"customerID" bson:"customerID"`
	Amount      int64     `json:"amount" bson:"amount"`
	PeriodStart time.Time `json:"periodStart" bson:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd" bson:"periodEnd"`
	ReceivedAt  time.Time `json:"receivedAt" bson:"receivedAt"`
}
