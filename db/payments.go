package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Payment method returns the payment with the given invoice ID.
func (ms *MongoStorage) Payment(invoiceID string) (*Payment, error) {
	if invoiceID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.payments.FindOne(ctx, bson.M{"_id": invoiceID})
	payment := &Payment{}
	if err := result.Decode(payment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}

// SetPayment method upserts the payment keyed by its invoice ID, so a
// redelivered invoice event overwrites the existing document.
func (ms *MongoStorage) SetPayment(payment *Payment) error {
	if payment.InvoiceID == "" || payment.CustomerID == "" {
		return ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if payment.ReceivedAt.IsZero() {
		payment.ReceivedAt = time.Now()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := ms.payments.ReplaceOne(ctx, bson.M{"_id": payment.InvoiceID}, payment, opts)
	return err
}

// PaymentsByCustomerID method returns the payments of the given provider
// customer, newest first.
func (ms *MongoStorage) PaymentsByCustomerID(customerID string) ([]Payment, error) {
	if customerID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "periodStart", Value: -1}})
	cursor, err := ms.payments.Find(ctx, bson.M{"customerID": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var payments []Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
