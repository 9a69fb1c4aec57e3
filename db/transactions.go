package db

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/apiforge/stripe-adapter/engine"
)

// nextTransactionID internal method returns the next available transaction
// ID. This method must be called with the keysLock held.
func (ms *MongoStorage) nextTransactionID(ctx context.Context) (uint64, error) {
	var tx Transaction
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	if err := ms.transactions.FindOne(ctx, bson.M{}, opts).Decode(&tx); err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return tx.ID + 1, nil
}

// Transaction method returns the transaction with the given ID.
func (ms *MongoStorage) Transaction(id uint64) (*Transaction, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.transactions.FindOne(ctx, bson.M{"_id": id})
	tx := &Transaction{}
	if err := result.Decode(tx); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

// TransactionByRemoteID method returns the transaction bound to the given
// provider session id.
func (ms *MongoStorage) TransactionByRemoteID(remoteID string) (*Transaction, error) {
	if remoteID == "" {
		return nil, ErrInvalidData
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.transactions.FindOne(ctx, bson.M{"remoteID": remoteID})
	tx := &Transaction{}
	if err := result.Decode(tx); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return tx, nil
}

// SetTransaction method creates or updates the transaction in the database.
func (ms *MongoStorage) SetTransaction(tx *Transaction) (uint64, error) {
	if tx.UserID == 0 || tx.ProductID == 0 {
		return 0, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	nextID, err := ms.nextTransactionID(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	if tx.ID > 0 {
		if tx.ID >= nextID {
			return 0, ErrInvalidData
		}
		tx.UpdatedAt = now
		update := bson.M{"$set": bson.M{
			"userID":    tx.UserID,
			"productID": tx.ProductID,
			"status":    tx.Status,
			"remoteID":  tx.RemoteID,
			"amount":    tx.Amount,
			"updatedAt": tx.UpdatedAt,
		}}
		if _, err := ms.transactions.UpdateOne(ctx, bson.M{"_id": tx.ID}, update); err != nil {
			return 0, err
		}
	} else {
		tx.ID = nextID
		tx.CreatedAt = now
		tx.UpdatedAt = now
		if _, err := ms.transactions.InsertOne(ctx, tx); err != nil {
			if strings.Contains(err.Error(), "duplicate key error") {
				return 0, ErrAlreadyExists
			}
			return 0, err
		}
	}
	return tx.ID, nil
}

// ApproveTransactionByRemoteID marks the transaction bound to the provider
// session id as approved. If no transaction carries that session id yet, a
// new approved one is created, so a completed checkout that reaches us only
// through the webhook is still recorded. The unique index on remoteID makes
// redeliveries converge on the same document.
func (ms *MongoStorage) ApproveTransactionByRemoteID(remoteID string, userID, productID uint64, amount int64) (*Transaction, error) {
	if remoteID == "" {
		return nil, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	now := time.Now()
	filter := bson.M{"remoteID": remoteID}
	tx := &Transaction{}
	err := ms.transactions.FindOne(ctx, filter).Decode(tx)
	switch {
	case err == nil:
		update := bson.M{"$set": bson.M{
			"status":    engine.TransactionApproved,
			"amount":    amount,
			"updatedAt": now,
		}}
		if _, err := ms.transactions.UpdateOne(ctx, filter, update); err != nil {
			return nil, err
		}
		tx.Status = engine.TransactionApproved
		tx.Amount = amount
		tx.UpdatedAt = now
		return tx, nil
	case err == mongo.ErrNoDocuments:
		nextID, err := ms.nextTransactionID(ctx)
		if err != nil {
			return nil, err
		}
		tx = &Transaction{
			ID:        nextID,
			UserID:    userID,
			ProductID: productID,
			Status:    engine.TransactionApproved,
			RemoteID:  remoteID,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := ms.transactions.InsertOne(ctx, tx); err != nil {
			if strings.Contains(err.Error(), "duplicate key error") {
				// a concurrent delivery created it first
				if ferr := ms.transactions.FindOne(ctx, filter).Decode(tx); ferr == nil {
					return tx, nil
				}
				return nil, err
			}
			return nil, err
		}
		return tx, nil
	default:
		return nil, err
	}
}
