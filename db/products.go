package db

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// nextProductID internal method returns the next available product ID. This
// method must be called with the keysLock held.
func (ms *MongoStorage) nextProductID(ctx context.Context) (uint64, error) {
	var product Product
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	if err := ms.products.FindOne(ctx, bson.M{}, opts).Decode(&product); err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return product.ID + 1, nil
}

// Product method returns the product with the given ID. If the product
// doesn't exist, it returns a specific error.
func (ms *MongoStorage) Product(id uint64) (*Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	result := ms.products.FindOne(ctx, bson.M{"_id": id})
	product := &Product{}
	if err := result.Decode(product); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// Products method returns all products, sorted by ID.
func (ms *MongoStorage) Products() ([]Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := ms.products.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()
	var products []Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetProduct method creates or updates the product in the database.
func (ms *MongoStorage) SetProduct(product *Product) (uint64, error) {
	if product.Name == "" {
		return 0, ErrInvalidData
	}
	ms.keysLock.Lock()
	defer ms.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	nextID, err := ms.nextProductID(ctx)
	if err != nil {
		return 0, err
	}
	if product.ID > 0 {
		if product.ID >= nextID {
			return 0, ErrInvalidData
		}
		update := bson.M{"$set": bson.M{
			"name":     product.Name,
			"price":    product.Price,
			"interval": product.Interval,
			"priceID":  product.PriceID,
		}}
		if _, err := ms.products.UpdateOne(ctx, bson.M{"_id": product.ID}, update); err != nil {
			return 0, err
		}
	} else {
		product.ID = nextID
		if _, err := ms.products.InsertOne(ctx, product); err != nil {
			if strings.Contains(err.Error(), "duplicate key error") {
				return 0, ErrAlreadyExists
			}
			return 0, err
		}
	}
	return product.ID, nil
}
