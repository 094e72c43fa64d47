package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"simple-crud/models"
)

// MongoCollection is the part of *mongo.Collection the store uses.
type MongoCollection interface {
	Find(ctx context.Context, filter interface{},
		opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{},
		opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{},
		opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{},
		opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteOne(ctx context.Context, filter interface{},
		opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// MongoStore keeps one document per item with the item id as _id.
type MongoStore struct {
	coll MongoCollection
	seq  *Sequence
}

// NewMongoStore primes the id sequence from the highest stored _id.
func NewMongoStore(ctx context.Context, coll MongoCollection) (*MongoStore, error) {
	s := &MongoStore{coll: coll, seq: NewSequence()}

	var last models.Item
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	err := coll.FindOne(ctx, bson.D{}, opts).Decode(&last)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return nil, fmt.Errorf("reading max item id: %w", err)
	default:
		s.seq.Observe(last.ID)
	}
	return s, nil
}

func (s *MongoStore) List(ctx context.Context) ([]models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	items := []models.Item{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}
	return items, nil
}

func (s *MongoStore) Get(ctx context.Context, id int64) (models.Item, error) {
	var item models.Item
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("getting item %d: %w", id, err)
	}
	return item, nil
}

func (s *MongoStore) Create(ctx context.Context, name string) (models.Item, error) {
	item := models.Item{ID: s.seq.Next(), Name: name}
	if _, err := s.coll.InsertOne(ctx, item); err != nil {
		return models.Item{}, fmt.Errorf("inserting item: %w", err)
	}
	return item, nil
}

func (s *MongoStore) Update(ctx context.Context, id int64, name string) (models.Item, error) {
	var item models.Item
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"name": name}},
		opts,
	).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("updating item %d: %w", id, err)
	}
	return item, nil
}

func (s *MongoStore) Delete(ctx context.Context, id int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
