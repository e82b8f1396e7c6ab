package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/domasjohn/BlazzorEcommerce/internal/domain"
)

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) CartRepository {
	return &mongoRepository{
		collection: db.Collection("cart_lines"),
	}
}

func (m *mongoRepository) AppendLines(ctx context.Context, userID int64, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(lines))
	for _, line := range lines {
		docs = append(docs, domain.PersistedCartLine{
			UserID:   userID,
			CartLine: line,
		})
	}

	if _, err := m.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to append cart lines: %w", err)
	}

	return nil
}

func (m *mongoRepository) LinesFor(ctx context.Context, userID int64) ([]domain.CartLine, error) {
	filter := bson.M{"user_id": userID}

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []domain.PersistedCartLine
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode cart lines: %w", err)
	}

	lines := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, row.CartLine)
	}

	return lines, nil
}

func (m *mongoRepository) CountFor(ctx context.Context, userID int64) (int, error) {
	filter := bson.M{"user_id": userID}

	count, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count cart lines: %w", err)
	}

	return int(count), nil
}

// RemoveLine deletes every row carrying the key in one filtered operation.
// Duplicates left by AppendLines go with it.
func (m *mongoRepository) RemoveLine(ctx context.Context, userID, productID, variantID int64) error {
	filter := lineFilter(userID, productID, variantID)

	result, err := m.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (m *mongoRepository) UpdateQuantity(ctx context.Context, userID, productID, variantID int64, quantity int) error {
	filter := lineFilter(userID, productID, variantID)
	update := bson.M{
		"$set": bson.M{"quantity": quantity},
	}

	result, err := m.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart line quantity: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrLineNotFound
	}

	return nil
}

func lineFilter(userID, productID, variantID int64) bson.M {
	return bson.M{
		"user_id":    userID,
		"product_id": productID,
		"variant_id": variantID,
	}
}

// EnsureIndexes creates the keyed-lookup index. Non-unique: AppendLines allows
// duplicate keys to coexist.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	index := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "product_id", Value: 1},
			{Key: "variant_id", Value: 1},
		},
		Options: options.Index().SetName("user_line_key"),
	}

	if _, err := db.Collection("cart_lines").Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}
