package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usernameUniqueIndex = "username_unique"
	singletonAdminIndex = "singleton_admin"
)

// EnsureIndexes creates the indexes the repositories rely on. Called once at
// startup; CreateMany is idempotent for identical definitions.
//
// singleton_admin is a partial unique index that only covers documents with
// role="admin", which makes "at most one admin" a database-level constraint
// rather than an application-level check.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName(usernameUniqueIndex).
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}},
			Options: options.Index().
				SetName(singletonAdminIndex).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": "admin"}),
		},
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	_, err = db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "at", Value: -1}},
		Options: options.Index().SetName("at_desc"),
	})
	if err != nil {
		return fmt.Errorf("ensure audit indexes: %w", err)
	}
	return nil
}
