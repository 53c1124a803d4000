package database

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// MappingsDatabase holds the guild-to-business mapping records.
	MappingsDatabase   = "mappings"
	MappingsCollection = "companies"

	// MarketingDatabase holds one collection per business.
	MarketingDatabase = "marketing_agent"

	// CredentialsDatabase holds one collection per business.
	CredentialsDatabase = "credentials"
)

// Mongo wraps the driver client with the collection-resolution conventions
// the rest of the app relies on.
type Mongo struct {
	client *mongo.Client
}

func NewMongo(ctx context.Context, connectionString string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(connectionString).
		SetMaxPoolSize(100).
		SetServerSelectionTimeout(10*time.Second))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	return &Mongo{client: client}, nil
}

func (m *Mongo) Client() *mongo.Client { return m.client }

func (m *Mongo) Disconnect(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) Mappings() *mongo.Collection {
	return m.client.Database(MappingsDatabase).Collection(MappingsCollection)
}

// BusinessCollection resolves the business's collection in db, matching the
// stored collection name case-insensitively. Business names arrive from chat
// in whatever casing the user typed; collections were created lower-cased,
// but older databases hold mixed-case names.
func (m *Mongo) BusinessCollection(ctx context.Context, db, businessName string) (*mongo.Collection, error) {
	database := m.client.Database(db)

	names, err := database.ListCollectionNames(ctx, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	want := strings.ToLower(businessName)
	for _, name := range names {
		if strings.ToLower(name) == want {
			return database.Collection(name), nil
		}
	}
	// No existing collection: use the lower-cased name, created on first write.
	return database.Collection(want), nil
}
