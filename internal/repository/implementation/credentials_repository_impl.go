package implementation

import (
	"context"
	"errors"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CredentialsRepositoryImpl struct {
	db *database.Mongo
}

func NewCredentialsRepository(db *database.Mongo) contract.CredentialsRepository {
	return &CredentialsRepositoryImpl{db: db}
}

func (r *CredentialsRepositoryImpl) collection(ctx context.Context, businessName string) (*mongo.Collection, error) {
	return r.db.BusinessCollection(ctx, database.CredentialsDatabase, businessName)
}

func (r *CredentialsRepositoryImpl) Get(ctx context.Context, businessName string) (map[string]interface{}, error) {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return nil, err
	}

	var doc entity.AdsCredentials
	if err := coll.FindOne(ctx, bson.M{"business_name": businessName}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrNotFound
		}
		return nil, err
	}
	if doc.Credentials == nil {
		return nil, contract.ErrNotFound
	}
	return doc.Credentials, nil
}

func (r *CredentialsRepositoryImpl) Upsert(ctx context.Context, businessName string, credentials map[string]interface{}) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}

	_, err = coll.UpdateOne(ctx,
		bson.M{"business_name": businessName},
		bson.M{"$set": bson.M{
			"business_name": businessName,
			"credentials":   credentials,
		}},
		options.Update().SetUpsert(true))
	return err
}

func (r *CredentialsRepositoryImpl) SetRefreshToken(ctx context.Context, businessName, refreshToken string) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}

	res, err := coll.UpdateOne(ctx,
		bson.M{"business_name": businessName},
		bson.M{"$set": bson.M{"credentials.refresh_token": refreshToken}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}
