package implementation

import (
	"context"
	"errors"
	"time"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MappingRepositoryImpl struct {
	db *database.Mongo
}

func NewMappingRepository(db *database.Mongo) contract.MappingRepository {
	return &MappingRepositoryImpl{db: db}
}

func (r *MappingRepositoryImpl) FindByOwner(ctx context.Context, ownerID string) (*entity.BusinessMapping, error) {
	var m entity.BusinessMapping
	err := r.db.Mappings().FindOne(ctx, bson.M{"owner_ids": ownerID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MappingRepositoryImpl) FindByBusiness(ctx context.Context, businessName string) (*entity.BusinessMapping, error) {
	var m entity.BusinessMapping
	err := r.db.Mappings().FindOne(ctx, bson.M{"business_name": businessName}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MappingRepositoryImpl) Insert(ctx context.Context, mapping *entity.BusinessMapping) error {
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.Mappings().InsertOne(ctx, mapping)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		mapping.ID = id
	}
	return nil
}

func (r *MappingRepositoryImpl) AttachOwner(ctx context.Context, businessName, ownerID, webhookURL string) error {
	update := bson.M{
		"$addToSet": bson.M{"owner_ids": ownerID},
	}
	if webhookURL != "" {
		update["$set"] = bson.M{"webhook_url": webhookURL}
	}
	res, err := r.db.Mappings().UpdateOne(ctx, bson.M{"business_name": businessName}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *MappingRepositoryImpl) SetBusinessName(ctx context.Context, ownerID, businessName string) error {
	res, err := r.db.Mappings().UpdateOne(ctx,
		bson.M{"owner_ids": ownerID},
		bson.M{"$set": bson.M{"business_name": businessName}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *MappingRepositoryImpl) SetWebsiteLink(ctx context.Context, businessName, websiteLink string) error {
	res, err := r.db.Mappings().UpdateOne(ctx,
		bson.M{"business_name": businessName},
		bson.M{"$set": bson.M{"website_link": websiteLink}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *MappingRepositoryImpl) SetOnboarded(ctx context.Context, businessName string, onboarded bool) error {
	res, err := r.db.Mappings().UpdateOne(ctx,
		bson.M{"business_name": businessName},
		bson.M{"$set": bson.M{"onboarded": onboarded}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}
