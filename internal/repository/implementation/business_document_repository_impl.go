package implementation

import (
	"context"
	"errors"
	"strconv"
	"time"

	"adalchemy-bot/internal/entity"
	"adalchemy-bot/internal/mapper"
	"adalchemy-bot/internal/model"
	"adalchemy-bot/internal/repository/contract"
	"adalchemy-bot/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BusinessDocumentRepositoryImpl struct {
	db     *database.Mongo
	mapper *mapper.DocumentMapper
}

func NewBusinessDocumentRepository(db *database.Mongo) contract.BusinessDocumentRepository {
	return &BusinessDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *BusinessDocumentRepositoryImpl) collection(ctx context.Context, businessName string) (*mongo.Collection, error) {
	return r.db.BusinessCollection(ctx, database.MarketingDatabase, businessName)
}

func (r *BusinessDocumentRepositoryImpl) Latest(ctx context.Context, businessName string) (*entity.BusinessDocument, error) {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return nil, err
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "last_update", Value: -1}, {Key: "_id", Value: -1}})

	var m model.BusinessDocument
	if err := coll.FindOne(ctx, bson.M{}, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contract.ErrNotFound
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// revisionFilter matches the document at the revision observed at read time.
// Documents written before revisions were introduced carry no revision field,
// which reads back as zero.
func revisionFilter(id primitive.ObjectID, revision int64) bson.M {
	if revision == 0 {
		return bson.M{"_id": id, "revision": bson.M{"$in": bson.A{int64(0), nil}}}
	}
	return bson.M{"_id": id, "revision": revision}
}

func (r *BusinessDocumentRepositoryImpl) guardedUpdate(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, set bson.M) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}

	set["last_update"] = time.Now().UTC()
	res, err := coll.UpdateOne(ctx, revisionFilter(id, revision), bson.M{
		"$set": set,
		"$inc": bson.M{"revision": 1},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrRevisionConflict
	}
	return nil
}

func (r *BusinessDocumentRepositoryImpl) ReplaceSelectedKeywords(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, selected []entity.Keyword) error {
	if selected == nil {
		selected = []entity.Keyword{}
	}
	return r.guardedUpdate(ctx, businessName, id, revision, bson.M{"selected_keywords": selected})
}

func (r *BusinessDocumentRepositoryImpl) InsertWithSelectedKeywords(ctx context.Context, businessName string, selected []entity.Keyword) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	if selected == nil {
		selected = []entity.Keyword{}
	}
	_, err = coll.InsertOne(ctx, bson.M{
		"business":          businessName,
		"selected_keywords": selected,
		"last_update":       time.Now().UTC(),
		"revision":          int64(1),
	})
	return err
}

func (r *BusinessDocumentRepositoryImpl) ReplaceFinalizedAds(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, finalized []entity.FinalizedAd) error {
	if finalized == nil {
		finalized = []entity.FinalizedAd{}
	}
	return r.guardedUpdate(ctx, businessName, id, revision, bson.M{"finalized_ad_text": finalized})
}

func (r *BusinessDocumentRepositoryImpl) InsertWithFinalizedAds(ctx context.Context, businessName string, finalized []entity.FinalizedAd) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	if finalized == nil {
		finalized = []entity.FinalizedAd{}
	}
	_, err = coll.InsertOne(ctx, bson.M{
		"business":          businessName,
		"finalized_ad_text": finalized,
		"last_update":       time.Now().UTC(),
		"revision":          int64(1),
	})
	return err
}

func (r *BusinessDocumentRepositoryImpl) DeleteVariation(ctx context.Context, businessName string, id primitive.ObjectID, revision int64, variations []entity.AdVariation, finalized []entity.FinalizedAd) error {
	if variations == nil {
		variations = []entity.AdVariation{}
	}
	if finalized == nil {
		finalized = []entity.FinalizedAd{}
	}
	return r.guardedUpdate(ctx, businessName, id, revision, bson.M{
		"ad_variations":     variations,
		"finalized_ad_text": finalized,
	})
}

func (r *BusinessDocumentRepositoryImpl) SetBusinessInfo(ctx context.Context, businessName, websiteLink string) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}

	latest, err := r.Latest(ctx, businessName)
	if err != nil && !errors.Is(err, contract.ErrNotFound) {
		return err
	}

	set := bson.M{
		"business":     businessName,
		"website_link": websiteLink,
		"last_update":  time.Now().UTC(),
	}

	if latest == nil {
		_, err = coll.InsertOne(ctx, bson.M{
			"business":     businessName,
			"website_link": websiteLink,
			"last_update":  time.Now().UTC(),
			"revision":     int64(1),
		})
		return err
	}

	_, err = coll.UpdateOne(ctx, bson.M{"_id": latest.ID}, bson.M{"$set": set})
	return err
}

func (r *BusinessDocumentRepositoryImpl) SetBusinessText(ctx context.Context, businessName string, id primitive.ObjectID, text string) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"business": text, "last_update": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *BusinessDocumentRepositoryImpl) PushPath(ctx context.Context, businessName string, id primitive.ObjectID, path string) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"list_of_paths_taken": path},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *BusinessDocumentRepositoryImpl) PushPersona(ctx context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"user_personas": persona},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *BusinessDocumentRepositoryImpl) SetPersona(ctx context.Context, businessName string, id primitive.ObjectID, index int, persona entity.Persona) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	field := "user_personas." + strconv.Itoa(index)
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{field: persona},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *BusinessDocumentRepositoryImpl) PullPersona(ctx context.Context, businessName string, id primitive.ObjectID, persona entity.Persona) error {
	coll, err := r.collection(ctx, businessName)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"user_personas": bson.M{"title": persona.Title}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return contract.ErrNotFound
	}
	return nil
}
