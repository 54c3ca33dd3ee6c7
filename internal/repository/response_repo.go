package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/model"
)

// ResponseRepo stores submitted response snapshots. It is the sink a
// session hands its snapshot to on submit.
type ResponseRepo interface {
	Save(ctx context.Context, resp *model.Response) error
	GetByID(ctx context.Context, id string) (*model.Response, error)
	ListBySurvey(ctx context.Context, surveyID string, limit int64) ([]*model.Response, error)
	CountBySurvey(ctx context.Context, surveyID string) (int64, error)
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

// Save upserts by response id so a retried submit does not duplicate
func (r *responseRepo) Save(ctx context.Context, resp *model.Response) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": resp.ID}, resp, opts)
	return err
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	var resp model.Response
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&resp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *responseRepo) ListBySurvey(ctx context.Context, surveyID string, limit int64) ([]*model.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"surveyId": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := []*model.Response{}
	if err = cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountBySurvey(ctx context.Context, surveyID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"surveyId": surveyID})
}

func (r *responseRepo) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"surveyId": surveyID})
	return err
}
