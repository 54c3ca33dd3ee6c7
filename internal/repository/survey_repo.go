package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surveyflow/internal/model"
)

// ErrNotFound is returned by writes that target a missing document
var ErrNotFound = errors.New("repository: not found")

// SurveyRepo handles MongoDB operations for survey definitions
type SurveyRepo interface {
	Create(ctx context.Context, survey *model.Survey) (string, error)
	GetByID(ctx context.Context, id string) (*model.Survey, error)
	GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error)
	Update(ctx context.Context, survey *model.Survey) error
	Delete(ctx context.Context, id string) error
}

type surveyRepo struct {
	collection *mongo.Collection
}

// NewSurveyRepo creates a new survey repository
func NewSurveyRepo(db *mongo.Database) SurveyRepo {
	return &surveyRepo{
		collection: db.Collection("surveys"),
	}
}

// Create stores a definition. Definitions imported from files keep their id;
// otherwise one is minted.
func (r *surveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	now := time.Now()
	survey.CreatedAt = now
	survey.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, survey); err != nil {
		return "", err
	}
	return survey.ID, nil
}

func (r *surveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	var survey model.Survey
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&survey)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *surveyRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"hostId": hostID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	surveys := []*model.Survey{}
	if err := cursor.All(ctx, &surveys); err != nil {
		return nil, err
	}
	return surveys, nil
}

func (r *surveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	survey.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": survey.ID}, survey)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *surveyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
