package registrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sdc-club/backend/internal/models"
)

const (
	collectionName       = "registrations"
	indexEmailUnique     = "email_unique"
	indexStudentIDUnique = "studentId_unique"
)

// MongoStore is the MongoDB Store. Unique indexes reject duplicate email and studentId.
type MongoStore struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStore returns a store over db's registrations collection and ensures its indexes.
func NewMongoStore(ctx context.Context, db *mongo.Database) (*MongoStore, error) {
	s := &MongoStore{coll: db.Collection(collectionName), now: time.Now}
	if err := s.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique and ordering indexes if missing.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexEmailUnique),
		},
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexStudentIDUnique),
		},
		{
			Keys:    bson.D{{Key: "registrationDate", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("created_order"),
		},
	})
	if err != nil {
		return fmt.Errorf("create registration indexes: %w", err)
	}
	return nil
}

// Create implements Store.
func (s *MongoStore) Create(ctx context.Context, reg *models.Registration) error {
	doc := *reg
	doc.ID = uuid.NewString()
	// BSON dates carry millisecond precision.
	doc.RegistrationDate = s.now().UTC().Truncate(time.Millisecond)
	doc.Status = models.StatusPending
	doc.Skills = nonNil(doc.Skills)
	doc.AreasOfInterest = nonNil(doc.AreasOfInterest)

	if _, err := s.coll.InsertOne(ctx, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			field := "email"
			if strings.Contains(err.Error(), indexStudentIDUnique) {
				field = "studentId"
			}
			return &ConstraintError{Field: field, Err: ErrDuplicate}
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	*reg = doc
	return nil
}

// List implements Store, oldest first.
func (s *MongoStore) List(ctx context.Context) ([]models.Registration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find registrations: %w", err)
	}
	list := []models.Registration{}
	if err := cur.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	return list, nil
}

// UpdateStatus implements Store.
func (s *MongoStore) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error) {
	if err := checkStatus(status); err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var reg models.Registration
	err := s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: string(status)}}}},
		opts,
	).Decode(&reg)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update registration status: %w", err)
	}
	return &reg, nil
}
