// Package mongorepo stores users as MongoDB documents with an embedded log.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"exercise-tracker/internal/models"
	"exercise-tracker/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

type exerciseDocument struct {
	Description string    `bson:"description"`
	Duration    int       `bson:"duration"`
	Date        time.Time `bson:"date"`
}

type userDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Log      []exerciseDocument `bson:"log"`
}

// Repository implements repository.UserRepository on a MongoDB collection.
type Repository struct {
	users *mongo.Collection
}

var _ repository.UserRepository = (*Repository)(nil)

// Connect dials uri, verifies the connection and returns a repository on database.
func Connect(ctx context.Context, uri, database string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return New(client.Database(database)), nil
}

// New returns a repository on db's users collection.
func New(db *mongo.Database) *Repository {
	return &Repository{users: db.Collection(CollectionName)}
}

// CreateUser inserts a user document with an empty log.
func (r *Repository) CreateUser(ctx context.Context, username string) (*models.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, repository.ErrInvalidUsername
	}

	doc := userDocument{
		ID:       primitive.NewObjectID(),
		Username: username,
		Log:      []exerciseDocument{},
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return doc.toModel(), nil
}

// ListUsers returns every user projected to id and username.
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.D{{Key: "username", Value: 1}})
	cursor, err := r.users.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]models.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, models.User{ID: doc.ID.Hex(), Username: doc.Username})
	}
	return users, nil
}

// GetUser loads a user document.
func (r *Repository) GetUser(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", repository.ErrNotFound)
	}

	var doc userDocument
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, fmt.Errorf("get user: %w", translate(err))
	}
	return doc.toModel(), nil
}

// AppendExercise pushes onto the embedded log in a single atomic update.
func (r *Repository) AppendExercise(ctx context.Context, id string, exercise models.Exercise) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("append exercise: %w", repository.ErrNotFound)
	}

	update := bson.M{"$push": bson.M{"log": exerciseDocument{
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date,
	}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("append exercise: %w", translate(err))
	}
	return doc.toModel(), nil
}

// Close disconnects the client.
func (r *Repository) Close(ctx context.Context) error {
	return r.users.Database().Client().Disconnect(ctx)
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func (d userDocument) toModel() *models.User {
	id := d.ID.Hex()
	log := make([]models.Exercise, 0, len(d.Log))
	for _, e := range d.Log {
		log = append(log, models.Exercise{
			UserID:      id,
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.Date,
		})
	}
	return &models.User{ID: id, Username: d.Username, Log: log}
}
