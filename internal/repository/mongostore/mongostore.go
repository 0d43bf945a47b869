// Package mongostore implements repository.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tasks-be/internal/apperr"
	"tasks-be/internal/entities"
	"tasks-be/internal/repository"
)

const (
	usersCollection = "users"
	tasksCollection = "tasks"
)

var errTaskNotFound = fmt.Errorf("%w: Task not found", apperr.ErrNotFound)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New wraps a connected client; EnsureIndexes must run before serving.
func New(client *mongo.Client, database string) *Store {
	return &Store{client: client, db: client.Database(database)}
}

// EnsureIndexes creates the unique email index and the owner index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	_, err = s.db.Collection(tasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks owner index: %w", err)
	}
	return nil
}

func (s *Store) Users() repository.UserRepository { return &userRepository{coll: s.db.Collection(usersCollection)} }
func (s *Store) Tasks() repository.TaskRepository { return &taskRepository{coll: s.db.Collection(tasksCollection)} }

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Used by integration tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDocument) entity() *entities.User {
	return &entities.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	UserID      primitive.ObjectID `bson:"userId"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *taskDocument) entity() *entities.Task {
	return &entities.Task{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		UserID:      d.UserID.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type userRepository struct {
	coll *mongo.Collection
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: User already exists", apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = doc.ID.Hex()
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.entity(), nil
}

type taskRepository struct {
	coll *mongo.Collection
}

// ownedFilter builds the (id, owner) filter; ok is false for malformed ids.
func ownedFilter(id, ownerID string) (bson.M, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": owner}, true
}

func (r *taskRepository) Create(ctx context.Context, task *entities.Task) error {
	owner, err := primitive.ObjectIDFromHex(task.UserID)
	if err != nil {
		return fmt.Errorf("invalid owner id %q: %w", task.UserID, err)
	}
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		Title:       task.Title,
		Description: task.Description,
		UserID:      owner,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID = doc.ID.Hex()
	return nil
}

func (r *taskRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Task, error) {
	tasks := []*entities.Task{}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return tasks, nil
	}

	// ObjectIDs grow monotonically, so _id breaks createdAt ties in insertion order.
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode task: %w", err)
		}
		tasks = append(tasks, doc.entity())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *taskRepository) FindOwned(ctx context.Context, id, ownerID string) (*entities.Task, error) {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return nil, errTaskNotFound
	}

	var doc taskDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return doc.entity(), nil
}

func (r *taskRepository) Update(ctx context.Context, task *entities.Task) error {
	filter, ok := ownedFilter(task.ID, task.UserID)
	if !ok {
		return errTaskNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"updatedAt":   task.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if res.MatchedCount == 0 {
		return errTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID string) error {
	filter, ok := ownedFilter(id, ownerID)
	if !ok {
		return errTaskNotFound
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return errTaskNotFound
	}
	return nil
}
