// Package mongo implements the storage ports on the portal's document store.
// It owns the document schema and translates driver errors into domain
// errors so callers never see driver types.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	driver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/porchest/portal-api/internal/domain"
	"github.com/porchest/portal-api/internal/domain/user"
	"github.com/porchest/portal-api/internal/platform/logging"
	"github.com/porchest/portal-api/internal/platform/mongostore"
	"github.com/porchest/portal-api/internal/ports"
)

// Compile-time check that UserStore implements ports.UserStore.
var _ ports.UserStore = (*UserStore)(nil)

// usersCollection is the collection name for portal accounts.
const usersCollection = "users"

// UserStore persists users in the users collection.
type UserStore struct {
	col    *driver.Collection
	logger *logging.Logger
}

// NewUserStore creates a UserStore backed by the given connection.
func NewUserStore(store *mongostore.Store, logger *logging.Logger) *UserStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserStore{
		col:    store.Collection(usersCollection),
		logger: logger,
	}
}

// EnsureIndexes creates the unique email index. Called once at startup;
// duplicate registrations rely on this index to surface as conflicts.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, driver.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating email index: %w", err)
	}
	return nil
}

// userDocument is the stored representation of a user. It is private to this
// package; the rest of the service only sees user.User.
type userDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Name         string             `bson:"name"`
	Company      string             `bson:"company,omitempty"`
	Role         string             `bson:"role"`
	Status       string             `bson:"status"`
	PasswordHash string             `bson:"passwordHash"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// Insert persists a new user and returns it with the assigned ID and
// timestamps.
func (s *UserStore) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	now := time.Now().UTC()
	doc := toDocument(u)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongostore.IsDuplicateKey(err) {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return toEntity(doc), nil
}

// FindByID returns a user by ID.
func (s *UserStore) FindByID(ctx context.Context, id string) (*user.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateError(err, "finding user")
	}
	return toEntity(&doc), nil
}

// FindByEmail returns a user by email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var doc userDocument
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, translateError(err, "finding user by email")
	}
	return toEntity(&doc), nil
}

// List returns users ordered by creation time, newest first, and the total
// collection count for pagination.
func (s *UserStore) List(ctx context.Context, offset, limit int) ([]user.User, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			s.logger.Warn("failed to close user cursor", logging.Fields{"error": err.Error()})
		}
	}()

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decoding users: %w", err)
	}

	users := make([]user.User, len(docs))
	for i := range docs {
		users[i] = *toEntity(&docs[i])
	}
	return users, total, nil
}

// Update overwrites the mutable profile fields and returns the updated user.
func (s *UserStore) Update(ctx context.Context, id string, u *user.User) (*user.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"name":      u.Name,
		"company":   u.Company,
		"updatedAt": time.Now().UTC(),
	}}

	return s.findOneAndUpdate(ctx, oid, update, "updating user")
}

// UpdateStatus transitions the verification status and returns the updated
// user.
func (s *UserStore) UpdateStatus(ctx context.Context, id string, status user.Status) (*user.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"status":    status.String(),
		"updatedAt": time.Now().UTC(),
	}}

	return s.findOneAndUpdate(ctx, oid, update, "updating user status")
}

// Delete removes a user.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// findOneAndUpdate applies the update and decodes the post-update document.
func (s *UserStore) findOneAndUpdate(ctx context.Context, oid primitive.ObjectID, update bson.M, op string) (*user.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		return nil, translateError(err, op)
	}
	return toEntity(&doc), nil
}

// parseID converts a hex ID into an ObjectID. An unparseable ID cannot match
// any document, so it maps to not found rather than a validation failure.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return oid, nil
}

// translateError maps driver errors to domain errors so callers can use
// errors.Is without importing the driver.
func translateError(err error, op string) error {
	switch {
	case errors.Is(err, driver.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case mongostore.IsDuplicateKey(err):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// toDocument converts a domain user to its stored form. ID and timestamps
// are assigned by the store, not copied.
func toDocument(u *user.User) *userDocument {
	return &userDocument{
		Email:        u.Email,
		Name:         u.Name,
		Company:      u.Company,
		Role:         u.Role.String(),
		Status:       u.Status.String(),
		PasswordHash: u.PasswordHash,
	}
}

// toEntity converts a stored document back to the domain type.
func toEntity(doc *userDocument) *user.User {
	return &user.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		Name:         doc.Name,
		Company:      doc.Company,
		Role:         user.Role(doc.Role),
		Status:       user.Status(doc.Status),
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
