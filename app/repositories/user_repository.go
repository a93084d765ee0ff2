package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fashionhub/storefront/app/models"
	"github.com/fashionhub/storefront/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository stores user accounts.
type UserRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a repository over the users collection.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

// Create inserts a user. A duplicate email maps to a validation error so
// the register endpoint can answer 400.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = models.RoleUser
	}

	res, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Validationf("Email already registered")
	}
	if err != nil {
		return fmt.Errorf("users: insert: %w", err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("users: find by email: %w", err)
	}
	return &u, nil
}

// Get returns the user with the given id.
func (r *UserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFoundf("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("users: get %s: %w", id.Hex(), err)
	}
	return &u, nil
}
