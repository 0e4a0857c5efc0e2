package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/arzan03/scholarship-server/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// UserService owns the user collection's rules.
type UserService struct {
	users store.Collection
	now   func() time.Time
}

// NewUserService binds a UserService to the users collection.
func NewUserService(users store.Collection) *UserService {
	return &UserService{users: users, now: time.Now}
}

// Save records a login for doc's email. An unknown email is inserted with a
// server timestamp. A known email only changes when doc asks for a role change;
// otherwise the stored document is returned untouched.
func (s *UserService) Save(ctx context.Context, doc bson.M) (any, error) {
	email, _ := doc[models.UserEmailField].(string)
	key := bson.M{models.UserEmailField: email}

	existing, err := s.users.FindOne(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if status, _ := doc[models.UserStatusField].(string); status == models.StatusRequested {
			return s.RequestRoleChange(ctx, email)
		}
		return existing, nil
	}

	fields := bson.M{}
	for k, v := range doc {
		fields[k] = v
	}
	fields[models.UserTimestampField] = s.now().UnixMilli()
	return store.UpsertByKey(ctx, s.users, key, fields, true)
}

// RequestRoleChange flags the user as having requested a new role.
func (s *UserService) RequestRoleChange(ctx context.Context, email string) (*store.UpdateResult, error) {
	return store.UpsertByKey(ctx, s.users,
		bson.M{models.UserEmailField: email},
		bson.M{models.UserStatusField: models.StatusRequested},
		false)
}

// Update merges patch into the user with email and stamps it. It never creates.
func (s *UserService) Update(ctx context.Context, email string, patch bson.M) (*store.UpdateResult, error) {
	fields := bson.M{}
	for k, v := range patch {
		fields[k] = v
	}
	fields[models.UserTimestampField] = s.now().UnixMilli()
	return store.UpsertByKey(ctx, s.users, bson.M{models.UserEmailField: email}, fields, false)
}

// Role looks up the stored role for email. found is false when no user exists.
func (s *UserService) Role(ctx context.Context, email string) (role models.Role, found bool, err error) {
	doc, err := s.users.FindOne(ctx, bson.M{models.UserEmailField: email})
	if err != nil || doc == nil {
		return models.RoleApplicant, false, err
	}
	var user models.User
	if err := store.Decode(doc, &user); err != nil {
		return models.RoleApplicant, true, fmt.Errorf("decode user %s: %w", email, err)
	}
	return models.ParseRole(user.Role), true, nil
}
