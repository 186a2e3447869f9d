package repository

import (
	"context"
	"fmt"

	"github.com/jbweber/homelab/poke/internal/datastore"
	"github.com/jbweber/homelab/poke/internal/domain"
	"github.com/jbweber/homelab/poke/internal/security"
)

// UserSchema maps domain.User onto the users table
var UserSchema = datastore.Schema{
	Name:    "users",
	Columns: []string{"username", "email", "hashed_password"},
}

// userTable is the storage the user repository needs beyond plain CRUD
type userTable interface {
	Table[domain.User]
	FindBy(ctx context.Context, column string, value any) (domain.User, bool, error)
}

// UserRepository handles the User CRUD. Input carries a plaintext password
// which is hashed before anything is written; output never carries the
// password or its digest.
type UserRepository struct {
	*BaseRepository[domain.User, domain.UserIn, domain.UserOut]
	users  userTable
	hasher security.Hasher
}

// NewUserRepository creates a new user repository
func NewUserRepository(ds *datastore.Datastore, hasher security.Hasher) *UserRepository {
	return newUserRepository(datastore.NewTable[domain.User](ds, UserSchema), hasher)
}

func newUserRepository(users userTable, hasher security.Hasher) *UserRepository {
	r := &UserRepository{
		users:  users,
		hasher: hasher,
	}
	// Create and Update both go through hashUser, so a password supplied on
	// update is stored as a digest too.
	r.BaseRepository = NewBaseRepository[domain.User, domain.UserIn, domain.UserOut](
		"User", users, r.hashUser, domain.User.Out)
	return r
}

// hashUser builds the stored user, replacing the plaintext password with its digest
func (r *UserRepository) hashUser(_ context.Context, in domain.UserIn) (domain.User, error) {
	digest, err := r.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password for user %q: %w", in.Username, err)
	}
	return domain.User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: digest,
	}, nil
}

// Authenticate checks a username and password. ok is false for an unknown
// user or a wrong password; err is reserved for storage failures.
func (r *UserRepository) Authenticate(ctx context.Context, username, password string) (domain.UserOut, bool, error) {
	u, found, err := r.users.FindBy(ctx, "username", username)
	if err != nil {
		return domain.UserOut{}, false, &StorageError{Op: "authenticate", Entity: r.Entity(), Err: err}
	}
	if !found || !r.hasher.Verify(password, u.HashedPassword) {
		return domain.UserOut{}, false, nil
	}
	return u.Out(), true, nil
}
