package domain

// PokeType represents an elemental type a move can belong to
type PokeType struct {
	ID   int64  `db:"id" json:"id"`                                     // Unique identifier
	Name string `db:"name" json:"name" validate:"required,min=1,max=32"` // Type name (e.g., "Fire")
}

// MoveCategory classifies how a move deals damage
type MoveCategory string

const (
	CategoryPhysical MoveCategory = "physical"
	CategorySpecial  MoveCategory = "special"
	CategoryStatus   MoveCategory = "status"
)

// Valid reports whether c is one of the known categories
func (c MoveCategory) Valid() bool {
	switch c {
	case CategoryPhysical, CategorySpecial, CategoryStatus:
		return true
	}
	return false
}

// PokeMove represents a move record. The same shape is used for input,
// storage and output; ID is ignored on input.
type PokeMove struct {
	ID       int64        `db:"id" json:"id"`                                              // Unique identifier
	Name     string       `db:"name" json:"name" validate:"required,min=1,max=64"`         // Move name
	Effect   string       `db:"effect" json:"effect" validate:"required"`                  // Effect text
	TypeID   int64        `db:"type_id" json:"type_id" validate:"required,gt=0"`           // Foreign key to PokeType
	Category MoveCategory `db:"category" json:"category" validate:"required,movecategory"` // physical/special/status
}

// User is the stored user record. HashedPassword never leaves the service.
type User struct {
	ID             int64  `db:"id" json:"id"`
	Username       string `db:"username" json:"username"`
	Email          string `db:"email" json:"email"`
	HashedPassword string `db:"hashed_password" json:"-"`
}

// UserIn is the caller-supplied user payload for create and update
type UserIn struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// UserOut is the externally visible user shape
type UserOut struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Out converts a stored user to its public shape
func (u User) Out() UserOut {
	return UserOut{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
