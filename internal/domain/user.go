package domain

type User struct {
	ID     int64  `db:"id" json:"id"`
	Email  string `db:"email" json:"email"`
	Hash   string `db:"password_hash" json:"-"`
	Name   string `db:"name" json:"name"`
	School string `db:"school" json:"school"`
}

// Exists is false for the zero User, which lookups return when no row matches.
func (u User) Exists() bool { return u.Email != "" }

// CreateResult is the outcome of inserting a user.
type CreateResult int

const (
	UserCreated CreateResult = iota + 1
	UserFailure
	UserExists
)

func (r CreateResult) String() string {
	switch r {
	case UserCreated:
		return "created"
	case UserFailure:
		return "failure"
	case UserExists:
		return "exists"
	}
	return "unknown"
}
