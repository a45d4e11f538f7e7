package users

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "user not found" }

// Repo defines persistence operations for dashboard users.
type Repo interface {
	Upsert(ctx context.Context, user User) (User, error)
	GetByGoogleSub(ctx context.Context, sub string) (User, error)
}
