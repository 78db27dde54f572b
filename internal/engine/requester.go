package engine

import (
	"github.com/jahandaniyal/notes-api/types"
)

// Requester is the identity context for one operation: either a concrete
// user resolved by the auth layer, or anonymous. The engines never look at
// credentials, only at this.
type Requester struct {
	user *types.User
}

func Anonymous() Requester {
	return Requester{}
}

func AsUser(u types.User) Requester {
	return Requester{user: &u}
}

func (r Requester) Authenticated() bool {
	return r.user != nil
}

// UserID returns the requester's user id, or zero for anonymous.
func (r Requester) UserID() uint {
	if r.user == nil {
		return 0
	}
	return r.user.ID
}

func (r Requester) User() *types.User {
	return r.user
}
