package service

import "github.com/notekeeper/internal/db"

// Actor is the user on whose behalf a service call runs.
// The zero value is an anonymous visitor.
type Actor struct {
	ID       uint
	Username string
}

// Anonymous is the actor for requests without a session.
var Anonymous = Actor{}

// ActorFromUser converts a stored user into an Actor.
func ActorFromUser(user *db.User) Actor {
	if user == nil {
		return Anonymous
	}
	return Actor{ID: user.ID, Username: user.Username}
}

// Authenticated reports whether the actor has a user identity.
func (a Actor) Authenticated() bool {
	return a.ID != 0
}

// CanAccess reports whether actor may read, change or delete note.
// Only the author is allowed.
func CanAccess(actor Actor, note *db.Note) bool {
	if note == nil || !actor.Authenticated() {
		return false
	}
	return actor.ID == note.AuthorID
}
