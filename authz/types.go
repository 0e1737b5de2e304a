// authz/types.go
package authz

import "github.com/dev-kunalpandey/tudu/api/model"

// Action is the closed set of operations the policy engine rules on.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ResourceType is the closed set of protected resource kinds. Adding a
// type means adding ownership rules in Decide, not new mechanism.
type ResourceType string

const (
	ResourceTodo ResourceType = "TODO"
	ResourceUser ResourceType = "USER"
)

// Actor is the authenticated principal for the duration of one
// request.
type Actor struct {
	ID   int
	Role model.Role
}

// Snapshot is a point-in-time read of a resource's authorization
// metadata. It is not live: it must not be trusted past the decision
// it was resolved for unless the concurrency guard covers the write.
type Snapshot struct {
	ID      int
	OwnerID int
	Version int
}

// ActorContext is the cached per-user policy context.
type ActorContext struct {
	ID   int
	Role model.Role
}

// ResourceMeta is the cached resource metadata. It may be up to its
// TTL stale and is therefore never consulted for version checks.
type ResourceMeta struct {
	OwnerID int
	Version int
}

// SubjectKind discriminates ResolvedSubject.
type SubjectKind int

const (
	SubjectActor SubjectKind = iota
	SubjectTodo
	SubjectUser
)

// ResolvedSubject is the authorize result: either the resolved
// resource (so the caller doesn't re-query) or the actor itself when
// no concrete resource was required.
type ResolvedSubject struct {
	Kind  SubjectKind
	Actor Actor
	Todo  *model.Todo
	User  *model.User
}
