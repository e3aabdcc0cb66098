// Package authz decides whether a caller may perform an operation on a resource.
//
// Every decision comes from one policy table keyed by (operation, resource).
// The gate is pure: callers load ownership data themselves and pass it in.
package authz

import (
	"fmt"

	"howtoplatform/internal/domain"
)

type Operation string

const (
	OpCreate     Operation = "create"
	OpRead       Operation = "read"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
	OpChangeRole Operation = "change_role"
)

type Resource string

const (
	ResourceLesson   Resource = "lesson"
	ResourceCategory Resource = "category"
	ResourceTopic    Resource = "topic"
	ResourceReply    Resource = "reply"
	ResourceAccount  Resource = "account"
	ResourceFavorite Resource = "favorite"
)

type Reason string

const (
	ReasonNone      Reason = ""
	ReasonRole      Reason = "forbidden:role"
	ReasonOwnership Reason = "forbidden:ownership"
	ReasonNotFound  Reason = "not_found"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err converts a denial into the domain error taxonomy.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonNotFound:
		return domain.ErrNotFound
	default:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, d.Reason)
	}
}

// Grant is a bit set of the non-administrator ways to pass a rule.
// Administrators pass every rule.
type Grant uint8

const (
	// GrantOwner allows the caller whose id equals the resource owner id.
	GrantOwner Grant = 1 << iota
	// GrantInstructor allows any Instructor regardless of ownership.
	GrantInstructor
	// GrantAuthenticated allows any caller with a known role.
	GrantAuthenticated
)

type key struct {
	op  Operation
	res Resource
}

// Request is one question put to the gate.
type Request struct {
	Caller    domain.Caller
	Operation Operation
	Resource  Resource
	// OwnerID is the owning user of the target; nil for unowned resources
	// such as system categories, and for creates.
	OwnerID *uint
	// Missing marks a target that could not be loaded.
	Missing bool
}

type Gate struct {
	rules map[key]Grant
}

// NewGate returns a gate with the catalog policy. Lesson and category
// mutations are ownership-aware: an instructor may only change what they own.
func NewGate() *Gate {
	return &Gate{rules: map[key]Grant{
		{OpCreate, ResourceLesson}: GrantInstructor,
		{OpRead, ResourceLesson}:   GrantOwner,
		{OpUpdate, ResourceLesson}: GrantOwner,
		{OpDelete, ResourceLesson}: GrantOwner,

		{OpCreate, ResourceCategory}: GrantInstructor,
		{OpUpdate, ResourceCategory}: GrantOwner,
		{OpDelete, ResourceCategory}: GrantOwner,

		{OpCreate, ResourceTopic}: GrantAuthenticated,
		{OpUpdate, ResourceTopic}: GrantOwner,
		{OpDelete, ResourceTopic}: GrantOwner,

		{OpCreate, ResourceReply}: GrantAuthenticated,
		{OpUpdate, ResourceReply}: GrantOwner,
		{OpDelete, ResourceReply}: GrantOwner,

		{OpRead, ResourceAccount}:       GrantOwner,
		{OpUpdate, ResourceAccount}:     GrantOwner,
		{OpDelete, ResourceAccount}:     0,
		{OpChangeRole, ResourceAccount}: 0,

		{OpCreate, ResourceFavorite}: GrantAuthenticated,
		{OpRead, ResourceFavorite}:   GrantAuthenticated,
		{OpDelete, ResourceFavorite}: GrantAuthenticated,
	}}
}

// Evaluate applies, in order: existence, administrator, ownership,
// instructor role class, any authenticated caller, then deny.
func (g *Gate) Evaluate(req Request) Decision {
	if req.Missing && req.Operation != OpCreate {
		return Decision{Reason: ReasonNotFound}
	}

	if req.Caller.Role == domain.RoleAdministrator {
		return Decision{Allowed: true}
	}

	grants, ok := g.rules[key{req.Operation, req.Resource}]
	if !ok || req.Caller.ID == 0 || !req.Caller.Role.Valid() {
		return Decision{Reason: ReasonRole}
	}

	if grants&GrantOwner != 0 && req.OwnerID != nil && *req.OwnerID == req.Caller.ID {
		return Decision{Allowed: true}
	}

	if grants&GrantInstructor != 0 && req.Operation == OpCreate && req.Caller.Role == domain.RoleInstructor {
		return Decision{Allowed: true}
	}

	if grants&GrantAuthenticated != 0 {
		return Decision{Allowed: true}
	}

	if grants&GrantOwner != 0 && req.OwnerID != nil {
		return Decision{Reason: ReasonOwnership}
	}
	return Decision{Reason: ReasonRole}
}

// Authorize is Evaluate followed by Decision.Err.
func (g *Gate) Authorize(req Request) error {
	return g.Evaluate(req).Err()
}

// Owned is a convenience for building Request.OwnerID from a plain id.
func Owned(id uint) *uint {
	return &id
}
