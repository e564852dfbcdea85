package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mansoorceksport/gymhub/internal/domain"
)

// Facts are the stored records an authorization decision is made over.
// A nil pointer means the record does not exist (or was not loaded).
type Facts struct {
	Gym      *domain.Gym
	Actor    *domain.User
	Customer *domain.User

	// RecordOwnerID is the user id a self-owned record belongs to. Empty means
	// the record was not found and is denied.
	RecordOwnerID string
	// RecordMissing is returned when the record is not owned by the caller.
	RecordMissing error
}

// gate identifies which relationship check an action goes through after the role gate
type gate int

const (
	gateNone gate = iota
	gateOwnership
	gateGymMembership
	gateSelfOwnership
)

var actionGates = map[domain.Action]gate{
	domain.ActionUpdateGym:     gateOwnership,
	domain.ActionDeleteGym:     gateOwnership,
	domain.ActionAddTrainer:    gateOwnership,
	domain.ActionRemoveTrainer: gateOwnership,
	domain.ActionListTrainers:  gateOwnership,
	domain.ActionAddMember:     gateOwnership,
	domain.ActionRemoveMember:  gateOwnership,
	domain.ActionListMembers:   gateOwnership,

	domain.ActionReadWorkoutPlan:   gateGymMembership,
	domain.ActionWriteWorkoutPlan:  gateGymMembership,
	domain.ActionDeleteWorkoutPlan: gateGymMembership,
	domain.ActionReadDietPlan:      gateGymMembership,
	domain.ActionWriteDietPlan:     gateGymMembership,
	domain.ActionDeleteDietPlan:    gateGymMembership,

	domain.ActionWriteOwnLog:       gateSelfOwnership,
	domain.ActionReadOwnLog:        gateSelfOwnership,
	domain.ActionMarkNotifications: gateSelfOwnership,
}

// Decide evaluates the gates in order: role, then the relationship gate the
// action belongs to. It never touches storage.
func Decide(p domain.Principal, action domain.Action, facts Facts) error {
	if !domain.Permits(p.Role, action) {
		return domain.ErrUnauthorized
	}

	switch actionGates[action] {
	case gateOwnership:
		if facts.Gym == nil || facts.Gym.OwnerID != p.ID {
			return domain.ErrGymNotFound
		}
	case gateGymMembership:
		actor, customer := facts.Actor, facts.Customer
		if actor == nil || actor.ID != p.ID || actor.GymID == "" {
			return domain.ErrAccessDenied
		}
		if customer == nil || !customer.HasRole(domain.RoleCustomer) || customer.GymID != actor.GymID {
			return domain.ErrAccessDenied
		}
	case gateSelfOwnership:
		if facts.RecordOwnerID == "" || facts.RecordOwnerID != p.ID {
			if facts.RecordMissing != nil {
				return facts.RecordMissing
			}
			return domain.ErrNotFound
		}
	}
	return nil
}

// Authorizer loads the facts for a decision from storage and calls Decide.
// It has no side effects.
type Authorizer struct {
	users domain.UserRepository
	gyms  domain.GymRepository
}

func NewAuthorizer(users domain.UserRepository, gyms domain.GymRepository) *Authorizer {
	return &Authorizer{users: users, gyms: gyms}
}

// AuthorizeRole runs only the role gate
func (a *Authorizer) AuthorizeRole(p domain.Principal, action domain.Action) error {
	if !domain.Permits(p.Role, action) {
		return domain.ErrUnauthorized
	}
	return nil
}

// AuthorizeGym loads gymID and runs the ownership gate. A gym that does not
// exist and a gym owned by somebody else both come back as ErrGymNotFound.
func (a *Authorizer) AuthorizeGym(ctx context.Context, p domain.Principal, action domain.Action, gymID string) (*domain.Gym, error) {
	if err := a.AuthorizeRole(p, action); err != nil {
		return nil, err
	}

	gym, err := a.gyms.GetByID(ctx, gymID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err := Decide(p, action, Facts{Gym: gym}); err != nil {
		return nil, err
	}
	return gym, nil
}

// ResolveOwnerGym picks the gym an owner action applies to. An explicit gymID
// always wins; otherwise the owner must own exactly one gym.
func (a *Authorizer) ResolveOwnerGym(ctx context.Context, p domain.Principal, action domain.Action, gymID string) (*domain.Gym, error) {
	if gymID != "" {
		return a.AuthorizeGym(ctx, p, action, gymID)
	}
	if err := a.AuthorizeRole(p, action); err != nil {
		return nil, err
	}

	gyms, err := a.gyms.GetByOwner(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	switch len(gyms) {
	case 0:
		return nil, domain.ErrGymNotFound
	case 1:
		if err := Decide(p, action, Facts{Gym: gyms[0]}); err != nil {
			return nil, err
		}
		return gyms[0], nil
	default:
		return nil, domain.ErrAmbiguousGym
	}
}

// AuthorizeCustomer runs the gym-membership gate for a trainer acting on
// customerID. Every way of failing the gate returns ErrAccessDenied.
func (a *Authorizer) AuthorizeCustomer(ctx context.Context, p domain.Principal, action domain.Action, customerID string) (*domain.User, error) {
	if err := a.AuthorizeRole(p, action); err != nil {
		return nil, err
	}

	actor, err := a.lookupUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	var customer *domain.User
	if customerID != "" {
		if customer, err = a.lookupUser(ctx, customerID); err != nil {
			return nil, err
		}
	}

	if err := Decide(p, action, Facts{Actor: actor, Customer: customer}); err != nil {
		return nil, err
	}
	return customer, nil
}

// AuthorizeRecord runs the self-ownership gate over an already loaded record.
// Pass an empty ownerID when the record does not exist.
func (a *Authorizer) AuthorizeRecord(p domain.Principal, action domain.Action, ownerID string, missing error) error {
	return Decide(p, action, Facts{RecordOwnerID: ownerID, RecordMissing: missing})
}

// lookupUser returns nil without error when the user does not exist
func (a *Authorizer) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user for authorization: %w", err)
	}
	return user, nil
}
