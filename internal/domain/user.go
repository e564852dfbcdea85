package domain

import (
	"context"
	"time"
)

// User is a single account. Trainers and customers belong to at most one gym
// through GymID; an owner's gyms are looked up by Gym.OwnerID.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Role      string    `bson:"role" json:"role"`
	GymID     string    `bson:"gym_id,omitempty" json:"gym_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasRole checks if user has a specific role
func (u *User) HasRole(role string) bool {
	return u != nil && u.Role == role
}

// UserSummary is the roster projection returned to owners and trainers.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary projects a user onto the roster view
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserRepository defines operations for managing users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmailAndRole(ctx context.Context, email, role string) (*User, error)

	// SetGym points the user at gymID. An empty gymID clears the link.
	SetGym(ctx context.Context, userID, gymID string) error
	// ClearGym unsets gym_id on every user linked to gymID and returns their ids.
	ClearGym(ctx context.Context, gymID string) ([]string, error)

	GetByGymAndRole(ctx context.Context, gymID, role string) ([]*User, error)
}

// Role constants
const (
	RoleOwner    = "owner"
	RoleTrainer  = "trainer"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// IsValidRole reports whether role is one of the fixed roles
func IsValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleTrainer, RoleCustomer, RoleAdmin:
		return true
	}
	return false
}
