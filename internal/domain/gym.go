package domain

import (
	"context"
	"time"
)

// Gym is owned by exactly one owner
type Gym struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	OwnerID   string    `bson:"owner_id" json:"owner_id"`
	Name      string    `bson:"name" json:"name"`
	Location  string    `bson:"location" json:"location"`
	Images    []string  `bson:"images" json:"images"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GymPatch carries a partial gym update; nil fields keep their value
type GymPatch struct {
	Name     *string
	Location *string
	Images   []string
}

// GymRepository defines operations for managing gyms
type GymRepository interface {
	Create(ctx context.Context, gym *Gym) error
	GetByID(ctx context.Context, id string) (*Gym, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*Gym, error)
	Update(ctx context.Context, gym *Gym) error
	Delete(ctx context.Context, id string) error
}
