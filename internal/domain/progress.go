package domain

import (
	"context"
	"time"
)

// MacroLog is a single food entry logged by a customer
type MacroLog struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Date      time.Time `bson:"date" json:"date"`
	Food      string    `bson:"food" json:"food"`
	Protein   float64   `bson:"protein" json:"protein"`
	Carbs     float64   `bson:"carbs" json:"carbs"`
	Fats      float64   `bson:"fats" json:"fats"`
	Calories  float64   `bson:"calories" json:"calories"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Measurements in centimetres
type Measurements struct {
	Chest float64 `bson:"chest,omitempty" json:"chest,omitempty"`
	Waist float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips  float64 `bson:"hips,omitempty" json:"hips,omitempty"`
}

// BodyProgress is a body composition check-in logged by a customer
type BodyProgress struct {
	ID           string       `bson:"_id,omitempty" json:"id"`
	UserID       string       `bson:"user_id" json:"user_id"`
	Date         time.Time    `bson:"date" json:"date"`
	Weight       float64      `bson:"weight" json:"weight"`
	BodyFat      float64      `bson:"body_fat" json:"body_fat"`
	MuscleMass   float64      `bson:"muscle_mass" json:"muscle_mass"`
	Images       []string     `bson:"images" json:"images"`
	Measurements Measurements `bson:"measurements" json:"measurements"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// MacroLogRepository stores macro logs. Writes are scoped to the owning user;
// GetByID is not, so ownership is decided by the caller.
type MacroLogRepository interface {
	Create(ctx context.Context, log *MacroLog) error
	GetByID(ctx context.Context, id string) (*MacroLog, error)
	Update(ctx context.Context, log *MacroLog) error
	DeleteForUser(ctx context.Context, id, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*MacroLog, error)
}

// BodyProgressRepository stores body progress check-ins. Writes are scoped to
// the owning user; GetByID is not.
type BodyProgressRepository interface {
	Create(ctx context.Context, entry *BodyProgress) error
	GetByID(ctx context.Context, id string) (*BodyProgress, error)
	Update(ctx context.Context, entry *BodyProgress) error
	DeleteForUser(ctx context.Context, id, userID string) error
	ListByUser(ctx context.Context, userID string) ([]*BodyProgress, error)
}
