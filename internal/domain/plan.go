package domain

import (
	"context"
	"time"
)

// Exercise is one line of a workout plan. Reps and Rest are free-form ("12-15", "90s").
type Exercise struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name" validate:"required"`
	Sets int    `bson:"sets" json:"sets" validate:"gte=0"`
	Reps string `bson:"reps" json:"reps" validate:"required"`
	Rest string `bson:"rest" json:"rest" validate:"required"`
	Day  string `bson:"day" json:"day" validate:"required"`
}

// WorkoutPlan holds the single workout plan of a customer
type WorkoutPlan struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Exercises []Exercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Macros are grams per meal
type Macros struct {
	Protein float64 `bson:"protein" json:"protein" validate:"gte=0"`
	Carbs   float64 `bson:"carbs" json:"carbs" validate:"gte=0"`
	Fats    float64 `bson:"fats" json:"fats" validate:"gte=0"`
}

// Meal is one line of a diet plan
type Meal struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name" validate:"required"`
	Calories float64 `bson:"calories" json:"calories" validate:"gte=0"`
	Macros   Macros  `bson:"macros" json:"macros"`
	Time     string  `bson:"time" json:"time" validate:"required"`
}

// DietPlan holds the single diet plan of a customer
type DietPlan struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Meals     []Meal    `bson:"meals" json:"meals"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// WorkoutPlanRepository stores at most one plan per user
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *WorkoutPlan) error
	GetByUserID(ctx context.Context, userID string) (*WorkoutPlan, error)
	// ReplaceExercises overwrites the exercise set of the user's plan
	ReplaceExercises(ctx context.Context, userID string, exercises []Exercise) (*WorkoutPlan, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// DietPlanRepository stores at most one plan per user
type DietPlanRepository interface {
	Create(ctx context.Context, plan *DietPlan) error
	GetByUserID(ctx context.Context, userID string) (*DietPlan, error)
	ReplaceMeals(ctx context.Context, userID string, meals []Meal) (*DietPlan, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// Programs bundles both plans of one customer; absent plans are nil
type Programs struct {
	WorkoutPlan *WorkoutPlan `json:"workout_plan"`
	DietPlan    *DietPlan    `json:"diet_plan"`
}
