// Command seed creates one owner, trainer and customer for local development
// and prints an access token for each.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mansoorceksport/gymhub/internal/config"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/repository"
	"github.com/mansoorceksport/gymhub/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
	if err != nil {
		log.Fatalf("Failed to connect to Mongo: %v", err)
	}
	defer client.Disconnect(ctx)

	users := repository.NewMongoUserRepository(client.Database(cfg.MongoDB.Database))
	tokens := service.NewTokenService(cfg.JWT)

	seed := []domain.User{
		{Name: "Olivia Owner", Email: "owner@gymhub.local", Role: domain.RoleOwner},
		{Name: "Theo Trainer", Email: "trainer@gymhub.local", Role: domain.RoleTrainer},
		{Name: "Casey Customer", Email: "customer@gymhub.local", Role: domain.RoleCustomer},
	}

	for i := range seed {
		u := seed[i]
		err := users.Create(ctx, &u)
		if errors.Is(err, domain.ErrConflict) {
			existing, getErr := users.GetByEmailAndRole(ctx, u.Email, u.Role)
			if getErr != nil {
				log.Fatalf("Failed to load existing %s: %v", u.Email, getErr)
			}
			u = *existing
		} else if err != nil {
			log.Fatalf("Failed to create %s: %v", u.Email, err)
		}

		token, err := tokens.GenerateAccessToken(&u)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", u.Email, err)
		}
		fmt.Printf("%-9s %-24s %s\n  %s\n", u.Role, u.Email, u.ID, token)
	}
}
