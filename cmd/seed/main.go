// Command seed provisions the single workspace and its two accounts. Run
// once against a fresh environment; existing rows are overwritten, which is
// also how passwords get rotated.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/sindoca/api/internal/config"
	"github.com/sindoca/api/internal/domain"
	"github.com/sindoca/api/internal/infrastructure/dynamo"
	"github.com/sindoca/api/internal/pkg/id"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	ownerEmail := os.Getenv("SEED_OWNER_EMAIL")
	ownerPassword := os.Getenv("SEED_OWNER_PASSWORD")
	ownerName := envOr("SEED_OWNER_NAME", "Owner")
	partnerName := envOr("SEED_PARTNER_NAME", "Partner")
	workspaceName := envOr("SEED_WORKSPACE_NAME", "Our space")

	if ownerEmail == "" || ownerPassword == "" {
		log.Fatal("SEED_OWNER_EMAIL and SEED_OWNER_PASSWORD are required")
	}
	if cfg.InviteEmail == "" || cfg.InvitePassword == "" {
		log.Fatal("INVITE_EMAIL and INVITE_PASSWORD are required (the partner account the invite gate hands out)")
	}

	ctx := context.Background()
	client := dynamo.NewClient(cfg)
	dynamo.Bootstrap(ctx, client, cfg.DynamoTables)

	workspaces := dynamo.NewWorkspaceRepo(client, cfg.DynamoTables.Workspaces)
	users := dynamo.NewUserRepo(client, cfg.DynamoTables.Users)

	now := time.Now().UTC()
	ws := &domain.Workspace{
		WorkspaceID: id.New(),
		Name:        workspaceName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	owner := newUser(ws.WorkspaceID, ownerEmail, ownerPassword, ownerName, now)
	partner := newUser(ws.WorkspaceID, cfg.InviteEmail, cfg.InvitePassword, partnerName, now)
	ws.OwnerUserID = owner.UserID

	if err := workspaces.Put(ctx, ws); err != nil {
		log.Fatalf("failed to create workspace: %v", err)
	}
	if err := users.Put(ctx, owner); err != nil {
		log.Fatalf("failed to create owner account: %v", err)
	}
	if err := users.Put(ctx, partner); err != nil {
		log.Fatalf("failed to create partner account: %v", err)
	}

	log.Printf("seeded workspace %s with accounts %s and %s", ws.WorkspaceID, owner.Email, partner.Email)
}

func newUser(workspaceID, email, password, name string, now time.Time) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	return &domain.User{
		UserID:       id.New(),
		WorkspaceID:  workspaceID,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  name,
		Enable:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
