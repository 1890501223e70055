package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dsalta/compliance-api/internal/core/domain"
)

func userBSON(id, username, role string, active bool) bson.D {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "username", Value: username},
		{Key: "password_hash", Value: "$2a$10$hash"},
		{Key: "email", Value: username + "@compliance.com"},
		{Key: "first_name", Value: "First"},
		{Key: "last_name", Value: "Last"},
		{Key: "role", Value: role},
		{Key: "is_active", Value: active},
		{Key: "created_at", Value: now},
		{Key: "updated_at", Value: now},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "compliance.users"

	mt.Run("create assigns an id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "h", Role: domain.RoleStandard, IsActive: true})
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if u.ID == "" || u.Username != "alice" || u.Role != domain.RoleStandard {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("create duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Username: "alice", Role: domain.RoleStandard})
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})

	mt.Run("find by username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userBSON("u1", "alice", "admin", true)))

		u, err := repo.FindByUsername(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("FindByUsername: %v", err)
		}
		if u.ID != "u1" || u.Role != domain.RoleAdmin || !u.IsActive || u.FirstName != "First" {
			mt.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), "nope"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("stored role is validated", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userBSON("u1", "root", "superuser", true)))

		if _, err := repo.FindByID(context.Background(), "u1"); err == nil {
			mt.Fatal("expected an error for an unknown stored role")
		}
	})

	mt.Run("exists", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		ok, err := repo.ExistsByUsername(context.Background(), "alice")
		if err != nil || !ok {
			mt.Fatalf("expected alice to exist, got %v (err %v)", ok, err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			userBSON("u1", "admin", "admin", true),
			userBSON("u2", "user", "standard", false),
		))

		users, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("List: %v", err)
		}
		if len(users) != 2 || users[1].Username != "user" || users[1].IsActive {
			mt.Fatalf("unexpected users: %+v", users)
		}
	})
}
