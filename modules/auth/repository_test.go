package auth

import (
	"errors"
	"testing"
	"time"

	domain "github.com/example/roomchat/domain/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func TestUserRepository_Create(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Username:  "alice",
		Password:  "secret",
		CreatedAt: time.Now(),
	}

	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var found domain.User
	if err := db.First(&found, "username = ?", "alice").Error; err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if found.Username != user.Username {
		t.Errorf("expected username %q, got %q", user.Username, found.Username)
	}
	if found.Password != user.Password {
		t.Errorf("expected password stored verbatim, got %q", found.Password)
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Username:  "alice",
		Password:  "secret",
		CreatedAt: time.Now(),
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Inserting the same username again hits the primary key constraint,
	// which the repository maps to ErrUserExists
	dup := &domain.User{
		Username:  "alice",
		Password:  "other",
		CreatedAt: time.Now(),
	}
	if err := repo.Create(dup); !errors.Is(err, ErrUserExists) {
		t.Errorf("Create() duplicate error = %v, want ErrUserExists", err)
	}

	// The first password survives
	found, err := repo.FindByUsername("alice")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if found.Password != "secret" {
		t.Errorf("password after duplicate create = %q, want %q", found.Password, "secret")
	}
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Username:  "bob",
		Password:  "hunter2",
		CreatedAt: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	found, err := repo.FindByUsername("bob")
	if err != nil {
		t.Fatalf("FindByUsername() error = %v", err)
	}
	if found.Password != "hunter2" {
		t.Errorf("FindByUsername() password = %q, want %q", found.Password, "hunter2")
	}

	_, err = repo.FindByUsername("nobody")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByUsername() error = %v, want ErrUserNotFound", err)
	}
}

func TestUserRepository_UsernameExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := &domain.User{
		Username:  "carol",
		Password:  "pw",
		CreatedAt: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	exists, err := repo.UsernameExists("carol")
	if err != nil {
		t.Fatalf("UsernameExists() error = %v", err)
	}
	if !exists {
		t.Error("UsernameExists(carol) = false, want true")
	}

	exists, err = repo.UsernameExists("nobody")
	if err != nil {
		t.Fatalf("UsernameExists() error = %v", err)
	}
	if exists {
		t.Error("UsernameExists(nobody) = true, want false")
	}
}
