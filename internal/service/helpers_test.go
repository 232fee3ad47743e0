package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"mafia_web/internal/models"
	"mafia_web/internal/repository"
	"mafia_web/internal/storage"
	"mafia_web/internal/storage/storagetest"
	"mafia_web/internal/utils"
)

const testPassword = "secret123"

type recordingNotifier struct {
	mu     sync.Mutex
	events []LobbyEvent
}

func (n *recordingNotifier) Broadcast(event LobbyEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []LobbyEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]LobbyEvent(nil), n.events...)
}

type testEnv struct {
	db       *storage.Database
	repos    *repository.Repositories
	users    *UserService
	rooms    *RoomService
	roolSets *RoolSetService
	notifier *recordingNotifier
	tokens   *utils.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := storagetest.NewDB(t)
	repos := repository.NewRepositories(db)
	hasher := utils.NewBcryptHasher(bcrypt.MinCost)
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	notifier := &recordingNotifier{}
	log := zap.NewNop()

	env := &testEnv{
		db:       db,
		repos:    repos,
		users:    NewUserService(repos, hasher, tokens, log),
		rooms:    NewRoomService(repos, hasher, notifier, DefaultRoomLimits(), log),
		roolSets: NewRoolSetService(repos, DefaultPhaseLimits(), log),
		notifier: notifier,
		tokens:   tokens,
	}
	if err := env.roolSets.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()

	ctx := context.Background()
	_, err := e.users.Register(ctx, RegisterInput{
		Username:        username,
		Email:           fmt.Sprintf("%s@example.com", username),
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	user, err := e.repos.User.FindByUsername(ctx, username)
	if err != nil {
		t.Fatalf("find %s: %v", username, err)
	}
	return user
}

func (e *testEnv) roolSetID(t *testing.T, name string) uint {
	t.Helper()

	sets, err := e.roolSets.List(context.Background())
	if err != nil {
		t.Fatalf("list rool sets: %v", err)
	}
	for _, s := range sets {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("rool set %q not seeded", name)
	return 0
}

func (e *testEnv) createRoom(t *testing.T, creator *models.User, in CreateRoomInput) *RoomView {
	t.Helper()

	if in.RoolSetID == 0 {
		in.RoolSetID = e.roolSetID(t, "classic")
	}
	room, err := e.rooms.CreateRoom(context.Background(), creator.ID, in)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	return room
}

func intPtr(v int) *int { return &v }

func assertKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *service.Error, got %T: %v", err, err)
	}
	if svcErr.Kind != want {
		t.Fatalf("expected %s error, got %s (%s)", want, svcErr.Kind, svcErr.Message)
	}
}

func assertMessage(t *testing.T, err error, want string) {
	t.Helper()

	var svcErr *Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *service.Error, got %T: %v", err, err)
	}
	if svcErr.Message != want {
		t.Fatalf("expected message %q, got %q", want, svcErr.Message)
	}
}
