package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mafia_web/internal/models"
	"mafia_web/internal/storage"
	"mafia_web/internal/storage/storagetest"
)

type fixture struct {
	db      *storage.Database
	repos   *Repositories
	creator *models.User
	member  *models.User
	room    *models.Room
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := storagetest.NewDB(t)
	repos := NewRepositories(db)

	creator := &models.User{Username: "creator", Email: "creator@example.com", Password: "x", Role: models.RoleUser}
	member := &models.User{Username: "member", Email: "member@example.com", Password: "x", Role: models.RoleUser}
	for _, u := range []*models.User{creator, member} {
		if err := repos.User.Create(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}

	set := &models.RoolSet{Name: "classic", MafiaPercent: 25, AllowSheriff: true, DayDurationMinutes: 10, NightDurationMinutes: 5}
	if err := repos.RoolSet.EnsureRoolSet(ctx, set); err != nil {
		t.Fatalf("create rool set: %v", err)
	}

	room := &models.Room{
		CreatorID:   creator.ID,
		Type:        models.RoomTypePublic,
		RoolSetID:   set.ID,
		JoinCode:    uuid.New(),
		PlayerLimit: models.DefaultPlayerLimit,
	}
	if err := repos.Room.Create(ctx, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	return &fixture{db: db, repos: repos, creator: creator, member: member, room: room}
}

func TestMembershipUniquePairIsTranslated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: f.member.ID, RoomID: f.room.ID}); err != nil {
		t.Fatalf("first membership: %v", err)
	}
	err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: f.member.ID, RoomID: f.room.ID})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestDeletingRoomCascadesMemberships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, u := range []*models.User{f.creator, f.member} {
		if err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: u.ID, RoomID: f.room.ID, IsCreator: u.ID == f.creator.ID}); err != nil {
			t.Fatalf("membership: %v", err)
		}
	}

	if err := f.db.Delete(&models.Room{}, f.room.ID).Error; err != nil {
		t.Fatalf("delete room: %v", err)
	}

	count, err := f.repos.Membership.CountByRoom(ctx, f.room.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected memberships to be deleted, got %d", count)
	}
}

func TestDeletingCreatorCascadesRooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: f.member.ID, RoomID: f.room.ID}); err != nil {
		t.Fatalf("membership: %v", err)
	}
	if err := f.db.Delete(&models.User{}, f.creator.ID).Error; err != nil {
		t.Fatalf("delete creator: %v", err)
	}

	_, err := f.repos.Room.FindByJoinCode(ctx, f.room.JoinCode)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected room to be deleted with its creator, got %v", err)
	}
	exists, err := f.repos.Membership.Exists(ctx, f.member.ID, f.room.ID)
	if err != nil || exists {
		t.Fatalf("expected membership to be deleted, got %v, %v", exists, err)
	}
}

func TestPlayerLimitCheckConstraint(t *testing.T) {
	f := newFixture(t)

	room := &models.Room{
		CreatorID:   f.creator.ID,
		Type:        models.RoomTypePublic,
		RoolSetID:   f.room.RoolSetID,
		JoinCode:    uuid.New(),
		PlayerLimit: models.MinPlayerLimit - 1,
	}
	if err := f.repos.Room.Create(context.Background(), room); err == nil {
		t.Fatalf("expected check constraint violation")
	}
}

func TestListMembersAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: f.creator.ID, RoomID: f.room.ID, IsCreator: true}); err != nil {
		t.Fatalf("membership: %v", err)
	}
	if err := f.repos.Membership.Create(ctx, &models.UserRoom{UserID: f.member.ID, RoomID: f.room.ID}); err != nil {
		t.Fatalf("membership: %v", err)
	}

	members, err := f.repos.Membership.ListMembers(ctx, f.room.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 || members[0].Username != "creator" || !members[0].IsCreator || members[1].IsCreator {
		t.Fatalf("unexpected members: %+v", members)
	}

	counts, err := f.repos.Membership.CountByRooms(ctx, []uint{f.room.ID, f.room.ID + 100})
	if err != nil {
		t.Fatalf("count by rooms: %v", err)
	}
	if counts[f.room.ID] != 2 || counts[f.room.ID+100] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestTransactionRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.repos.Transaction(ctx, func(tx *Repositories) error {
		if err := tx.Membership.Create(ctx, &models.UserRoom{UserID: f.member.ID, RoomID: f.room.ID}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	exists, err := f.repos.Membership.Exists(ctx, f.member.ID, f.room.ID)
	if err != nil || exists {
		t.Fatalf("expected rollback, got exists=%v err=%v", exists, err)
	}
}

func TestAttachRolesIgnoresDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	role := &models.GameRole{Name: "mafia", IsMafia: true}
	if err := f.repos.RoolSet.EnsureGameRole(ctx, role); err != nil {
		t.Fatalf("ensure role: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := f.repos.RoolSet.AttachRoles(ctx, f.room.RoolSetID, role.ID); err != nil {
			t.Fatalf("attach %d: %v", i, err)
		}
	}

	roles, err := f.repos.RoolSet.GameRoles(ctx, f.room.RoolSetID)
	if err != nil {
		t.Fatalf("game roles: %v", err)
	}
	if got := roles[f.room.RoolSetID]; len(got) != 1 || got[0].Name != "mafia" || !got[0].IsMafia {
		t.Fatalf("unexpected roles: %+v", got)
	}
}
