package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mafia_web/internal/metric"
	"mafia_web/internal/models"
	"mafia_web/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// RoomLimits 房間人數的下限、預設值與上限
type RoomLimits struct {
	Min     int
	Default int
	Max     int
}

func DefaultRoomLimits() RoomLimits {
	return RoomLimits{
		Min:     models.MinPlayerLimit,
		Default: models.DefaultPlayerLimit,
		Max:     models.MaxPlayerLimit,
	}
}

// CreateRoomInput 建立房間的參數，Password 為空字串代表未提供，PlayerLimit 為 nil 時使用預設值
type CreateRoomInput struct {
	Type        string
	RoolSetID   uint
	Password    string
	PlayerLimit *int
}

type RoomView struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	RoolSetID   uint      `json:"rool_set_id"`
	JoinCode    string    `json:"join_code"`
	PlayerLimit int       `json:"player_limit"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RoomSummary struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	RoolSetID   uint      `json:"rool_set_id"`
	JoinCode    string    `json:"join_code"`
	PlayerLimit int       `json:"player_limit"`
	PlayerCount int64     `json:"player_count"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type PlayerView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	IsCreator bool   `json:"is_creator"`
}

type RoomDetail struct {
	ID          uint         `json:"id"`
	Type        string       `json:"type"`
	JoinCode    string       `json:"join_code"`
	PlayerLimit int          `json:"player_limit"`
	Status      string       `json:"status"`
	RoolSet     RoolSetView  `json:"rool_set"`
	PlayerCount int64        `json:"player_count"`
	Players     []PlayerView `json:"players"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// LobbyNotifier 接收房間成員變動的事件
type LobbyNotifier interface {
	Broadcast(event LobbyEvent)
}

type RoomService struct {
	repos    *repository.Repositories
	hasher   PasswordHasher
	notifier LobbyNotifier
	limits   RoomLimits
	log      *zap.Logger
}

// NewRoomService notifier 可為 nil，此時不推送大廳事件
func NewRoomService(repos *repository.Repositories, hasher PasswordHasher, notifier LobbyNotifier, limits RoomLimits, log *zap.Logger) *RoomService {
	return &RoomService{
		repos:    repos,
		hasher:   hasher,
		notifier: notifier,
		limits:   limits,
		log:      log,
	}
}

func newRoomView(room *models.Room) *RoomView {
	return &RoomView{
		ID:          room.ID,
		Type:        string(room.Type),
		RoolSetID:   room.RoolSetID,
		JoinCode:    room.JoinCode.String(),
		PlayerLimit: room.PlayerLimit,
		CreatedAt:   room.CreatedAt,
		UpdatedAt:   room.UpdatedAt,
	}
}

// parseJoinCode 格式錯誤的邀請碼視同房間不存在
func parseJoinCode(joinCode string) (uuid.UUID, error) {
	code, err := uuid.Parse(joinCode)
	if err != nil {
		return uuid.Nil, NotFoundError("room not found")
	}
	return code, nil
}

func roomLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError("room not found")
	}
	return fmt.Errorf("find room: %w", err)
}

// CreateRoom 建立房間；建立者不會自動加入，須另外呼叫 JoinRoom
func (s *RoomService) CreateRoom(ctx context.Context, callerID uint, in CreateRoomInput) (*RoomView, error) {
	roomType := models.RoomType(in.Type)
	if in.Type == "" {
		roomType = models.RoomTypePublic
	}
	if !roomType.Valid() {
		return nil, ValidationError("invalid room type %q", in.Type)
	}
	if roomType == models.RoomTypePrivate && in.Password == "" {
		return nil, ValidationError("password required for private room")
	}

	playerLimit := s.limits.Default
	if in.PlayerLimit != nil {
		playerLimit = *in.PlayerLimit
	}
	if playerLimit > s.limits.Max {
		return nil, ValidationError("player_limit must be at most %d", s.limits.Max)
	}
	if playerLimit < s.limits.Min {
		return nil, ValidationError("player_limit must be at least %d", s.limits.Min)
	}

	room := &models.Room{
		CreatorID:   callerID,
		Type:        roomType,
		RoolSetID:   in.RoolSetID,
		JoinCode:    uuid.New(),
		PlayerLimit: playerLimit,
	}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.RoolSet.FindByID(ctx, in.RoolSetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("rool set not found")
			}
			return fmt.Errorf("find rool set: %w", err)
		}

		if in.Password != "" {
			hashed, err := s.hasher.Hash(in.Password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			room.Password = &hashed
		}

		return tx.Room.Create(ctx, room)
	})
	if err != nil {
		return nil, err
	}

	metric.RecordRoomCreated(string(room.Type))
	s.log.Info("room created",
		zap.Uint("room_id", room.ID),
		zap.Uint("creator_id", callerID),
		zap.String("type", string(room.Type)),
	)
	return newRoomView(room), nil
}

// JoinRoom 將呼叫者加入房間
//
// 檢查順序：房間存在、尚未加入、建立者直接加入、私人房間密碼、人數上限。
// 整個流程在同一個交易中進行並鎖定房間資料列，同一房間的並行加入會依序執行。
func (s *RoomService) JoinRoom(ctx context.Context, callerID uint, joinCode, password string) (err error) {
	defer func() { metric.RecordJoin(joinResult(err)) }()

	code, err := parseJoinCode(joinCode)
	if err != nil {
		return err
	}

	var event LobbyEvent
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByJoinCodeForUpdate(ctx, code)
		if err != nil {
			return roomLookupError(err)
		}

		joined, err := tx.Membership.Exists(ctx, callerID, room.ID)
		if err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if joined {
			return ConflictError("already joined")
		}

		isCreator := room.CreatorID == callerID
		if !isCreator {
			if err := s.checkJoinPolicy(ctx, tx, room, password); err != nil {
				return err
			}
		}

		membership := &models.UserRoom{UserID: callerID, RoomID: room.ID, IsCreator: isCreator}
		if err := tx.Membership.Create(ctx, membership); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ConflictError("already joined")
			}
			return fmt.Errorf("create membership: %w", err)
		}

		count, err := tx.Membership.CountByRoom(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		caller, err := tx.User.FindByID(ctx, callerID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}

		event = LobbyEvent{
			Type:        EventPlayerJoined,
			RoomID:      room.ID,
			UserID:      callerID,
			Username:    caller.Username,
			PlayerCount: count,
			Timestamp:   time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Broadcast(event)
	}
	return nil
}

// checkJoinPolicy 非建立者加入時檢查密碼與人數上限
func (s *RoomService) checkJoinPolicy(ctx context.Context, tx *repository.Repositories, room *models.Room, password string) error {
	if room.Type == models.RoomTypePrivate {
		if password == "" {
			return ValidationError("password required")
		}
		if room.Password == nil {
			return ValidationError("incorrect password")
		}
		ok, err := s.hasher.Verify(password, *room.Password)
		if err != nil {
			return fmt.Errorf("verify password: %w", err)
		}
		if !ok {
			return ValidationError("incorrect password")
		}
	}

	count, err := tx.Membership.CountByRoom(ctx, room.ID)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count >= int64(room.PlayerLimit) {
		return ValidationError("room full")
	}
	return nil
}

func joinResult(err error) string {
	if err == nil {
		return "success"
	}
	if kind := KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}

// GetRoom 取得房間詳細資料，僅限成員或建立者
func (s *RoomService) GetRoom(ctx context.Context, callerID uint, joinCode string) (*RoomDetail, error) {
	code, err := parseJoinCode(joinCode)
	if err != nil {
		return nil, err
	}

	var detail *RoomDetail
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByJoinCodeWithRoolSet(ctx, code)
		if err != nil {
			return roomLookupError(err)
		}

		members, err := tx.Membership.ListMembers(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		if !canView(room, members, callerID) {
			return AuthorizationError("cannot view this room")
		}

		roles, err := tx.RoolSet.GameRoles(ctx, room.RoolSetID)
		if err != nil {
			return fmt.Errorf("load game roles: %w", err)
		}

		// 成員數以獨立的 COUNT 查詢為準
		count, err := tx.Membership.CountByRoom(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}

		players := make([]PlayerView, 0, len(members))
		for _, m := range members {
			players = append(players, PlayerView{ID: m.UserID, Username: m.Username, IsCreator: m.IsCreator})
		}

		detail = &RoomDetail{
			ID:          room.ID,
			Type:        string(room.Type),
			JoinCode:    room.JoinCode.String(),
			PlayerLimit: room.PlayerLimit,
			Status:      string(models.StatusFor(count, room.PlayerLimit)),
			RoolSet:     newRoolSetView(&room.RoolSet, roles[room.RoolSetID]),
			PlayerCount: count,
			Players:     players,
			CreatedAt:   room.CreatedAt,
			UpdatedAt:   room.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func canView(room *models.Room, members []repository.Member, callerID uint) bool {
	if room.CreatorID == callerID {
		return true
	}
	for _, m := range members {
		if m.UserID == callerID {
			return true
		}
	}
	return false
}

// ListPublicRooms 列出公開房間，私人房間不會出現在列表中
func (s *RoomService) ListPublicRooms(ctx context.Context, limit, offset int) ([]RoomSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		return nil, ValidationError("offset must not be negative")
	}

	rooms, err := s.repos.Room.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	ids := make([]uint, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	counts, err := s.repos.Membership.CountByRooms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		count := counts[r.ID]
		summaries = append(summaries, RoomSummary{
			ID:          r.ID,
			Type:        string(r.Type),
			RoolSetID:   r.RoolSetID,
			JoinCode:    r.JoinCode.String(),
			PlayerLimit: r.PlayerLimit,
			PlayerCount: count,
			Status:      string(models.StatusFor(count, r.PlayerLimit)),
			CreatedAt:   r.CreatedAt,
		})
	}
	return summaries, nil
}

// AuthorizeLobby 確認呼叫者可以連線到房間大廳，回傳房間 ID
func (s *RoomService) AuthorizeLobby(ctx context.Context, callerID uint, joinCode string) (uint, error) {
	code, err := parseJoinCode(joinCode)
	if err != nil {
		return 0, err
	}

	room, err := s.repos.Room.FindByJoinCode(ctx, code)
	if err != nil {
		return 0, roomLookupError(err)
	}
	if room.CreatorID == callerID {
		return room.ID, nil
	}

	member, err := s.repos.Membership.Exists(ctx, callerID, room.ID)
	if err != nil {
		return 0, fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return 0, AuthorizationError("cannot view this room")
	}
	return room.ID, nil
}
