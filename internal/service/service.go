package service

import (
	"go.uber.org/zap"

	"mafia_web/internal/repository"
)

// Options 建立服務層所需的外部依賴與限制
type Options struct {
	Hasher      PasswordHasher
	Tokens      TokenManager
	RoomLimits  RoomLimits
	PhaseLimits PhaseLimits
	Logger      *zap.Logger
}

type Services struct {
	User    *UserService
	Room    *RoomService
	RoolSet *RoolSetService
	Lobby   *LobbyHub
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	lobby := NewLobbyHub(log.Named("lobby"))
	return &Services{
		User:    NewUserService(repos, opts.Hasher, opts.Tokens, log.Named("user")),
		Room:    NewRoomService(repos, opts.Hasher, lobby, opts.RoomLimits, log.Named("room")),
		RoolSet: NewRoolSetService(repos, opts.PhaseLimits, log.Named("rool_set")),
		Lobby:   lobby,
	}
}
