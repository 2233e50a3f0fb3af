package handler

import (
	"chatsync/internal/app/conn"
	"chatsync/internal/app/session"
	"chatsync/internal/app/user"
	"chatsync/internal/configs"
	"chatsync/internal/pkg/limiter"
)

// SessionService is the part of *session.Session the inspector reads and drives.
type SessionService interface {
	Username() string
	State() session.State
	Roster() []user.Profile
	FeedView() []session.FeedEntry
	Submit(input string) error
}

// ConnStatus reports the connection lifecycle. *conn.Conn satisfies it.
type ConnStatus interface {
	State() conn.State
	URL() string
}

type AppDeps struct {
	Session     SessionService
	Conn        ConnStatus
	Config      *configs.AppConfig
	PostLimiter *limiter.KeyedLimiter
}
