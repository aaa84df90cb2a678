package handler

import (
	"context"

	"taskhub/internal/app/account"
	"taskhub/internal/app/chat"
	"taskhub/internal/app/storage"
	"taskhub/internal/app/task"
	"taskhub/internal/configs"
)

// AccountStore is the account persistence surface the auth handlers depend on.
type AccountStore interface {
	Create(ctx context.Context, username, passwordHash string) (account.Account, error)
	GetByUsername(ctx context.Context, username string) (account.Account, error)
}

// TaskStore is the task persistence surface the task handlers depend on.
type TaskStore interface {
	List(ctx context.Context, q task.ListQuery) ([]task.Task, task.Pagination, error)
	Create(ctx context.Context, title, description string) (task.Task, error)
	ApplyUpdate(ctx context.Context, id string, upd task.Update) (task.Task, error)
	Delete(ctx context.Context, id string) error
}

// AppDeps bundles the collaborators the handlers are wired with.
type AppDeps struct {
	Config   *configs.AppConfig
	Hub      *chat.Hub
	Accounts AccountStore
	Tasks    TaskStore
	Files    storage.FileStore
}
