package common

import (
	"context"
)

// Transactor runs fn inside a database transaction carried by ctx.
// Nested calls join the outer transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier records a notification as a side effect of another mutation.
type Notifier interface {
	Emit(ctx context.Context, event NotificationEvent) error
}

// MediaStore persists uploaded files and hands back an opaque reference.
type MediaStore interface {
	Save(ctx context.Context, ownerID uint64, upload *Upload) (string, error)
	Remove(ctx context.Context, ref string) error
}
