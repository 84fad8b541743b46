package repositories

import (
	"context"

	"kirana/internal/models"
)

// CartSessionStore mirrors cart lines so a session survives a restart.
// The in-memory cart remains the source of truth; implementations are
// written through on every mutation and read once at startup.
type CartSessionStore interface {
	Load(ctx context.Context, userID string) ([]models.CartLine, error)
	Save(ctx context.Context, userID string, line models.CartLine) error
	Remove(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
