package ground

import "context"

// Repository defines the persistence contract for grounds.
type Repository interface {
	// Insert persists a new ground and assigns its ID.
	Insert(ctx context.Context, g *Ground) error

	// FindByID retrieves a ground by its identifier.
	FindByID(ctx context.Context, id int64) (*Ground, error)

	// List retrieves grounds ordered by creation time descending.
	List(ctx context.Context, page, pageSize int) ([]*Ground, int64, error)
}
