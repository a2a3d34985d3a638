package contract

import (
	"context"

	"hybrid-search-be/internal/entity"

	"github.com/google/uuid"
)

type MigrationRepository interface {
	Create(ctx context.Context, migration *entity.Migration) error
	Update(ctx context.Context, migration *entity.Migration) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Migration, error)
}
