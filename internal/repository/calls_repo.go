package repository

import (
	"context"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
)

// MessagesRepository persists text messages.
type MessagesRepository interface {
	SendableRepository[domain.Message]
}

// CallsRepository extends the sendable surface with state counting for the
// metrics gauges.
type CallsRepository interface {
	SendableRepository[domain.Call]
	CountCallsByState(ctx context.Context) (map[domain.CallState]int, error)
}
