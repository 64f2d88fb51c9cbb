package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/carebooker/carebooker-api/internal/model"
	"github.com/carebooker/carebooker-api/internal/repository"
)

type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Log creates an audit log entry. Failures are returned but callers treat
// auditing as best-effort and do not abort the operation over it.
func (s *Service) Log(ctx context.Context, actorID uuid.UUID, action, resource string, resourceID uuid.UUID, changes interface{}) error {
	var payload json.RawMessage
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			return err
		}
		payload = data
	}

	entry := &model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Changes:    payload,
	}

	return s.repo.Create(ctx, entry)
}

func (s *Service) History(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, resource, resourceID)
}
