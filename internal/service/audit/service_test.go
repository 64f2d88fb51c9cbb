package audit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebooker/carebooker-api/internal/model"
)

type fakeAuditRepo struct {
	entries []*model.AuditLog
}

func (f *fakeAuditRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) List(ctx context.Context, resource string, resourceID uuid.UUID) ([]*model.AuditLog, error) {
	var out []*model.AuditLog
	for _, e := range f.entries {
		if e.Resource == resource && e.ResourceID == resourceID {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestLogMarshalsChanges(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)

	actorID := uuid.New()
	resourceID := uuid.New()
	err := svc.Log(context.Background(), actorID, "status_change", "appointment", resourceID, map[string]string{
		"from": "pending",
		"to":   "confirmed",
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, actorID, repo.entries[0].ActorID)
	assert.JSONEq(t, `{"from":"pending","to":"confirmed"}`, string(repo.entries[0].Changes))
}

func TestHistoryScopedToResource(t *testing.T) {
	repo := &fakeAuditRepo{}
	svc := NewService(repo)

	actorID := uuid.New()
	apptID := uuid.New()
	require.NoError(t, svc.Log(context.Background(), actorID, "create", "appointment", apptID, nil))
	require.NoError(t, svc.Log(context.Background(), actorID, "create", "bill", uuid.New(), nil))

	entries, err := svc.History(context.Background(), "appointment", apptID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, apptID, entries[0].ResourceID)
}
