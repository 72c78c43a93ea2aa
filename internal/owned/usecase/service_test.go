package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fittrack-backend/internal/owned/domain"
	"fittrack-backend/internal/owned/repository"
	"fittrack-backend/internal/testutil"
	"fittrack-backend/pkg/apperror"
	"fittrack-backend/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type entry struct {
	domain.Base
	Label string
	Score int
}

type recorder struct {
	mu      sync.Mutex
	changes []domain.Change
}

func (r *recorder) RecordChanged(_ context.Context, c domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func newEntryService(t *testing.T, loc *time.Location) (*Service[entry, *entry], *recorder) {
	repo := repository.New[entry, *entry](testutil.NewDB(t, &entry{}))
	rec := &recorder{}
	svc := NewService[entry, *entry](repo, Options[entry, *entry]{
		Kind: domain.Kind{Name: "entry", CategoryColumn: "label", CategoryParam: "label"},
		Validate: func(e *entry) error {
			if e.Score < 0 || e.Score > 100 {
				return apperror.Validation("score must be between 0 and 100")
			}
			return nil
		},
		Location:  loc,
		Observers: []domain.Observer{rec},
	})
	return svc, rec
}

func seed(t *testing.T, svc *Service[entry, *entry], owner, label string, created time.Time) *entry {
	t.Helper()
	e := &entry{Label: label}
	e.CreatedAt = created
	out, err := svc.Create(context.Background(), owner, e)
	require.NoError(t, err)
	return out
}

func TestServiceCreateValidates(t *testing.T) {
	svc, rec := newEntryService(t, nil)

	_, err := svc.Create(context.Background(), "alice", &entry{Score: 101})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Empty(t, rec.changes)

	_, err = svc.Create(context.Background(), "", &entry{})
	assert.True(t, apperror.IsKind(err, apperror.KindAuthentication))
}

func TestServiceGetForeignIsNotFound(t *testing.T) {
	svc, _ := newEntryService(t, nil)
	bobs := seed(t, svc, "bob", "x", time.Now().UTC())

	_, err := svc.Get(context.Background(), "alice", bobs.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()
	svc, rec := newEntryService(t, nil)
	e := seed(t, svc, "alice", "x", time.Now().UTC())

	_, err := svc.Update(ctx, "bob", e.ID, func(e *entry) error { e.Score = 5; return nil })
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Update(ctx, "alice", e.ID, func(e *entry) error { e.Score = 500; return nil })
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	updated, err := svc.Update(ctx, "alice", e.ID, func(e *entry) error { e.Score = 50; return nil })
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Score)

	require.Len(t, rec.changes, 2)
	assert.Equal(t, domain.ActionUpdate, rec.changes[1].Action)
	assert.Equal(t, "entry", rec.changes[1].Kind)
}

func TestServiceDeleteForeignIsForbidden(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEntryService(t, nil)
	e := seed(t, svc, "alice", "x", time.Now().UTC())

	assert.ErrorIs(t, svc.Delete(ctx, "bob", e.ID), apperror.ErrForbidden)
	assert.NoError(t, svc.Delete(ctx, "alice", e.ID))
	assert.ErrorIs(t, svc.Delete(ctx, "alice", e.ID), apperror.ErrNotFound)
}

func TestServiceDeleteAllIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEntryService(t, nil)
	seed(t, svc, "alice", "x", time.Now().UTC())
	seed(t, svc, "alice", "y", time.Now().UTC())

	n, err := svc.DeleteAll(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = svc.DeleteAll(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	left, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestServiceDeleteByDateValidation(t *testing.T) {
	svc, _ := newEntryService(t, nil)

	_, err := svc.DeleteByDate(context.Background(), "alice", "")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.DeleteByDate(context.Background(), "alice", "2025-13-45")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestServiceDeleteByDateUsesReferenceZone(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*60*60)
	svc, _ := newEntryService(t, loc)

	// 22:00 UTC on Dec 31 is already Jan 1 in UTC+3.
	lateNewYearsEve := seed(t, svc, "alice", "x", time.Date(2024, 12, 31, 22, 0, 0, 0, time.UTC))
	seed(t, svc, "alice", "x", time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	kept := seed(t, svc, "alice", "x", time.Date(2025, 1, 1, 21, 30, 0, 0, time.UTC)) // Jan 2 local
	seed(t, svc, "bob", "x", time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))

	n, err := svc.DeleteByDate(ctx, "alice", "2025-01-01")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	left, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, kept.ID, left[0].ID)
	assert.NotEqual(t, lateNewYearsEve.ID, left[0].ID)

	bob, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob, 1)
}

func TestServiceDeleteByCategory(t *testing.T) {
	ctx := context.Background()
	svc, rec := newEntryService(t, nil)
	seed(t, svc, "alice", "cardio", time.Now().UTC())
	seed(t, svc, "alice", "strength", time.Now().UTC())
	seed(t, svc, "bob", "cardio", time.Now().UTC())

	_, err := svc.DeleteByCategory(ctx, "alice", "")
	require.Error(t, err)
	assert.Equal(t, "label parameter is required", apperror.PublicMessage(err))

	n, err := svc.DeleteByCategory(ctx, "alice", "cardio")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	last := rec.changes[len(rec.changes)-1]
	assert.Equal(t, domain.ActionDeleteByCategory, last.Action)
	assert.EqualValues(t, 1, last.Count)
	assert.Empty(t, last.RecordID)

	bob, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, bob, 1)
}

type chanPublisher struct {
	events chan events.RecordEvent
}

func (p *chanPublisher) Publish(_ context.Context, e events.RecordEvent) error {
	p.events <- e
	return nil
}

func (p *chanPublisher) Close() error { return nil }

func TestEventObserverPublishes(t *testing.T) {
	pub := &chanPublisher{events: make(chan events.RecordEvent, 1)}
	obs := NewEventObserver(pub, zap.NewNop())
	t.Cleanup(func() { _ = obs.Close(context.Background()) })

	obs.RecordChanged(context.Background(), domain.Change{
		Kind: "workout", Action: domain.ActionDeleteAll, UserID: "alice", Count: 3,
	})

	select {
	case e := <-pub.events:
		assert.Equal(t, "workout", e.Kind)
		assert.Equal(t, "delete_all", e.Action)
		assert.EqualValues(t, 3, e.Count)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not published")
	}
}

type slicePublisher struct {
	mu     sync.Mutex
	delay  time.Duration
	events []events.RecordEvent
}

func (p *slicePublisher) Publish(_ context.Context, e events.RecordEvent) error {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *slicePublisher) Close() error { return nil }

func (p *slicePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action+":"+e.RecordID)
	}
	return out
}

func TestEventObserverPreservesCommitOrder(t *testing.T) {
	pub := &slicePublisher{}
	obs := NewEventObserver(pub, zap.NewNop())
	ctx := context.Background()

	var want []string
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("w%d", i)
		obs.RecordChanged(ctx, domain.Change{Kind: "workout", Action: domain.ActionCreate, UserID: "alice", RecordID: id})
		obs.RecordChanged(ctx, domain.Change{Kind: "workout", Action: domain.ActionDelete, UserID: "alice", RecordID: id})
		want = append(want, "create:"+id, "delete:"+id)
	}

	require.NoError(t, obs.Close(ctx))
	assert.Equal(t, want, pub.actions())
}

func TestEventObserverCloseDrainsQueue(t *testing.T) {
	pub := &slicePublisher{delay: 5 * time.Millisecond}
	obs := NewEventObserver(pub, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		obs.RecordChanged(ctx, domain.Change{Kind: "goal", Action: domain.ActionUpdate, UserID: "alice"})
	}
	require.NoError(t, obs.Close(ctx))
	assert.Len(t, pub.actions(), 10)

	// changes after Close are dropped rather than panicking on a closed queue
	obs.RecordChanged(ctx, domain.Change{Kind: "goal", Action: domain.ActionUpdate, UserID: "alice"})
	require.NoError(t, obs.Close(ctx))
	assert.Len(t, pub.actions(), 10)
}

func TestEventObserverCloseHonoursDeadline(t *testing.T) {
	pub := &slicePublisher{delay: 200 * time.Millisecond}
	obs := NewEventObserver(pub, zap.NewNop())
	obs.RecordChanged(context.Background(), domain.Change{Kind: "goal", Action: domain.ActionUpdate, UserID: "alice"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, obs.Close(ctx), context.DeadlineExceeded)
	require.NoError(t, obs.Close(context.Background()))
}
