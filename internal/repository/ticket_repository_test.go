package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util/errorutil"
)

func newTicket(id string) *domain.Ticket {
	return &domain.Ticket{
		ID:       id,
		Title:    domain.UntitledTicketName,
		Unit:     "101",
		Priority: domain.TicketPriorityMedium,
		Status:   domain.TicketStatusPending,
		Category: domain.DefaultCategory,
		History: []domain.HistoryItem{{
			ID:     id + "-h0",
			Date:   time.Now(),
			Action: domain.ActionTicketCreated,
			User:   "Admin",
		}},
	}
}

func TestTicketStore_InsertPrependsNewest(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()

	require.NoError(t, store.Insert(ctx, newTicket("a")))
	require.NoError(t, store.Insert(ctx, newTicket("b")))

	list := store.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestTicketStore_InsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()

	require.NoError(t, store.Insert(ctx, newTicket("a")))
	err := store.Insert(ctx, newTicket("a"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	assert.Len(t, store.List(ctx), 1)
}

func TestTicketStore_InsertRequiresHistory(t *testing.T) {
	ticket := newTicket("a")
	ticket.History = nil

	err := NewTicketStore().Insert(context.Background(), ticket)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestTicketStore_UpdateMergesPatchAndPrependsHistory(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()
	require.NoError(t, store.Insert(ctx, newTicket("a")))

	status := domain.TicketStatusInProgress
	result, ok := store.Update(ctx, "a", TicketPatch{Status: &status}, domain.HistoryItem{ID: "h1", Action: "first"})
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusPending, result.PreviousStatus)
	updated := result.Ticket
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Equal(t, "101", updated.Unit)
	assert.Empty(t, updated.AssignedTo)

	staff := "CleanCo"
	result, ok = store.Update(ctx, "a", TicketPatch{AssignedTo: &staff}, domain.HistoryItem{ID: "h2", Action: "second"})
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusInProgress, result.PreviousStatus)
	assert.Empty(t, result.PreviousAssignee)
	updated = result.Ticket
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.Equal(t, "CleanCo", updated.AssignedTo)

	require.Len(t, updated.History, 3)
	assert.Equal(t, "second", updated.History[0].Action)
	assert.Equal(t, "first", updated.History[1].Action)
	assert.Equal(t, domain.ActionTicketCreated, updated.History[2].Action)
}

func TestTicketStore_UpdateUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()
	require.NoError(t, store.Insert(ctx, newTicket("a")))

	status := domain.TicketStatusCompleted
	result, ok := store.Update(ctx, "missing", TicketPatch{Status: &status}, domain.HistoryItem{Action: "x"})
	assert.False(t, ok)
	assert.Nil(t, result.Ticket)

	stored, found := store.GetByID(ctx, "a")
	require.True(t, found)
	assert.Equal(t, domain.TicketStatusPending, stored.Status)
	assert.Len(t, stored.History, 1)
}

func TestTicketStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()
	require.NoError(t, store.Insert(ctx, newTicket("a")))

	got, ok := store.GetByID(ctx, "a")
	require.True(t, ok)
	got.Status = domain.TicketStatusCompleted
	got.History[0].Action = "tampered"

	again, _ := store.GetByID(ctx, "a")
	assert.Equal(t, domain.TicketStatusPending, again.Status)
	assert.Equal(t, domain.ActionTicketCreated, again.History[0].Action)
}

func TestTicketStore_ConcurrentUpdatesReportTheValueTheyReplaced(t *testing.T) {
	ctx := context.Background()
	store := NewTicketStore()
	require.NoError(t, store.Insert(ctx, newTicket("a")))

	const writers = 20
	var (
		mu   sync.Mutex
		next = map[string]string{}
		wg   sync.WaitGroup
	)
	for i := 0; i < writers; i++ {
		staff := fmt.Sprintf("staff-%02d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, ok := store.Update(ctx, "a", TicketPatch{AssignedTo: &staff}, domain.HistoryItem{Action: "assign"})
			if !assert.True(t, ok) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			_, dup := next[result.PreviousAssignee]
			assert.False(t, dup, "%q replaced twice", result.PreviousAssignee)
			next[result.PreviousAssignee] = result.Ticket.AssignedTo
		}()
	}
	wg.Wait()

	// Following previous->new from the empty assignee must visit every write.
	current := ""
	for i := 0; i < writers; i++ {
		following, ok := next[current]
		require.True(t, ok, "chain broken after %d steps", i)
		current = following
	}
	stored, _ := store.GetByID(ctx, "a")
	assert.Equal(t, current, stored.AssignedTo)
}
