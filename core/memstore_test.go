package core

import (
	"context"
	"errors"
	"sort"
	"time"

	"Gin_postgres_redis_material_tracker/models"
)

// memStore is an in-memory Store for engine tests. Atomically works on a
// clone of the state and swaps it in on success, which gives the tests real
// rollback semantics for the storage-failure cases.
type memStore struct {
	state *memState

	// fault injection
	failHistory          bool
	conflictOnTransition bool
	afterLock            func(tx *memStore)
}

type memState struct {
	items    map[string]models.Item
	requests map[string]models.PendingRequest
	history  []models.HistoryEntry
	users    map[string]models.User
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		items:    map[string]models.Item{},
		requests: map[string]models.PendingRequest{},
		users:    map[string]models.User{},
	}}
}

func strptr(s string) *string { return &s }

func (st *memState) clone() *memState {
	out := &memState{
		items:    make(map[string]models.Item, len(st.items)),
		requests: make(map[string]models.PendingRequest, len(st.requests)),
		history:  append([]models.HistoryEntry(nil), st.history...),
		users:    make(map[string]models.User, len(st.users)),
	}
	for k, v := range st.items {
		v.LastUsedBy = copyStatus(v.LastUsedBy)
		v.ChangedBy = copyStatus(v.ChangedBy)
		v.ArchivedReason = copyStatus(v.ArchivedReason)
		if v.ArchivedAt != nil {
			t := *v.ArchivedAt
			v.ArchivedAt = &t
		}
		out.items[k] = v
	}
	for k, v := range st.requests {
		out.requests[k] = v
	}
	for k, v := range st.users {
		out.users[k] = v
	}
	return out
}

func (m *memStore) Atomically(_ context.Context, fn func(Store) error) error {
	work := &memStore{
		state:                m.state.clone(),
		failHistory:          m.failHistory,
		conflictOnTransition: m.conflictOnTransition,
		afterLock:            m.afterLock,
	}
	if err := fn(work); err != nil {
		return err
	}
	m.state = work.state
	return nil
}

func (m *memStore) CreateItem(_ context.Context, it *models.Item) error {
	for _, existing := range m.state.items {
		if existing.Serial == it.Serial {
			return ErrDuplicateSerial
		}
	}
	it.CreatedAt = time.Now().UTC()
	it.UpdatedAt = it.CreatedAt
	m.state.items[it.ID] = *it
	return nil
}

func (m *memStore) FindItemByID(_ context.Context, id string) (*models.Item, error) {
	it, ok := m.state.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (m *memStore) LockItemByID(ctx context.Context, id string) (*models.Item, error) {
	if m.afterLock != nil {
		hook := m.afterLock
		m.afterLock = nil
		hook(m)
	}
	return m.FindItemByID(ctx, id)
}

func (m *memStore) UpdateItemFields(_ context.Context, id string, patch map[string]any, changedBy string) (*models.Item, error) {
	it, ok := m.state.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v, ok := patch["material"]; ok {
		it.Material = v.(string)
	}
	if v, ok := patch["description"]; ok {
		it.Description = v.(string)
	}
	it.ChangedBy = strptr(changedBy)
	it.UpdatedAt = time.Now().UTC()
	m.state.items[id] = it
	return &it, nil
}

func (m *memStore) TransitionItemStatus(_ context.Context, id, fromStatus, toStatus, changedBy string, lastUsedBy, archivedReason *string) (*models.Item, error) {
	if m.conflictOnTransition {
		return nil, ErrStatusConflict
	}
	it, ok := m.state.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	if it.Status != fromStatus {
		return nil, ErrStatusConflict
	}
	now := time.Now().UTC()
	it.Status = toStatus
	it.LastUsedBy = copyStatus(lastUsedBy)
	it.ChangedBy = strptr(changedBy)
	it.UpdatedAt = now
	switch {
	case toStatus == models.StatusArchived:
		it.ArchivedReason = copyStatus(archivedReason)
		it.ArchivedAt = &now
	case fromStatus == models.StatusArchived:
		it.ArchivedReason = nil
		it.ArchivedAt = nil
	}
	m.state.items[id] = it
	return &it, nil
}

func (m *memStore) FindRequestByID(_ context.Context, id string) (*models.PendingRequest, error) {
	req, ok := m.state.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &req, nil
}

func (m *memStore) ListOpenRequestsForItem(_ context.Context, itemID string) ([]models.PendingRequest, error) {
	var out []models.PendingRequest
	for _, req := range m.state.requests {
		if req.ItemID == itemID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (m *memStore) HasOpenRequest(_ context.Context, itemID, userID, reqType string) (bool, error) {
	for _, req := range m.state.requests {
		if req.ItemID == itemID && req.RequestedBy == userID && req.Type == reqType {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) EnqueueRequest(_ context.Context, req *models.PendingRequest) error {
	for _, existing := range m.state.requests {
		if existing.ItemID == req.ItemID && existing.RequestedBy == req.RequestedBy && existing.Type == req.Type {
			return ErrDuplicateRequest
		}
	}
	m.state.requests[req.ID] = *req
	return nil
}

func (m *memStore) RemoveAllRequestsForItem(_ context.Context, itemID string) error {
	for id, req := range m.state.requests {
		if req.ItemID == itemID {
			delete(m.state.requests, id)
		}
	}
	return nil
}

func (m *memStore) RemoveRequest(_ context.Context, id string) error {
	delete(m.state.requests, id)
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, entry *models.HistoryEntry) error {
	if m.failHistory {
		return errors.New("history storage unavailable")
	}
	entry.CreatedAt = time.Now().UTC()
	m.state.history = append(m.state.history, *entry)
	return nil
}

func (m *memStore) ListHistoryForItem(_ context.Context, itemID string) ([]models.HistoryEntry, error) {
	var out []models.HistoryEntry
	for i := len(m.state.history) - 1; i >= 0; i-- {
		if m.state.history[i].ItemID == itemID {
			out = append(out, m.state.history[i])
		}
	}
	return out, nil
}

func (m *memStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.state.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *memStore) addUser(id, username, role string) {
	m.state.users[id] = models.User{
		ID: id, Username: username, DisplayName: username,
		Role: role, Status: models.UserActive,
	}
}

func (m *memStore) addItem(id, serial, status string, lastUsedBy *string) {
	m.state.items[id] = models.Item{
		ID: id, Serial: serial, Material: "impact driver",
		Status: status, LastUsedBy: copyStatus(lastUsedBy),
	}
}

func (m *memStore) historyFor(itemID string) []models.HistoryEntry {
	hs, _ := m.ListHistoryForItem(context.Background(), itemID)
	return hs
}

func (m *memStore) openRequests(itemID string) []models.PendingRequest {
	rs, _ := m.ListOpenRequestsForItem(context.Background(), itemID)
	return rs
}
