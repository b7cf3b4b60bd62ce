package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sukalov/cifrabot/internal/logger"
	"github.com/sukalov/cifrabot/internal/users"
)

// Store persists chat states between restarts
type Store interface {
	LoadSessions(ctx context.Context) ([]users.UserState, error)
	SaveSession(ctx context.Context, state users.UserState) error
	DeleteSession(ctx context.Context, chatID int64) error
}

type StateManager struct {
	mu     sync.RWMutex
	states map[int64]users.UserState
	store  Store
	now    func() time.Time
}

type ByTimeUpdated []users.UserState

func (a ByTimeUpdated) Len() int           { return len(a) }
func (a ByTimeUpdated) Less(i, j int) bool { return a[i].UpdatedAt.Before(a[j].UpdatedAt) }
func (a ByTimeUpdated) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }

// NewStateManager keeps states in memory and mirrors them to store when it is not nil
func NewStateManager(store Store) *StateManager {
	return &StateManager{
		states: map[int64]users.UserState{},
		store:  store,
		now:    time.Now,
	}
}

func (sm *StateManager) Init(ctx context.Context) error {
	if sm.store == nil {
		return nil
	}
	list, err := sm.store.LoadSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, s := range list {
		sm.states[s.ChatID] = s
	}
	return nil
}

func (sm *StateManager) Get(chatID int64) (users.UserState, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	s, ok := sm.states[chatID]
	return s, ok
}

// Set replaces the state of a chat. The in-memory copy is kept even if the store fails.
func (sm *StateManager) Set(ctx context.Context, state users.UserState) error {
	state.UpdatedAt = sm.now()

	sm.mu.Lock()
	sm.states[state.ChatID] = state
	sm.mu.Unlock()

	if sm.store == nil {
		return nil
	}
	if err := sm.store.SaveSession(ctx, state); err != nil {
		logger.Error(fmt.Sprintf("error happened while saving session of chat %d: %v", state.ChatID, err))
		return err
	}
	return nil
}

// Update applies fn to the state of a chat, starting from a fresh one if
// the chat is unknown
func (sm *StateManager) Update(ctx context.Context, chatID int64, fn func(*users.UserState)) (users.UserState, error) {
	state, ok := sm.Get(chatID)
	if !ok {
		state = users.UserState{ChatID: chatID, Stage: users.StageIdle}
	}
	fn(&state)
	state.ChatID = chatID
	err := sm.Set(ctx, state)
	return state, err
}

func (sm *StateManager) Remove(ctx context.Context, chatID int64) error {
	sm.mu.Lock()
	delete(sm.states, chatID)
	sm.mu.Unlock()

	if sm.store == nil {
		return nil
	}
	if err := sm.store.DeleteSession(ctx, chatID); err != nil {
		logger.Error(fmt.Sprintf("error happened while deleting session of chat %d: %v", chatID, err))
		return err
	}
	return nil
}

// GetAll returns every state, oldest update first
func (sm *StateManager) GetAll() []users.UserState {
	sm.mu.RLock()
	list := make([]users.UserState, 0, len(sm.states))
	for _, s := range sm.states {
		list = append(list, s)
	}
	sm.mu.RUnlock()

	sort.Sort(ByTimeUpdated(list))
	return list
}

// Clear drops every state. Store errors are logged and the first one is returned.
func (sm *StateManager) Clear(ctx context.Context) error {
	sm.mu.Lock()
	ids := make([]int64, 0, len(sm.states))
	for id := range sm.states {
		ids = append(ids, id)
	}
	sm.states = map[int64]users.UserState{}
	sm.mu.Unlock()

	if sm.store == nil {
		return nil
	}
	var first error
	for _, id := range ids {
		if err := sm.store.DeleteSession(ctx, id); err != nil {
			logger.Error(fmt.Sprintf("error happened while clearing session of chat %d: %v", id, err))
			if first == nil {
				first = err
			}
		}
	}
	return first
}
