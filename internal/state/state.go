package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sukalov/liveset/internal/logger"
	"github.com/sukalov/liveset/internal/lyrics/parsers/liveset"
	"github.com/sukalov/liveset/internal/users"
)

// ErrNoSession is returned when a chat has not loaded a set yet
var ErrNoSession = errors.New("no set loaded")

// Store persists sessions between restarts
type Store interface {
	SaveSession(ctx context.Context, session users.Session) error
	GetSession(ctx context.Context, chatID int64) (users.Session, bool, error)
	DeleteSession(ctx context.Context, chatID int64) error
	ClearSessions(ctx context.Context) (int, error)
	IncrementSetCount(ctx context.Context, setNumber string) error
}

// StateManager keeps presentation sessions in memory and mirrors every
// change to the store.
type StateManager struct {
	mu         sync.RWMutex
	sessions   map[int64]users.Session
	chatLocks  map[int64]*sync.Mutex
	store      Store
	slideLines int
	now        func() time.Time
}

func NewStateManager(store Store, slideLines int) *StateManager {
	if slideLines <= 0 {
		slideLines = liveset.DefaultSlideLines
	}
	return &StateManager{
		sessions:   make(map[int64]users.Session),
		chatLocks:  make(map[int64]*sync.Mutex),
		store:      store,
		slideLines: slideLines,
		now:        time.Now,
	}
}

func (sm *StateManager) SlideLines() int {
	return sm.slideLines
}

// lockChat serializes every read-modify-write of one chat's session
func (sm *StateManager) lockChat(chatID int64) func() {
	sm.mu.Lock()
	lock, ok := sm.chatLocks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		sm.chatLocks[chatID] = lock
	}
	sm.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Load returns the session of a chat, reading it from the store on first access
func (sm *StateManager) Load(ctx context.Context, chatID int64) (users.Session, bool, error) {
	sm.mu.RLock()
	session, ok := sm.sessions[chatID]
	sm.mu.RUnlock()
	if ok {
		return session, true, nil
	}

	session, found, err := sm.store.GetSession(ctx, chatID)
	if err != nil {
		return users.Session{}, false, fmt.Errorf("failed to load session for chat %d: %w", chatID, err)
	}
	if !found {
		return users.Session{}, false, nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	if existing, ok := sm.sessions[chatID]; ok {
		return existing, true, nil
	}
	sm.sessions[chatID] = session
	return session, true, nil
}

// StartSet replaces the chat's session with a freshly loaded set
func (sm *StateManager) StartSet(ctx context.Context, chatID int64, username string, set *liveset.SetResult) (users.Session, error) {
	unlock := sm.lockChat(chatID)
	defer unlock()

	session := users.Session{
		ChatID:    chatID,
		Username:  username,
		SetNumber: set.SetNumber,
		Songs:     set.Songs,
		LoadedAt:  sm.now(),
	}

	if err := sm.save(ctx, session); err != nil {
		return users.Session{}, err
	}
	if err := sm.store.IncrementSetCount(ctx, set.SetNumber); err != nil {
		logger.Error(fmt.Sprintf("StartSet: failed to count set %s\nError: %v", set.SetNumber, err))
	}
	return session, nil
}

// StartBookSong presents a single songbook entry as the chat's session.
// Book songs are not counted as set loads.
func (sm *StateManager) StartBookSong(ctx context.Context, chatID int64, username string, song liveset.Song) (users.Session, error) {
	unlock := sm.lockChat(chatID)
	defer unlock()

	session := users.Session{
		ChatID:    chatID,
		Username:  username,
		SetNumber: fmt.Sprintf("book #%d", song.SongNumber),
		Songs:     []liveset.Song{song},
		LoadedAt:  sm.now(),
	}
	if err := sm.save(ctx, session); err != nil {
		return users.Session{}, err
	}
	return session, nil
}

// SelectSong jumps to the first slide of a song in the loaded set
func (sm *StateManager) SelectSong(ctx context.Context, chatID int64, songIndex int) (users.Session, error) {
	return sm.update(ctx, chatID, func(s *users.Session) error {
		return s.Select(songIndex)
	})
}

// NextSlide advances the projector; moved is false at the end of the set
func (sm *StateManager) NextSlide(ctx context.Context, chatID int64) (session users.Session, moved bool, err error) {
	session, err = sm.update(ctx, chatID, func(s *users.Session) error {
		moved = s.Next(sm.slideLines)
		return nil
	})
	return session, moved, err
}

// PrevSlide steps the projector back; moved is false at the start of the set
func (sm *StateManager) PrevSlide(ctx context.Context, chatID int64) (session users.Session, moved bool, err error) {
	session, err = sm.update(ctx, chatID, func(s *users.Session) error {
		moved = s.Prev(sm.slideLines)
		return nil
	})
	return session, moved, err
}

func (sm *StateManager) update(ctx context.Context, chatID int64, apply func(*users.Session) error) (users.Session, error) {
	unlock := sm.lockChat(chatID)
	defer unlock()

	session, found, err := sm.Load(ctx, chatID)
	if err != nil {
		return users.Session{}, err
	}
	if !found {
		return users.Session{}, ErrNoSession
	}

	if err := apply(&session); err != nil {
		return users.Session{}, err
	}
	if err := sm.save(ctx, session); err != nil {
		return users.Session{}, err
	}
	return session, nil
}

func (sm *StateManager) save(ctx context.Context, session users.Session) error {
	sm.mu.Lock()
	sm.sessions[session.ChatID] = session
	sm.mu.Unlock()

	if err := sm.store.SaveSession(ctx, session); err != nil {
		logger.Error(fmt.Sprintf("error happened while saving session for chat %d: %v", session.ChatID, err))
		return err
	}
	return nil
}

// Remove drops a single chat's session
func (sm *StateManager) Remove(ctx context.Context, chatID int64) error {
	unlock := sm.lockChat(chatID)
	defer unlock()

	sm.mu.Lock()
	delete(sm.sessions, chatID)
	sm.mu.Unlock()

	return sm.store.DeleteSession(ctx, chatID)
}

// Clear drops every session and returns how many were stored
func (sm *StateManager) Clear(ctx context.Context) (int, error) {
	sm.mu.Lock()
	sm.sessions = make(map[int64]users.Session)
	sm.mu.Unlock()

	removed, err := sm.store.ClearSessions(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("error happened while clearing sessions: %v", err))
		return removed, err
	}
	return removed, nil
}

// Active returns the sessions held in memory, most recently loaded first
func (sm *StateManager) Active() []users.Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	sessions := make([]users.Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].LoadedAt.After(sessions[j].LoadedAt)
	})
	return sessions
}
