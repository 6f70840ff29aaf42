package testutils

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/forkful/v1/internal/domain/contact"
)

// FakeStorage records saved files in memory.
type FakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
	seq   int
}

// NewFakeStorage creates an in-memory storage service
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{files: make(map[string][]byte)}
}

func (s *FakeStorage) Save(ctx context.Context, originalName string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	name := originalName
	if name == "" {
		name = "file"
	}
	filename := name
	s.files[filename] = data
	return filename, nil
}

func (s *FakeStorage) Delete(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filename)
	return nil
}

// Contains reports whether a file was saved.
func (s *FakeStorage) Contains(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[filename]
	return ok
}

// ActivityEntry is one recorded activity line.
type ActivityEntry struct {
	UserID     uuid.UUID
	Action     string
	TargetID   uuid.UUID
	TargetType string
}

// FakeActivityLog records activity entries in memory.
type FakeActivityLog struct {
	mu      sync.Mutex
	Entries []ActivityEntry
}

// NewFakeActivityLog creates an in-memory activity log
func NewFakeActivityLog() *FakeActivityLog {
	return &FakeActivityLog{}
}

func (l *FakeActivityLog) Record(ctx context.Context, userID uuid.UUID, action string, targetID uuid.UUID, targetType string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, ActivityEntry{
		UserID:     userID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
	})
	return nil
}

// Actions returns the recorded action names in order.
func (l *FakeActivityLog) Actions() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	actions := make([]string, 0, len(l.Entries))
	for _, e := range l.Entries {
		actions = append(actions, e.Action)
	}
	return actions
}

// FakeContactInbox collects submitted contact messages.
type FakeContactInbox struct {
	mu       sync.Mutex
	Messages []contact.Message
}

// NewFakeContactInbox creates an in-memory contact inbox
func NewFakeContactInbox() *FakeContactInbox {
	return &FakeContactInbox{}
}

func (i *FakeContactInbox) Save(ctx context.Context, msg contact.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Messages = append(i.Messages, msg)
	return nil
}
