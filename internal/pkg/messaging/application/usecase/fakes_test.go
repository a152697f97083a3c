package usecase

import (
	"context"
	"errors"
	"sync"

	messaging "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/application/domain"
	repository "github.com/Huzaim-Bin-Asad/echoo-backend/internal/pkg/messaging/persistence/repository/port"

	"github.com/google/uuid"
)

// fakeMessageRepo is an in-memory MessageRepository for use case tests.
type fakeMessageRepo struct {
	mu        sync.Mutex
	appended  []messaging.Message
	page      []messaging.Message
	readIDs   [][]string
	appendErr error
	listErr   error
	markErr   error
	lastQuery repository.ConversationQuery
}

var _ repository.MessageRepository = (*fakeMessageRepo)(nil)

func (f *fakeMessageRepo) AppendMessage(_ context.Context, m messaging.Message) (messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return messaging.Message{}, f.appendErr
	}
	f.appended = append(f.appended, m)
	return m, nil
}

func (f *fakeMessageRepo) ListConversation(_ context.Context, q repository.ConversationQuery) ([]messaging.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.lastQuery = q
	out := make([]messaging.Message, len(f.page))
	copy(out, f.page)
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.readIDs = append(f.readIDs, ids)
	return nil
}

// fakeContactRepo records reconciliation writes.
type fakeContactRepo struct {
	mu        sync.Mutex
	contacts  map[string]string // owner|counterpart -> contact id
	ensured   []string
	previews  []messaging.ChatPreview
	ensureErr error
	upsertErr error
}

var _ repository.ContactRepository = (*fakeContactRepo)(nil)

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[string]string)}
}

func (f *fakeContactRepo) EnsureContact(_ context.Context, ownerID, counterpartID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensureErr != nil {
		return "", f.ensureErr
	}
	key := ownerID + "|" + counterpartID
	if id, ok := f.contacts[key]; ok {
		return id, nil
	}
	id := uuid.NewString()
	f.contacts[key] = id
	f.ensured = append(f.ensured, key+"|"+name)
	return id, nil
}

func (f *fakeContactRepo) UpsertPreview(_ context.Context, p messaging.ChatPreview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.previews = append(f.previews, p)
	return nil
}

// fakeDirectory serves canned profiles.
type fakeDirectory struct {
	profiles map[string]messaging.Profile
	err      error
}

var _ repository.UserDirectory = (*fakeDirectory)(nil)

func (f *fakeDirectory) GetProfile(_ context.Context, userID string) (messaging.Profile, error) {
	if f.err != nil {
		return messaging.Profile{}, f.err
	}
	if p, ok := f.profiles[userID]; ok {
		return p, nil
	}
	return messaging.Profile{Username: "Unknown"}, nil
}

var errBoom = errors.New("boom")
