//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/adapter"
	"training-registration/internal/domain/ports/repository"
	"training-registration/internal/infra/catalog"
	"training-registration/internal/infra/i18n"
)

// ---- Mock SessionRepository ----

type MockSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]model.FormSession
	SaveFunc func(ctx context.Context, s *model.FormSession) error
	saves    int
}

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{sessions: map[string]model.FormSession{}}
}

var _ repository.SessionRepository = (*MockSessionRepo)(nil)

func (m *MockSessionRepo) Save(ctx context.Context, s *model.FormSession) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, s); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	cp.Draft.Interests = append([]string(nil), s.Draft.Interests...)
	m.sessions[s.ID] = cp
	m.saves++
	return nil
}

func (m *MockSessionRepo) Get(ctx context.Context, id string) (*model.FormSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockSessionRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionRepo) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// ---- Mock RegistrationRepository ----

type MockRegistrationRepo struct {
	mu         sync.Mutex
	byID       map[string]*model.Registration
	InsertFunc func(ctx context.Context, tx repository.Tx, r *model.Registration) error
	inserts    int
}

func NewMockRegistrationRepo() *MockRegistrationRepo {
	return &MockRegistrationRepo{byID: map[string]*model.Registration{}}
}

var _ repository.RegistrationRepository = (*MockRegistrationRepo)(nil)

func (m *MockRegistrationRepo) Insert(ctx context.Context, tx repository.Tx, r *model.Registration) error {
	m.mu.Lock()
	m.inserts++
	m.mu.Unlock()
	if m.InsertFunc != nil {
		if err := m.InsertFunc(ctx, tx, r); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.byID[r.ID] = &cp
	return nil
}

func (m *MockRegistrationRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockRegistrationRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Registration, 0, len(m.byID))
	for _, r := range m.byID {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MockRegistrationRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, status model.RegistrationStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Status = status
	return nil
}

func (m *MockRegistrationRepo) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

// ---- Mock FallbackStore ----

type MockFallbackStore struct {
	mu         sync.Mutex
	Records    []model.FallbackRecord
	AppendFunc func(ctx context.Context, rec model.FallbackRecord) error
}

var _ repository.FallbackStore = (*MockFallbackStore)(nil)

func (m *MockFallbackStore) Append(ctx context.Context, rec model.FallbackRecord) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, rec); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockFallbackStore) List(ctx context.Context) ([]model.FallbackRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.FallbackRecord(nil), m.Records...), nil
}

// ---- Mock Notifier ----

type MockNotifier struct {
	mu     sync.Mutex
	Events []model.NotificationEvent
	Result model.Delivery
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) Send(ctx context.Context, ev model.NotificationEvent) model.Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return m.Result
}

func (m *MockNotifier) events() []model.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.NotificationEvent(nil), m.Events...)
}

// ---- Mock DeviceActions ----

type MockDevice struct {
	CopyFunc func(ctx context.Context, text string) error
	DialFunc func(ctx context.Context, uri string, after time.Duration) error

	Copied []string
	Dialed []string
	Delays []time.Duration
	Opened []string
}

var _ adapter.DeviceActions = (*MockDevice)(nil)

func (m *MockDevice) Copy(ctx context.Context, text string) error {
	m.Copied = append(m.Copied, text)
	if m.CopyFunc != nil {
		return m.CopyFunc(ctx, text)
	}
	return nil
}

func (m *MockDevice) Dial(ctx context.Context, uri string, after time.Duration) error {
	m.Dialed = append(m.Dialed, uri)
	m.Delays = append(m.Delays, after)
	if m.DialFunc != nil {
		return m.DialFunc(ctx, uri, after)
	}
	return nil
}

func (m *MockDevice) Open(ctx context.Context, uri string) error {
	m.Opened = append(m.Opened, uri)
	return nil
}

// ---- Mock TransactionManager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- In-memory Locker ----

type MockLocker struct {
	mu    sync.Mutex
	held  map[string]string
	seq   int
	ErrOn map[string]error
}

func NewMockLocker() *MockLocker {
	return &MockLocker{held: map[string]string{}, ErrOn: map[string]error{}}
}

var _ adapter.Locker = (*MockLocker)(nil)

func (l *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err, bad := l.ErrOn[key]; bad {
		return "", err
	}
	if _, busy := l.held[key]; busy {
		return "", domain.ErrSubmissionInFlight
	}
	l.seq++
	token := fmt.Sprintf("tok-%d", l.seq)
	l.held[key] = token
	return token, nil
}

func (l *MockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// ---- helpers ----

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator() *i18n.Translator {
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		panic(err)
	}
	return tr
}

func newTestCatalog() *model.Catalog {
	cat, err := catalog.Load("")
	if err != nil {
		panic(err)
	}
	return cat
}

func testChannels() []model.Channel {
	return []model.Channel{
		{Name: "flooz", Label: "Flooz", Account: "96933995", USSD: "*155*1*1*{account}*{account}*{amount}#"},
		{Name: "mixx", Label: "Mixx by Yas", Account: "91383066", USSD: "*145*1*{amount}*{account}*2#"},
	}
}
