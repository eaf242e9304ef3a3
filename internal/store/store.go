// Package store owns every AccountRecord in the process. The authoritative
// state is the in-memory map; the on-disk snapshot is purely a recovery
// image, rewritten in full before any mutation is acknowledged.
//
// Mutations are linearized through a single writer slot and committed
// copy-on-write: the change is applied to a cloned map, the clone is made
// durable, and only then is it published to readers. A failed or timed-out
// durable write therefore leaves the visible state untouched.
package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/credential"
	"github.com/voxdrop/voxdrop/internal/logging"
)

// DefaultTimeout bounds writer-slot acquisition and the durable write, so a
// stalled filesystem cannot hang the whole service.
const DefaultTimeout = 5 * time.Second

// Options configures a Store.
type Options struct {
	// Timeout bounds lock acquisition and the durable write of each
	// mutation. Zero means DefaultTimeout.
	Timeout time.Duration

	// AutoProvision controls delivery to unknown usernames: when true the
	// store creates a locked account first, when false the delivery fails
	// with common.ErrNotFound.
	AutoProvision bool

	Logger logging.Logger
}

type Store struct {
	path          string
	timeout       time.Duration
	autoProvision bool
	logger        logging.Logger

	mu       sync.RWMutex // guards the accounts map pointer
	accounts map[string]*AccountRecord

	writeSlot chan struct{} // single mutation slot
	seq       uint64        // snapshot sequence, touched only by the slot owner
	snap      *snapshotWriter

	now func() time.Time
}

// Open loads the snapshot at path into memory and returns a ready store.
// A missing file yields an empty store; a corrupt one fails with
// common.ErrStoreCorrupt and requires operator intervention.
func Open(path string, opts Options) (*Store, error) {
	accounts, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	return &Store{
		path:          path,
		timeout:       timeout,
		autoProvision: opts.AutoProvision,
		logger:        logger.With("module", "store"),
		accounts:      accounts,
		writeSlot:     make(chan struct{}, 1),
		snap:          &snapshotWriter{path: path},
		now:           time.Now,
	}, nil
}

// CreateAccount registers a new account under key. The account is durable
// before the call returns. Fails with common.ErrAlreadyExists when the key
// is present.
func (s *Store) CreateAccount(ctx context.Context, key, credentialHash string) (*AccountRecord, error) {
	release, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	cur := s.current()
	if _, ok := cur[key]; ok {
		return nil, common.ErrAlreadyExists
	}

	rec := &AccountRecord{
		Username:       key,
		CredentialHash: credentialHash,
		CreatedAt:      s.now().UTC(),
	}

	next := cloneMapWith(cur, key, rec)
	if err := s.persist(next); err != nil {
		return nil, err
	}
	s.publish(next)

	s.logger.Info(ctx, "account created", "user", key)
	return rec.clone(), nil
}

// AppendMessage appends msg to the inbox under key. The message ID and
// ReceivedAt are assigned here; ReceivedAt strictly increases within one
// inbox. When the key is absent the behavior follows the auto-provision
// policy: either a locked account is created first, or the delivery fails
// with common.ErrNotFound. The append is durable before the call returns.
func (s *Store) AppendMessage(ctx context.Context, key string, msg MessageRecord) error {
	release, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	cur := s.current()

	var rec *AccountRecord
	if existing, ok := cur[key]; ok {
		rec = existing.clone()
	} else {
		if !s.autoProvision {
			return common.ErrNotFound
		}
		rec = &AccountRecord{
			Username:        key,
			CredentialHash:  credential.NoLoginHash,
			CreatedAt:       s.now().UTC(),
			AutoProvisioned: true,
		}
		s.logger.Info(ctx, "account auto-provisioned", "user", key)
	}

	msg.ID = uuid.NewString()
	msg.ReceivedAt = s.nextReceivedAt(rec)
	rec.Inbox = append(rec.Inbox, msg)

	next := cloneMapWith(cur, key, rec)
	if err := s.persist(next); err != nil {
		return err
	}
	s.publish(next)

	s.logger.Info(ctx, "message appended", "user", key, "inbox_len", len(rec.Inbox))
	return nil
}

// GetAccount returns a copy of the record under key, or
// common.ErrNotFound.
func (s *Store) GetAccount(key string) (*AccountRecord, error) {
	rec, ok := s.current()[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec.clone(), nil
}

// ListInbox returns the inbox under key in insertion order. An unknown key
// yields an empty slice, not an error.
func (s *Store) ListInbox(key string) []MessageRecord {
	rec, ok := s.current()[key]
	if !ok {
		return []MessageRecord{}
	}
	out := make([]MessageRecord, len(rec.Inbox))
	copy(out, rec.Inbox)
	return out
}

// Exists reports whether an account is present under key.
func (s *Store) Exists(key string) bool {
	_, ok := s.current()[key]
	return ok
}

// Len returns the number of accounts, for diagnostics.
func (s *Store) Len() int {
	return len(s.current())
}

// acquire claims the writer slot. Cancellation is honored only while
// waiting; once the slot is held the mutation runs to completion.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	t := time.NewTimer(s.timeout)
	defer t.Stop()

	select {
	case s.writeSlot <- struct{}{}:
		return func() { <-s.writeSlot }, nil
	case <-t.C:
		return nil, common.ErrStoreUnavailable
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// persist makes the candidate state durable. The write runs in its own
// goroutine so that a stalled filesystem fails the mutation with
// common.ErrStoreUnavailable instead of hanging the service; the snapshot
// sequence check in snapshotWriter keeps a late completion from
// overwriting newer state.
func (s *Store) persist(next map[string]*AccountRecord) error {
	data, err := encodeSnapshot(next)
	if err != nil {
		return err
	}

	s.seq++
	seq := s.seq

	done := make(chan error, 1)
	go func() { done <- s.snap.write(seq, data) }()

	t := time.NewTimer(s.timeout)
	defer t.Stop()

	select {
	case err := <-done:
		return err
	case <-t.C:
		s.logger.Error(context.Background(), "snapshot write timed out", "seq", seq)
		return common.ErrStoreUnavailable
	}
}

func (s *Store) publish(next map[string]*AccountRecord) {
	s.mu.Lock()
	s.accounts = next
	s.mu.Unlock()
}

func (s *Store) current() map[string]*AccountRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts
}

// nextReceivedAt returns a timestamp strictly after the last record in the
// inbox, so concurrent deliveries can never share a ReceivedAt.
func (s *Store) nextReceivedAt(rec *AccountRecord) time.Time {
	ts := s.now().UTC()
	if n := len(rec.Inbox); n > 0 {
		if last := rec.Inbox[n-1].ReceivedAt; !ts.After(last) {
			ts = last.Add(time.Nanosecond)
		}
	}
	return ts
}

// cloneMapWith shallow-copies the account map and replaces key with rec.
// Untouched records are shared between generations; they are immutable once
// published.
func cloneMapWith(cur map[string]*AccountRecord, key string, rec *AccountRecord) map[string]*AccountRecord {
	next := make(map[string]*AccountRecord, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	next[key] = rec
	return next
}
