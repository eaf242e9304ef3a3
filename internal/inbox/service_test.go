package inbox

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxdrop/voxdrop/internal/common"
	"github.com/voxdrop/voxdrop/internal/identity"
	"github.com/voxdrop/voxdrop/internal/logging"
	"github.com/voxdrop/voxdrop/internal/store"
	"github.com/voxdrop/voxdrop/internal/token"
)

func newTestService(t *testing.T, autoProvision bool) *Service {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "accounts.json"), store.Options{
		AutoProvision: autoProvision,
	})
	require.NoError(t, err)

	tm, err := token.NewManager([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	return NewService(st, tm, identity.NewNormalizer(3), logger)
}

func TestRegisterThenLogin_NormalizedSpellings(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	key, tok, err := svc.Register(ctx, "Alice ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", key)
	assert.NotEmpty(t, tok)

	// any spelling that normalizes to the same key logs in with the same
	// credential
	for _, raw := range []string{"ALICE", "alice", " aLiCe\t"} {
		tok, err := svc.Login(ctx, raw, "secret123")
		require.NoError(t, err, "login as %q", raw)
		assert.NotEmpty(t, tok)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "ALICE", "another")
	assert.ErrorIs(t, err, common.ErrUsernameTaken)
}

func TestRegister_InvalidIdentityAndInput(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, " a ", "secret123")
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)

	_, _, err = svc.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestLogin_WrongPasswordAndUnknownUserIndistinguishable(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	_, errWrongPw := svc.Login(ctx, "alice", "wrong-password")
	_, errNoUser := svc.Login(ctx, "nobody", "secret123")

	assert.ErrorIs(t, errWrongPw, common.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, common.ErrInvalidCredentials)
	assert.Equal(t, errWrongPw, errNoUser, "the two failures must be indistinguishable")
}

func TestLogin_AutoProvisionedAccountCannotLogIn(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	require.NoError(t, svc.Deliver(ctx, "bob", store.MessageRecord{AttachmentRef: "v.webm"}))

	for _, password := range []string{"", "!", "guess", "bob"} {
		_, err := svc.Login(ctx, "bob", password)
		assert.ErrorIs(t, err, common.ErrInvalidCredentials, "password %q", password)
	}
}

func TestDeliverAndReadInbox_MostRecentFirst(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Deliver(ctx, "alice", store.MessageRecord{AttachmentRef: "v1.webm", Transcript: "hi"}))
	require.NoError(t, svc.Deliver(ctx, "ALICE", store.MessageRecord{AttachmentRef: "v2.webm"}))
	require.NoError(t, svc.Deliver(ctx, " alice", store.MessageRecord{AttachmentRef: "v3.webm"}))

	msgs := svc.ReadInbox(ctx, "alice")
	require.Len(t, msgs, 3)
	assert.Equal(t, "v3.webm", msgs[0].AttachmentRef)
	assert.Equal(t, "v2.webm", msgs[1].AttachmentRef)
	assert.Equal(t, "v1.webm", msgs[2].AttachmentRef)
	assert.Equal(t, "hi", msgs[2].Transcript)
}

func TestDeliver_UnknownUserWithProvisioningDisabled(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, false)

	err := svc.Deliver(context.Background(), "ghost", store.MessageRecord{AttachmentRef: "v.webm"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	_, tok, err := svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	key, err := svc.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", key)

	_, err = svc.Authenticate("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestAuthenticate_ValidTokenMissingAccount(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)

	// a well-signed token for an account that was never created
	tok, err := svc.tokens.Issue("phantom")
	require.NoError(t, err)

	_, err = svc.Authenticate(tok)
	assert.ErrorIs(t, err, common.ErrAccountNotFound)
}

func TestCheckAvailable(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, true)
	ctx := context.Background()

	available, err := svc.CheckAvailable(ctx, "Alice")
	require.NoError(t, err)
	assert.True(t, available)

	_, _, err = svc.Register(ctx, "alice", "secret123")
	require.NoError(t, err)

	available, err = svc.CheckAvailable(ctx, " ALICE ")
	require.NoError(t, err)
	assert.False(t, available)

	_, err = svc.CheckAvailable(ctx, "x")
	assert.ErrorIs(t, err, common.ErrInvalidIdentity)
}
