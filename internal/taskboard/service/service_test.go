package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/taskboard/internal/taskboard/domain"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/notify"
	"github.com/aussiebroadwan/taskboard/internal/taskboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskboard/pkg/cryptox"
	"github.com/aussiebroadwan/taskboard/pkg/jwtx"
	"github.com/aussiebroadwan/taskboard/pkg/slogx"
	"github.com/stretchr/testify/require"
)

type broadcast struct {
	channel string
	event   string
	payload domain.TaskStatusChanged
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
}

func (r *recordingBroadcaster) Broadcast(_ context.Context, channel, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, _ := payload.(domain.TaskStatusChanged)
	r.sent = append(r.sent, broadcast{channel: channel, event: event, payload: ev})
	return nil
}

func (r *recordingBroadcaster) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fixture struct {
	store    *sqlite.Store
	hasher   *cryptox.Hasher
	events   *recordingBroadcaster
	users    *UserService
	tokens   *TokenService
	roles    *RoleService
	projects *ProjectService
	tasks    *TaskService
	seed     *SeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("", priv)
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	hasher := cryptox.NewHasher("pepper")
	events := &recordingBroadcaster{}
	tokens := &TokenService{
		Store:    st,
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, "taskboard-test", time.Minute),
		Issuer:   "taskboard-test",
		TTL:      time.Hour,
	}

	f := &fixture{
		store:    st,
		hasher:   hasher,
		events:   events,
		tokens:   tokens,
		users:    &UserService{Store: st, Hasher: hasher, Tokens: tokens},
		roles:    &RoleService{Store: st},
		projects: &ProjectService{Store: st},
		tasks:    &TaskService{Store: st, Notifier: notify.NewNotifier(events)},
		seed: &SeedService{Store: st, Hasher: hasher, Admin: AdminAccount{
			Name: "Admin", Email: "admin@example.com", Password: "admin-password",
		}},
	}
	require.NoError(t, f.seed.Seed(context.Background()))
	return f
}

// signup registers a user and authenticates with the issued token.
func (f *fixture) signup(t *testing.T, name, email string) domain.Actor {
	t.Helper()
	ctx := context.Background()

	sess, err := f.users.Register(ctx, RegisterInput{
		Name: name, Email: email, Password: "password123", PasswordConfirmation: "password123",
	})
	require.NoError(t, err)

	actor, err := f.tokens.Authenticate(ctx, sess.Token.Token)
	require.NoError(t, err)
	return actor
}

func (f *fixture) admin(t *testing.T) domain.Actor {
	t.Helper()
	ctx := context.Background()

	sess, err := f.users.Login(ctx, "admin@example.com", "admin-password")
	require.NoError(t, err)
	actor, err := f.tokens.Authenticate(ctx, sess.Token.Token)
	require.NoError(t, err)
	require.True(t, actor.IsAdmin())
	return actor
}

func ptr[T any](v T) *T { return &v }

func discardLogger() *slog.Logger { return slogx.Discard() }
