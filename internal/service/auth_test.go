package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
	"github.com/Skotchmaster/storefront/internal/transport"
)

var testSecret = []byte("test-secret")

func TestAuthSetupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := &AuthService{Users: newStore(t), Secret: testSecret, TTL: time.Hour}

	needed, err := svc.SetupNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, needed)

	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "boss", Password: "secret123"})
	require.ErrorIs(t, err, ErrAdminMissing)

	_, err = svc.Setup(ctx, transport.SetupRequest{Username: "boss", Password: "123"})
	require.ErrorIs(t, err, ErrValidation)

	admin, err := svc.Setup(ctx, transport.SetupRequest{Username: " boss ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "boss", admin.Username)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Setup(ctx, transport.SetupRequest{Username: "other", Password: "secret123"})
	require.ErrorIs(t, err, ErrAdminExists)

	needed, err = svc.SetupNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, needed)

	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "boss", Password: "wrong"})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "ghost", Password: "secret123"})
	require.ErrorIs(t, err, ErrUnauthorized)

	sess, err := svc.Login(ctx, transport.CredentialsRequest{Username: "boss", Password: "secret123"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	claims, err := tokens.SessionClaimsFromToken(sess.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, admin.ID, id)

	u, err := svc.CurrentUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "boss", u.Username)

	_, err = svc.CurrentUser(ctx, 999)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthRegister(t *testing.T) {
	ctx := context.Background()
	svc := &AuthService{Users: newStore(t), Secret: testSecret}

	sess, err := svc.Register(ctx, transport.CredentialsRequest{Username: "amine", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, sess.User.Role)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.Register(ctx, transport.CredentialsRequest{Username: "amine", Password: "pw2"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.Register(ctx, transport.CredentialsRequest{Username: "", Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	// a registered user may later be promoted by the setup flow
	admin, err := svc.Setup(ctx, transport.SetupRequest{Username: "amine", Password: "longer-pw"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &AuthService{Users: st, Secret: testSecret}

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	needed, err := svc.SetupNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, needed)

	require.NoError(t, svc.EnsureAdmin(ctx, "root", "first-pass"))
	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "root", Password: "first-pass"})
	require.NoError(t, err)

	// same username rotates the password
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "second-pass"))
	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "root", Password: "first-pass"})
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "root", Password: "second-pass"})
	require.NoError(t, err)

	// a different username never takes over
	require.NoError(t, svc.EnsureAdmin(ctx, "intruder", "pass"))
	admin, err := st.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "root", admin.Username)
	_, err = st.GetUserByUsername(ctx, "intruder")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoginUpgradesCheapHash(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := &AuthService{Users: st, Secret: testSecret}

	cheap, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = st.ClaimAdmin(ctx, "boss", string(cheap))
	require.NoError(t, err)

	_, err = svc.Login(ctx, transport.CredentialsRequest{Username: "boss", Password: "secret123"})
	require.NoError(t, err)

	u, err := st.GetUserByUsername(ctx, "boss")
	require.NoError(t, err)
	assert.False(t, hash.Outdated(u.PasswordHash))
	assert.True(t, hash.CheckPassword(u.PasswordHash, "secret123"))
}
