package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/pkg/config"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type mockAuthUserRepo struct {
	users   map[string]*models.User
	created *models.User
}

func (m *mockAuthUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = "user-new"
	m.created = user
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockAuthUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAuthUserRepo{users: map[string]*models.User{
		"sam@example.com": {
			ID: "student-1", Email: "sam@example.com", PasswordHash: string(hash),
			FullName: "Sam Student", Role: models.RoleStudent, Active: true,
		},
	}}
	svc := NewAuthService(repo, config.JWTConfig{Secret: "test-secret", Expiration: time.Hour}, nil, zap.NewNop())
	return svc, repo
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "student-1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "student-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "sam@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestLogin_InactiveAccount(t *testing.T) {
	svc, repo := newAuthFixture(t)
	repo.users["sam@example.com"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}

func TestValidateToken_Expired(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestRegister_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	svc, repo := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email: "new@example.com", Password: "long-enough-pw", FullName: "New User", Role: "TUTOR",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTutor, user.Role)
	require.NotNil(t, repo.created)
	assert.NotEqual(t, "long-enough-pw", repo.created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.created.PasswordHash), []byte("long-enough-pw")))

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email: "sam@example.com", Password: "long-enough-pw", FullName: "Dup", Role: "STUDENT",
	})
	require.Error(t, err)
	assert.Equal(t, 409, appErrors.FromError(err).Status)
}
