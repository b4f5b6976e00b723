package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/33kotidham/admin-gateway/config"
)

type memRepo struct {
	users  map[uint]*User
	nextID uint
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[uint]*User{}, nextID: 1}
}

func (r *memRepo) Create(user *User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *memRepo) FindByEmail(email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) FindByID(id uint) (*User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memRepo) CountUsers() (int64, error) {
	return int64(len(r.users)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
}

func TestSeedAndLogin(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())

	require.NoError(t, svc.SeedDefaultAdmin("Admin@33kotidham.in", "secret123"))

	// seeding is skipped once a user exists
	require.NoError(t, svc.SeedDefaultAdmin("other@33kotidham.in", "secret123"))
	count, _ := repo.CountUsers()
	assert.Equal(t, int64(1), count)

	pair, user, err := svc.Login(LoginInput{Email: " ADMIN@33kotidham.in ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@33kotidham.in", user.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	token, err := jwt.Parse(pair.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(user.ID), claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())
	require.NoError(t, svc.SeedDefaultAdmin("admin@33kotidham.in", "secret123"))

	_, _, err := svc.Login(LoginInput{Email: "admin@33kotidham.in", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(LoginInput{Email: "nobody@33kotidham.in", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())
	require.NoError(t, svc.SeedDefaultAdmin("admin@33kotidham.in", "secret123"))
	repo.users[1].Status = "disabled"

	_, _, err := svc.Login(LoginInput{Email: "admin@33kotidham.in", Password: "secret123"})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())
	require.NoError(t, svc.SeedDefaultAdmin("admin@33kotidham.in", "secret123"))

	pair, _, err := svc.Login(LoginInput{Email: "admin@33kotidham.in", Password: "secret123"})
	require.NoError(t, err)

	access, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// an access token is not a valid refresh token
	_, err = svc.Refresh(pair.AccessToken)
	assert.Error(t, err)

	_, err = svc.Refresh("not-a-token")
	assert.Error(t, err)
}

func TestRefreshRejectsNonNumericUserIDClaim(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())
	require.NoError(t, svc.SeedDefaultAdmin("admin@33kotidham.in", "secret123"))

	// validly signed, but user_id is a string; must error, not panic
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := forged.SignedString([]byte("refresh-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(signed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token claims")

	// and a token missing the claim entirely
	forged = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err = forged.SignedString([]byte("refresh-secret"))
	require.NoError(t, err)

	_, err = svc.Refresh(signed)
	assert.Error(t, err)
}

func TestSeedSkipsWhenCredentialsMissing(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, testConfig())

	require.NoError(t, svc.SeedDefaultAdmin("", ""))
	count, _ := repo.CountUsers()
	assert.Equal(t, int64(0), count)
}
