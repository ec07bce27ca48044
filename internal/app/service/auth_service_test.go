package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/internal/db"
	"github.com/stephens-stores/backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	fails bool
}

func (m *recordingMailer) SendWelcomeEmail(toEmail, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail)
	if m.fails {
		return assert.AnError
	}
	return nil
}

func (m *recordingMailer) sentTo() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB, *recordingMailer) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	mail := &recordingMailer{}
	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(userRepo, nil, mail, "test-secret", 15*time.Minute, 7*24*time.Hour)

	return authService, testDB, mail
}

func validSignup() SignupInput {
	return SignupInput{
		Name:            "Test User",
		Email:           "test@example.com",
		Password:        "password123",
		ConfirmPassword: "password123",
		Address:         "1 Test Street",
		PhoneNumber:     "555-0100",
	}
}

func TestAuthService_Signup_Success(t *testing.T) {
	authService, testDB, mail := setupAuthServiceTest(t)

	user, err := authService.Signup(validSignup())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "test@example.com", user.Email)

	// Password is stored hashed, never plaintext
	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))

	// Welcome mail goes out in the background
	assert.Eventually(t, func() bool {
		return len(mail.sentTo()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestAuthService_Signup_MailFailureDoesNotRollBack(t *testing.T) {
	authService, testDB, mail := setupAuthServiceTest(t)
	mail.fails = true

	user, err := authService.Signup(validSignup())
	require.NoError(t, err)

	var count int64
	testDB.Model(&model.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthService_Signup_ShortPassword(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	input := validSignup()
	input.Password = "short"
	input.ConfirmPassword = "short"

	user, err := authService.Signup(input)
	assert.Nil(t, user)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")
}

func TestAuthService_Signup_PasswordMismatch(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	input := validSignup()
	input.ConfirmPassword = "different123"

	user, err := authService.Signup(input)
	assert.Nil(t, user)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Password and confirm password do not match"}, verr.Fields["confirm_password"])
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, err := authService.Signup(validSignup())
	require.NoError(t, err)

	user, err := authService.Signup(validSignup())
	assert.Nil(t, user)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
}

func TestAuthService_Login(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	_, err := authService.Signup(validSignup())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		user, tokens, err := authService.Login("test@example.com", "password123")
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
		assert.NotEmpty(t, tokens.AccessToken)

		claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("Wrong password", func(t *testing.T) {
		user, tokens, err := authService.Login("test@example.com", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Nil(t, tokens)
	})

	t.Run("Unknown email", func(t *testing.T) {
		user, tokens, err := authService.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Nil(t, user)
		assert.Nil(t, tokens)
	})
}

func TestAuthService_Login_UpgradesLegacyHash(t *testing.T) {
	authService, testDB, _ := setupAuthServiceTest(t)

	legacy, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Email:        "legacy@example.com",
		PasswordHash: string(legacy),
		Name:         "Legacy User",
	}
	require.NoError(t, testDB.Create(user).Error)

	_, _, err = authService.Login("legacy@example.com", "password123")
	require.NoError(t, err)

	var stored model.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.NotEqual(t, string(legacy), stored.PasswordHash)
	assert.False(t, util.NeedsRehash(stored.PasswordHash))
	assert.True(t, util.VerifyPassword(stored.PasswordHash, "password123"))
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _, _ := setupAuthServiceTest(t)

	first, err := authService.Signup(validSignup())
	require.NoError(t, err)

	other := validSignup()
	other.Email = "other@example.com"
	second, err := authService.Signup(other)
	require.NoError(t, err)

	t.Run("Partial update", func(t *testing.T) {
		name := "Renamed"
		updated, err := authService.UpdateProfile(first.ID, ProfileUpdateInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, first.Email, updated.Email)
	})

	t.Run("Email taken by other user", func(t *testing.T) {
		email := first.Email
		updated, err := authService.UpdateProfile(second.ID, ProfileUpdateInput{Email: &email})
		assert.Nil(t, updated)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"This email is already in use."}, verr.Fields["email"])
	})

	t.Run("Unknown user", func(t *testing.T) {
		name := "Ghost"
		updated, err := authService.UpdateProfile(99999, ProfileUpdateInput{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, updated)
	})
}
