package service

import (
	"errors"
	"strings"
	"time"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
	"github.com/stephens-stores/backend/pkg/mailer"
	"github.com/stephens-stores/backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 8

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
	PhoneNumber     string
}

type ProfileUpdateInput struct {
	Name        *string
	Email       *string
	Address     *string
	PhoneNumber *string
}

type AuthService interface {
	Signup(input SignupInput) (*model.User, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	emailLogRepo  repository.EmailLogRepository
	mail          mailer.Mailer
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	emailLogRepo repository.EmailLogRepository,
	mail mailer.Mailer,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		emailLogRepo:  emailLogRepo,
		mail:          mail,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Signup(input SignupInput) (*model.User, error) {
	logger.Info("Attempting user signup", map[string]interface{}{
		"email": input.Email,
	})

	verr := NewValidationError()

	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "This field is required.")
	}
	if strings.TrimSpace(input.Email) == "" {
		verr.Add("email", "This field is required.")
	}
	if len(input.Password) < minPasswordLength {
		verr.Add("password", "Ensure this field has at least 8 characters.")
	}
	if input.Password != input.ConfirmPassword {
		verr.Add("confirm_password", "Password and confirm password do not match")
	}

	if input.Email != "" {
		existing, err := s.userRepo.FindByEmail(input.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to check existing user", err, map[string]interface{}{
				"email": input.Email,
			})
			return nil, err
		}
		if existing != nil {
			verr.Add("email", "user with this email already exists.")
		}
	}

	if verr.HasErrors() {
		logger.Warn("Signup validation failed", map[string]interface{}{
			"email":  input.Email,
			"fields": verr.Fields,
		})
		return nil, verr
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		Address:      input.Address,
		PhoneNumber:  input.PhoneNumber,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, err
	}

	// Welcome mail is fire-and-forget: a delivery failure is logged and
	// recorded, never surfaced to the signup caller.
	if s.mail != nil {
		go s.sendWelcomeEmail(user.Email, user.Name)
	}

	logger.Info("User signed up successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, nil
}

func (s *authService) sendWelcomeEmail(email, name string) {
	status := model.EmailStatusSent
	if err := s.mail.SendWelcomeEmail(email, name); err != nil {
		status = model.EmailStatusFailed
	}
	if s.emailLogRepo == nil {
		return
	}
	entry := &model.EmailLog{
		Recipients: []string{email},
		Subject:    mailer.WelcomeSubject(),
		Status:     status,
	}
	if err := s.emailLogRepo.Create(entry); err != nil {
		logger.Warn("Welcome email not recorded", map[string]interface{}{
			"email": email,
		})
	}
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	// Transparently upgrade hashes stored at an older, lower bcrypt cost
	if util.NeedsRehash(user.PasswordHash) {
		if rehashed, err := util.HashPassword(password); err == nil {
			user.PasswordHash = rehashed
			if err := s.userRepo.Update(user); err != nil {
				logger.Warn("Failed to upgrade password hash", map[string]interface{}{
					"user_id": user.ID,
					"error":   err.Error(),
				})
			}
		}
	}

	tokens, err := util.GenerateTokenPair(user.ID, user.Email, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	verr := NewValidationError()
	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.userRepo.EmailTakenByOther(*input.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("email", "This email is already in use.")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	updated := false
	if input.Name != nil && *input.Name != user.Name {
		user.Name = *input.Name
		updated = true
	}
	if input.Email != nil && *input.Email != user.Email {
		user.Email = *input.Email
		updated = true
	}
	if input.Address != nil && *input.Address != user.Address {
		user.Address = *input.Address
		updated = true
	}
	if input.PhoneNumber != nil && *input.PhoneNumber != user.PhoneNumber {
		user.PhoneNumber = *input.PhoneNumber
		updated = true
	}

	if !updated {
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}
