package services

import (
	"context"
	"errors"
	"log"

	"github.com/roamly/roamly-backend/internal/config"
	"github.com/roamly/roamly-backend/internal/models"
	"github.com/roamly/roamly-backend/internal/repositories"
	"github.com/roamly/roamly-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// Register creates a new customer account with an empty loyalty state
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:           req.Email,
		PasswordHash:    string(hash),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Points:          0,
		Tier:            models.TierBasic,
		RedeemedRewards: []models.Redemption{},
		RecentActivity:  []models.Activity{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.IsAdmin, s.cfg)
	if err != nil {
		log.Printf("[ERROR] Login: failed to sign token for %s: %v", user.Email, err)
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
