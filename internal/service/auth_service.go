package service

import (
	"errors"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/internal/util"
	"pm_prep_backend/pkg/logger"
)

// AuthService 注册、登录、Google登录，签发JWT
type AuthService struct {
	users *repository.UserRepository
	stats *repository.UserStatsRepository
	cfg   *config.Config
}

func NewAuthService(users *repository.UserRepository, stats *repository.UserStatsRepository, cfg *config.Config) *AuthService {
	return &AuthService{users: users, stats: stats, cfg: cfg}
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (s *AuthService) Register(name, email, password string) (*AuthResult, error) {
	if _, err := s.users.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     model.Student,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	// 新用户的评分状态立即初始化，首次取题不再走惰性创建
	if _, err := s.stats.GetOrCreate(user.ID); err != nil {
		logger.Log.Warn("Failed to initialize user stats", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, util.ErrUserNotFound
	}

	now := time.Now()
	user.LastLogin = now
	if err := s.users.Update(user); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return s.issueToken(user)
}

// GoogleLogin 校验Google ID Token，首次登录自动建号
func (s *AuthService) GoogleLogin(idToken string) (*AuthResult, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{s.cfg.Google.ClientID}); err != nil {
		return nil, util.ErrInvalidGoogleToken
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, util.ErrInvalidGoogleToken
	}

	user, err := s.users.FindByGoogleID(claimSet.Sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// 同邮箱的密码账号直接绑定，避免出现两个身份
		user, err = s.users.FindByEmail(claimSet.Email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = &model.User{
				Name:     claimSet.Name,
				Email:    claimSet.Email,
				GoogleID: claimSet.Sub,
				Avatar:   claimSet.Picture,
				Role:     model.Student,
			}
			if err := s.users.Create(user); err != nil {
				return nil, err
			}
			if _, err := s.stats.GetOrCreate(user.ID); err != nil {
				logger.Log.Warn("Failed to initialize user stats", zap.Uint("user_id", user.ID), zap.Error(err))
			}
		} else if err != nil {
			return nil, err
		} else {
			user.GoogleID = claimSet.Sub
			if user.Avatar == "" {
				user.Avatar = claimSet.Picture
			}
			if err := s.users.Update(user); err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrUserNotFound
	}

	now := time.Now()
	user.LastLogin = now
	if err := s.users.Update(user); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return s.issueToken(user)
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.cfg.JWT.Secret, s.cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &AuthResult{Token: token, User: user}, nil
}
