package service

import (
	"context"
	"errors"
	"fmt"

	"itam-go/internal/apperr"
	"itam-go/internal/config"
	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"

	"gorm.io/gorm"
)

// AuthService 认证服务
type AuthService struct {
	userRepo   *repository.UserRepository
	deptRepo   *repository.DepartmentRepository
	jwtManager *utils.JWTManager
	cfg        *config.Config
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo *repository.UserRepository, deptRepo *repository.DepartmentRepository, jwtManager *utils.JWTManager, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		deptRepo:   deptRepo,
		jwtManager: jwtManager,
		cfg:        cfg,
	}
}

// Register 用户注册
// 新用户默认激活, 邮箱验证由管理员确认后才能访问资源
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// 验证用户名是否已存在
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("A user with that username already exists.")
	}
	if req.DepartmentID != nil {
		exists, err := s.deptRepo.Exists(ctx, *req.DepartmentID)
		if err := mustExist("department", exists, err); err != nil {
			return nil, err
		}
	}

	// 哈希密码
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	// 创建用户
	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Gender:       genderOrDefault(req.Gender),
		Telephone:    normalizeTelephone(req.Telephone),
		DepartmentID: req.DepartmentID,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "")
	}

	return user, nil
}

// Login 用户登录
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// 获取用户
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Invalid username or password.")
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}

	// 验证密码
	if err := utils.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, apperr.Unauthorized("Invalid username or password.")
	}

	// 检查用户是否激活
	if !user.IsActive {
		return nil, apperr.Unauthorized("User account is disabled.")
	}

	// 生成Token
	token, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("生成Token失败: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        dto.NewUserInfo(user),
	}, nil
}

// GetMe 获取当前用户信息
func (s *AuthService) GetMe(ctx context.Context, userID uint) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, userNotFound)
	}
	info := dto.NewUserInfo(user)
	return &info, nil
}

// ResolveActor 根据 Token 中的用户ID加载当前操作者
// 用户不存在时返回 nil, 由访问策略拒绝
func (s *AuthService) ResolveActor(ctx context.Context, userID uint) (*policy.Actor, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return policy.ActorFromUser(user), nil
}

// InitAdmin 初始化管理员账户
func (s *AuthService) InitAdmin(ctx context.Context) error {
	// 检查是否已有管理员
	admin, err := s.userRepo.GetStaff(ctx)
	if err == nil && admin != nil {
		return nil // 已存在管理员
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("查询管理员失败: %w", err)
	}

	// 配置中的密码可以直接是 bcrypt 哈希
	passwordHash := s.cfg.Admin.Password
	if !utils.IsPasswordHash(passwordHash) {
		hashedPassword, err := utils.HashPassword(s.cfg.Admin.Password)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}
		passwordHash = hashedPassword
	}

	// 创建管理员
	user := &models.User{
		Username:      s.cfg.Admin.Username,
		Email:         s.cfg.Admin.Email,
		PasswordHash:  passwordHash,
		Gender:        models.GenderNone,
		IsActive:      true,
		IsStaff:       true,
		EmailVerified: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("创建管理员失败: %w", err)
	}

	return nil
}
