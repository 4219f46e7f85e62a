package service

import (
	"context"
	"fmt"

	"itam-go/internal/apperr"
	"itam-go/internal/dto"
	"itam-go/internal/models"
	"itam-go/internal/policy"
	"itam-go/internal/repository"
	"itam-go/internal/utils"
)

const userNotFound = "User not found."

// UserService 用户服务
type UserService struct {
	gate     *policy.Gate
	repo     *repository.UserRepository
	deptRepo *repository.DepartmentRepository
	audit    *AuditLogger
}

// NewUserService 创建用户服务
func NewUserService(gate *policy.Gate, repo *repository.UserRepository, deptRepo *repository.DepartmentRepository, audit *AuditLogger) *UserService {
	return &UserService{gate: gate, repo: repo, deptRepo: deptRepo, audit: audit}
}

// List 获取可见用户列表
func (s *UserService) List(ctx context.Context, actor *policy.Actor) ([]models.User, error) {
	if err := s.gate.Authorize(actor, policy.ActionList, policy.ResourceUser); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx, policy.UserFilter(actor))
	return users, storeError(err, "")
}

// Get 获取可见用户
func (s *UserService) Get(ctx context.Context, actor *policy.Actor, id uint) (*models.User, error) {
	if err := s.gate.Authorize(actor, policy.ActionView, policy.ResourceUser); err != nil {
		return nil, err
	}
	return s.get(ctx, actor, id)
}

func (s *UserService) get(ctx context.Context, actor *policy.Actor, id uint) (*models.User, error) {
	user, err := s.repo.Get(ctx, id, policy.UserFilter(actor))
	if err != nil {
		return nil, storeError(err, userNotFound)
	}
	return user, nil
}

// Create 创建用户
func (s *UserService) Create(ctx context.Context, actor *policy.Actor, req *dto.UserCreateRequest) (*models.User, error) {
	if err := s.gate.Authorize(actor, policy.ActionCreate, policy.ResourceUser); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkUsername(ctx, req.Username); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("密码哈希失败: %w", err)
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Gender:        genderOrDefault(req.Gender),
		Telephone:     normalizeTelephone(req.Telephone),
		DepartmentID:  req.DepartmentID,
		IsActive:      true,
		IsStaff:       req.IsStaff,
		EmailVerified: req.EmailVerified,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, storeError(err, "")
	}

	s.audit.Success(ctx, actor, policy.ActionCreate, policy.ResourceUser, idKey(user.ID),
		"User created: "+user.Username)
	return s.reload(ctx, user.ID)
}

// Update 更新用户
func (s *UserService) Update(ctx context.Context, actor *policy.Actor, id uint, req *dto.UserUpdateRequest) (*models.User, error) {
	if err := s.gate.Authorize(actor, policy.ActionUpdate, policy.ResourceUser); err != nil {
		return nil, err
	}
	if err := firstError(
		utils.ValidateStruct(req),
		notBlank("username", req.Username),
		notBlank("password", req.Password),
	); err != nil {
		return nil, err
	}

	user, err := s.get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Username != nil && *req.Username != user.Username {
		if err := s.checkUsername(ctx, *req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("密码哈希失败: %w", err)
		}
		user.PasswordHash = hashedPassword
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Gender != nil {
		user.Gender = genderOrDefault(*req.Gender)
	}
	if req.Telephone != nil {
		user.Telephone = normalizeTelephone(req.Telephone)
	}
	if req.DepartmentID != nil {
		user.DepartmentID = req.DepartmentID
	}
	if req.IsStaff != nil {
		user.IsStaff = *req.IsStaff
	}
	if req.EmailVerified != nil {
		user.EmailVerified = *req.EmailVerified
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeError(err, userNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionUpdate, policy.ResourceUser, idKey(user.ID),
		"User updated: "+user.Username)
	return s.reload(ctx, user.ID)
}

// Delete 停用用户, 不删除记录
func (s *UserService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := s.gate.Authorize(actor, policy.ActionDelete, policy.ResourceUser); err != nil {
		return err
	}
	user, err := s.get(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, user.ID, false); err != nil {
		return storeError(err, userNotFound)
	}

	s.audit.Success(ctx, actor, policy.ActionDelete, policy.ResourceUser, idKey(user.ID),
		"User deactivated: "+user.Username)
	return nil
}

// Activate 重新激活用户, 已激活时同样成功
func (s *UserService) Activate(ctx context.Context, actor *policy.Actor, id uint) (*dto.ActionResult, error) {
	key := idKey(id)
	if err := s.gate.Authorize(actor, policy.ActionActivate, policy.ResourceUser); err != nil {
		s.audit.Failure(actor, policy.ActionActivate, policy.ResourceUser, key, err)
		return nil, err
	}

	user, err := s.get(ctx, actor, id)
	if err == nil {
		err = storeError(s.repo.SetActive(ctx, user.ID, true), userNotFound)
	}
	if err != nil {
		s.audit.Failure(actor, policy.ActionActivate, policy.ResourceUser, key, err)
		return nil, err
	}

	s.audit.Success(ctx, actor, policy.ActionActivate, policy.ResourceUser, key,
		"User activated: "+user.Username)
	return &dto.ActionResult{Status: "User activated successfully."}, nil
}

// reload 重新读取用户以带出部门信息
func (s *UserService) reload(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, userNotFound)
	}
	return user, nil
}

func (s *UserService) checkUsername(ctx context.Context, username string) error {
	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("检查用户名失败: %w", err)
	}
	if exists {
		return apperr.Conflict("A user with that username already exists.")
	}
	return nil
}

func (s *UserService) checkDepartment(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	exists, err := s.deptRepo.Exists(ctx, *id)
	return mustExist("department", exists, err)
}

func genderOrDefault(g string) models.Gender {
	if g == "" {
		return models.GenderNone
	}
	return models.Gender(g)
}

// normalizeTelephone 空字符串视为未设置, 避免唯一索引冲突
func normalizeTelephone(t *string) *string {
	if t == nil || *t == "" {
		return nil
	}
	v := *t
	return &v
}
