package repository

import (
	"context"

	"itam-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户数据访问层
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户Repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) scoped(ctx context.Context, filter UserFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.ID != nil {
		q = q.Where("id = ?", *filter.ID)
	}
	return q
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
}

// GetByID 根据ID获取用户(不受可见范围限制)
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.Get(ctx, id, UserFilter{})
}

// Get 在可见范围内根据ID获取用户
func (r *UserRepository) Get(ctx context.Context, id uint, filter UserFilter) (*models.User, error) {
	var user models.User
	err := r.scoped(ctx, filter).Preload("Department").Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername 检查用户名是否存在
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Exists 检查用户是否存在
func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetStaff 获取任意一个管理员
func (r *UserRepository) GetStaff(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("is_staff = ?", true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
}

// SetActive 更新激活状态
func (r *UserRepository) SetActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 物理删除用户
// 拥有的设备(及其工单、安装记录)级联删除, 分配关系和技术员引用置空
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned []string
		if err := tx.Model(&models.Device{}).Where("user_id = ?", id).Pluck("device_id", &owned).Error; err != nil {
			return err
		}
		if err := deleteDeviceRows(tx, owned); err != nil {
			return err
		}
		if err := tx.Model(&models.Device{}).
			Where("assigned_to_id = ?", id).
			Update("assigned_to_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.MaintenanceIntervention{}).
			Where("technician_id = ?", id).
			Update("technician_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// List 按创建顺序获取可见用户列表
func (r *UserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	var users []models.User
	err := r.scoped(ctx, filter).Preload("Department").Order("id ASC").Find(&users).Error
	return users, err
}
