package services

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// ParticipantService 参会人员服务（扁平权限实体）
type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

// Create 创建参会人员
func (s *ParticipantService) Create(userID, positionID, statusID *uint, name, email, department string) (*models.Participant, error) {
	if err := s.ValidateParams(name, email); err != nil {
		return nil, err
	}

	participant := &models.Participant{
		UserID:             userID,
		Name:               name,
		Email:              email,
		Department:         department,
		PositionID:         positionID,
		EmploymentStatusID: statusID,
	}

	err := s.db.Create(participant).Error
	return participant, err
}

// GetByID 根据ID获取参会人员
func (s *ParticipantService) GetByID(id uint) (*models.Participant, error) {
	var participant models.Participant
	err := s.db.Preload("User").Preload("Position").Preload("EmploymentStatus").
		First(&participant, id).Error
	return &participant, err
}

// GetWithPage 分页获取参会人员
func (s *ParticipantService) GetWithPage(keyword, department string, page, pageSize int) ([]*models.Participant, int64, error) {
	var participants []*models.Participant
	var total int64

	query := s.db.Model(&models.Participant{})
	if keyword != "" {
		pattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}
	if department != "" {
		query = query.Where("department = ?", department)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Position").Preload("EmploymentStatus").
		Order("name ASC").
		Offset(offset).Limit(pageSize).
		Find(&participants).Error
	if err != nil {
		return nil, 0, err
	}

	return participants, total, nil
}

// GetAll 获取全部参会人员（导出用）
func (s *ParticipantService) GetAll() ([]*models.Participant, error) {
	var participants []*models.Participant
	err := s.db.Preload("Position").Preload("EmploymentStatus").
		Order("name ASC").
		Find(&participants).Error
	return participants, err
}

// Update 更新参会人员
func (s *ParticipantService) Update(id uint, userID, positionID, statusID *uint, name, email, department string) (*models.Participant, error) {
	if err := s.ValidateParams(name, email); err != nil {
		return nil, err
	}

	var participant models.Participant
	err := s.db.First(&participant, id).Error
	if err != nil {
		return nil, err
	}

	participant.UserID = userID
	participant.Name = name
	participant.Email = email
	participant.Department = department
	participant.PositionID = positionID
	participant.EmploymentStatusID = statusID

	err = s.db.Save(&participant).Error
	return &participant, err
}

// Delete 删除参会人员（软删除）
func (s *ParticipantService) Delete(id uint) error {
	var participant models.Participant
	err := s.db.First(&participant, id).Error
	if err != nil {
		return err
	}
	return s.db.Delete(&participant).Error
}

// FindByEmail 根据邮箱查找参会人员（导入去重用）
func (s *ParticipantService) FindByEmail(email string) (*models.Participant, error) {
	var participant models.Participant
	err := s.db.Where("email = ?", email).First(&participant).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// ========== 验证方法 ==========

var participantEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateParams 验证参会人员参数
func (s *ParticipantService) ValidateParams(name, email string) error {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 2 || runeCount > 100 {
		return fmt.Errorf("姓名长度必须在2-100个字符之间")
	}
	if email != "" && !participantEmailRegex.MatchString(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	return nil
}
