package services

import (
	"fmt"
	"unicode/utf8"

	"meetgov/internal/models"

	"gorm.io/gorm"
)

// HelpService 帮助中心服务（分类+文章，扁平权限实体）
type HelpService struct {
	db *gorm.DB
}

func NewHelpService(db *gorm.DB) *HelpService {
	return &HelpService{db: db}
}

// ========== 分类 ==========

// CreateCategory 创建帮助分类
func (s *HelpService) CreateCategory(name string, sortOrder int) (*models.HelpCategory, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("分类名称长度必须在2-100个字符之间")
	}

	category := &models.HelpCategory{Name: name, SortOrder: sortOrder}
	err := s.db.Create(category).Error
	return category, err
}

// GetCategories 获取全部分类（含文章，按排序号）
// publishedOnly为true时只带已发布的文章
func (s *HelpService) GetCategories(publishedOnly bool) ([]*models.HelpCategory, error) {
	var categories []*models.HelpCategory
	query := s.db.Order("sort_order ASC, id ASC")
	if publishedOnly {
		query = query.Preload("Articles", "published = ?", true)
	} else {
		query = query.Preload("Articles")
	}
	err := query.Find(&categories).Error
	return categories, err
}

// UpdateCategory 更新帮助分类
func (s *HelpService) UpdateCategory(id uint, name string, sortOrder int) (*models.HelpCategory, error) {
	if !validateCatalogName(name) {
		return nil, fmt.Errorf("分类名称长度必须在2-100个字符之间")
	}

	var category models.HelpCategory
	err := s.db.First(&category, id).Error
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.SortOrder = sortOrder
	err = s.db.Save(&category).Error
	return &category, err
}

// DeleteCategory 删除帮助分类，存在文章时拒绝
func (s *HelpService) DeleteCategory(id uint) error {
	var count int64
	s.db.Model(&models.HelpArticle{}).Where("category_id = ?", id).Count(&count)
	if count > 0 {
		return fmt.Errorf("该分类下存在文章，不能删除")
	}
	return s.db.Delete(&models.HelpCategory{}, id).Error
}

// ========== 文章 ==========

// CreateArticle 创建帮助文章（默认未发布）
func (s *HelpService) CreateArticle(categoryID uint, title, body string) (*models.HelpArticle, error) {
	if !s.ValidateArticleTitle(title) {
		return nil, fmt.Errorf("文章标题长度必须在2-255个字符之间")
	}

	var catCount int64
	s.db.Model(&models.HelpCategory{}).Where("id = ?", categoryID).Count(&catCount)
	if catCount == 0 {
		return nil, fmt.Errorf("帮助分类不存在")
	}

	article := &models.HelpArticle{
		CategoryID: categoryID,
		Title:      title,
		Body:       body,
	}
	err := s.db.Create(article).Error
	return article, err
}

// GetArticleByID 根据ID获取文章
func (s *HelpService) GetArticleByID(id uint) (*models.HelpArticle, error) {
	var article models.HelpArticle
	err := s.db.Preload("Category").First(&article, id).Error
	return &article, err
}

// UpdateArticle 更新帮助文章
func (s *HelpService) UpdateArticle(id, categoryID uint, title, body string, published bool) (*models.HelpArticle, error) {
	if !s.ValidateArticleTitle(title) {
		return nil, fmt.Errorf("文章标题长度必须在2-255个字符之间")
	}

	var article models.HelpArticle
	err := s.db.First(&article, id).Error
	if err != nil {
		return nil, err
	}

	article.CategoryID = categoryID
	article.Title = title
	article.Body = body
	article.Published = published

	err = s.db.Save(&article).Error
	return &article, err
}

// DeleteArticle 删除帮助文章（软删除）
func (s *HelpService) DeleteArticle(id uint) error {
	return s.db.Delete(&models.HelpArticle{}, id).Error
}

// ValidateArticleTitle 验证文章标题
func (s *HelpService) ValidateArticleTitle(title string) bool {
	runeCount := utf8.RuneCountInString(title)
	return runeCount >= 2 && runeCount <= 255
}
