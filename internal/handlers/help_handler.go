package handlers

import (
	"errors"
	"strconv"

	"meetgov/internal/middleware"
	"meetgov/internal/policy"
	"meetgov/internal/services"
	"meetgov/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HelpCategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type HelpArticleRequest struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Body       string `json:"body"`
	Published  bool   `json:"published"`
}

type HelpHandler struct {
	service   *services.HelpService
	evaluator *policy.Evaluator
}

func NewHelpHandler(service *services.HelpService, evaluator *policy.Evaluator) *HelpHandler {
	return &HelpHandler{
		service:   service,
		evaluator: evaluator,
	}
}

// ========== 分类 ==========

// CreateCategory 创建帮助分类
func (h *HelpHandler) CreateCategory(c *gin.Context) {
	var req HelpCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	category, err := h.service.CreateCategory(req.Name, req.SortOrder)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, category)
}

// GetCategories 获取帮助分类树
// 持有编辑权限的用户可见未发布文章
func (h *HelpHandler) GetCategories(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	publishedOnly := !h.evaluator.Can(userID, policy.VerbEdit, policy.NounHelpArticles)

	categories, err := h.service.GetCategories(publishedOnly)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, categories)
}

// UpdateCategory 更新帮助分类
func (h *HelpHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req HelpCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	category, err := h.service.UpdateCategory(uint(id), req.Name, req.SortOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "分类不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, category)
}

// DeleteCategory 删除帮助分类
func (h *HelpHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.DeleteCategory(uint(id)); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ========== 文章 ==========

// CreateArticle 创建帮助文章
func (h *HelpHandler) CreateArticle(c *gin.Context) {
	var req HelpArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	article, err := h.service.CreateArticle(req.CategoryID, req.Title, req.Body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, article)
}

// GetArticle 获取帮助文章
// 未发布的文章只有持编辑权限的用户可见
func (h *HelpHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	article, err := h.service.GetArticleByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "文章不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	if !article.Published {
		userID := middleware.CurrentUserID(c)
		if !h.evaluator.Can(userID, policy.VerbEdit, policy.NounHelpArticles) {
			response.NotFound(c, "文章不存在")
			return
		}
	}

	response.Success(c, article)
}

// UpdateArticle 更新帮助文章
func (h *HelpHandler) UpdateArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req HelpArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	article, err := h.service.UpdateArticle(uint(id), req.CategoryID, req.Title, req.Body, req.Published)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "文章不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, article)
}

// DeleteArticle 删除帮助文章
func (h *HelpHandler) DeleteArticle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.DeleteArticle(uint(id)); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
