package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tracksuite/internal/models"
	"tracksuite/internal/util"
)

// CategoryHandler serves the category CRUD endpoints.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name      string `json:"name" binding:"required,max=50"`
	Color     string `json:"color" binding:"omitempty,hexcolor"`
	Icon      string `json:"icon" binding:"max=32"`
	IsDefault bool   `json:"isDefault"`
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch categories")
		return
	}
	util.Success(c, util.Response{"categories": categories})
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	category := models.Category{
		Name:      req.Name,
		Color:     req.Color,
		Icon:      req.Icon,
		IsDefault: req.IsDefault,
	}
	if err := h.DB.Create(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create category")
		return
	}
	util.Success(c, util.Response{"category": category})
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to fetch category")
		}
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	category.Name = req.Name
	category.Color = req.Color
	category.Icon = req.Icon
	category.IsDefault = req.IsDefault
	if err := h.DB.Save(&category).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update category")
		return
	}
	util.Success(c, util.Response{"category": category})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.DB.Delete(&models.Category{}, "id = ?", c.Param("id")).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category")
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}
