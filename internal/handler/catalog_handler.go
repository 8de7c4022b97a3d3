package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quiz-api/internal/handler/dto"
	"github.com/yourusername/quiz-api/internal/service"
)

// CatalogHandler обрабатывает запросы категорий и меток
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler создает новый обработчик справочников
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.catalogService.GetCategory(c.Request.Context(), c.GetUint("categoryID"))
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), c.GetUint("categoryID"), req.Name)
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(c.Request.Context(), c.GetUint("categoryID")); err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogService.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.catalogService.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	tag, err := h.catalogService.GetTag(c.Request.Context(), c.GetUint("tagID"))
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) UpdateTag(c *gin.Context) {
	var req dto.NameRequest
	if !bindJSON(c, &req) {
		return
	}

	tag, err := h.catalogService.UpdateTag(c.Request.Context(), c.GetUint("tagID"), req.Name)
	if err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	if err := h.catalogService.DeleteTag(c.Request.Context(), c.GetUint("tagID")); err != nil {
		respondError(c, "CatalogHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}
