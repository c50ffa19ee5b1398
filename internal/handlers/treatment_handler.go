package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

type TreatmentHandler struct {
	db *gorm.DB
}

func NewTreatmentHandler(db *gorm.DB) *TreatmentHandler {
	return &TreatmentHandler{db: db}
}

// --------- Requests ---------

type CreateTreatmentRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Cost        *float64 `json:"cost"`
}

type UpdateTreatmentRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
}

// --------- Handlers ---------

func (h *TreatmentHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Treatment{})

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ?", like)
	}

	var treatments []models.Treatment
	if err := q.Order("name ASC").Find(&treatments).Error; err != nil {
		httperr.Internal(c, "failed_to_list_treatments", "Error al listar tratamientos.")
		return
	}

	httpresp.List(c, treatments)
}

func (h *TreatmentHandler) Create(c *gin.Context) {
	var req CreateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	t := models.Treatment{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Cost:        req.Cost,
	}

	if err := h.db.Create(&t).Error; err != nil {
		httperr.Internal(c, "failed_to_create_treatment", "Error al crear el tratamiento.")
		return
	}

	httpresp.Created(c, t)
}

func (h *TreatmentHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var t models.Treatment
	if err := h.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "treatment_not_found", "Tratamiento no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_treatment", "Error al consultar el tratamiento.")
		return
	}

	var req UpdateTreatmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Cost != nil {
		t.Cost = req.Cost
	}

	if err := h.db.Save(&t).Error; err != nil {
		httperr.Internal(c, "failed_to_update_treatment", "Error al actualizar el tratamiento.")
		return
	}

	httpresp.OK(c, t)
}

func (h *TreatmentHandler) Delete(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.Delete(&models.Treatment{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			httperr.WriteError(c, httperr.ErrDependency)
			return
		}
		httperr.Internal(c, "failed_to_delete_treatment", "Error al eliminar el tratamiento.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "treatment_not_found", "Tratamiento no encontrado.")
		return
	}

	c.Status(204)
}
