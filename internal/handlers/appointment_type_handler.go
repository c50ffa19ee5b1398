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

type AppointmentTypeHandler struct {
	db *gorm.DB
}

func NewAppointmentTypeHandler(db *gorm.DB) *AppointmentTypeHandler {
	return &AppointmentTypeHandler{db: db}
}

// --------- Requests ---------

type CreateAppointmentTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	DurationMin int    `json:"duration_min" binding:"required,min=15,max=240"`
}

type UpdateAppointmentTypeRequest struct {
	Name        *string `json:"name,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
}

// --------- Handlers ---------

func (h *AppointmentTypeHandler) List(c *gin.Context) {
	var types []models.AppointmentType
	if err := h.db.Order("name ASC").Find(&types).Error; err != nil {
		httperr.Internal(c, "failed_to_list_types", "Error al listar tipos de cita.")
		return
	}

	httpresp.List(c, types)
}

func (h *AppointmentTypeHandler) Create(c *gin.Context) {
	var req CreateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	t := models.AppointmentType{
		Name:        strings.TrimSpace(req.Name),
		DurationMin: req.DurationMin,
	}

	if err := h.db.Create(&t).Error; err != nil {
		httperr.Internal(c, "failed_to_create_type", "Error al crear el tipo de cita.")
		return
	}

	httpresp.Created(c, t)
}

func (h *AppointmentTypeHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var t models.AppointmentType
	if err := h.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "type_not_found", "Tipo de cita no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_type", "Error al consultar el tipo de cita.")
		return
	}

	var req UpdateAppointmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 15 || *req.DurationMin > 240 {
			httperr.BadRequest(c, "invalid_duration", "La duración debe estar entre 15 y 240 minutos.")
			return
		}
		t.DurationMin = *req.DurationMin
	}

	if err := h.db.Save(&t).Error; err != nil {
		httperr.Internal(c, "failed_to_update_type", "Error al actualizar el tipo de cita.")
		return
	}

	httpresp.OK(c, t)
}

func (h *AppointmentTypeHandler) Delete(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.Delete(&models.AppointmentType{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			httperr.WriteError(c, httperr.ErrDependency)
			return
		}
		httperr.Internal(c, "failed_to_delete_type", "Error al eliminar el tipo de cita.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "type_not_found", "Tipo de cita no encontrado.")
		return
	}

	c.Status(204)
}
