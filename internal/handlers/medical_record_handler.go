package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/clock"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// MedicalRecordHandler covers the clinical history of a pet. Writes
// are staff-only; clients read the records of their own pets.
type MedicalRecordHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewMedicalRecordHandler(db *gorm.DB, auditor *audit.Dispatcher) *MedicalRecordHandler {
	return &MedicalRecordHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreateMedicalRecordRequest struct {
	PetID       uint       `json:"pet_id" binding:"required"`
	RecordDate  *time.Time `json:"record_date"`
	Description string     `json:"description" binding:"required"`
	Treatment   string     `json:"treatment"`
	Notes       string     `json:"notes"`
}

type UpdateMedicalRecordRequest struct {
	Description *string `json:"description,omitempty"`
	Treatment   *string `json:"treatment,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// --------- Handlers ---------

func (h *MedicalRecordHandler) ListByPet(c *gin.Context) {
	actor := middleware.Actor(c)

	petID := pathID(c)
	if petID == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var pet models.Pet
	if err := h.db.First(&pet, petID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Mascota no encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_pet", "Error al consultar la mascota.")
		return
	}

	if !actor.Staff() && pet.OwnerID != actor.UserID {
		httperr.WriteError(c, httperr.ErrForbidden)
		return
	}

	var records []models.MedicalRecord
	if err := h.db.
		Where("pet_id = ?", petID).
		Order("record_date DESC").
		Find(&records).Error; err != nil {

		httperr.Internal(c, "failed_to_list_records", "Error al listar el historial.")
		return
	}

	httpresp.List(c, records)
}

func (h *MedicalRecordHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	recordDate := clock.Now()
	if req.RecordDate != nil {
		recordDate = *req.RecordDate
	}
	if recordDate.After(clock.Now()) {
		httperr.BadRequest(c, "invalid_record_date", "La fecha del registro no puede ser futura.")
		return
	}

	record := models.MedicalRecord{
		PetID:       req.PetID,
		RecordDate:  recordDate,
		Description: req.Description,
		Treatment:   req.Treatment,
		Notes:       req.Notes,
	}

	if err := h.db.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			httperr.BadRequest(c, "invalid_pet", "Mascota inválida.")
			return
		}
		httperr.Internal(c, "failed_to_create_record", "Error al crear el registro médico.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "medical_record_created",
		Entity:   "medical_record",
		EntityID: &record.ID,
		Metadata: gin.H{"pet_id": record.PetID},
	})

	httpresp.Created(c, record)
}

func (h *MedicalRecordHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var record models.MedicalRecord
	if err := h.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "record_not_found", "Registro médico no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_record", "Error al consultar el registro médico.")
		return
	}

	var req UpdateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Description != nil {
		record.Description = *req.Description
	}
	if req.Treatment != nil {
		record.Treatment = *req.Treatment
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}

	if err := h.db.Save(&record).Error; err != nil {
		httperr.Internal(c, "failed_to_update_record", "Error al actualizar el registro médico.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "medical_record_updated",
		Entity:   "medical_record",
		EntityID: &record.ID,
	})

	httpresp.OK(c, record)
}

func (h *MedicalRecordHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.Delete(&models.MedicalRecord{}, id)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_record", "Error al eliminar el registro médico.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "record_not_found", "Registro médico no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "medical_record_deleted",
		Entity:   "medical_record",
		EntityID: &id,
	})

	c.Status(204)
}
