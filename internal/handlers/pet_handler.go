package handlers

import (
	"errors"
	"strings"
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

type PetHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPetHandler(db *gorm.DB, auditor *audit.Dispatcher) *PetHandler {
	return &PetHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreatePetRequest struct {
	Name      string     `json:"name" binding:"required"`
	Species   string     `json:"species" binding:"required"`
	Breed     string     `json:"breed"`
	BirthDate *time.Time `json:"birth_date"`

	// Staff only; clients always own the pets they register.
	OwnerID uint `json:"owner_id"`
}

type UpdatePetRequest struct {
	Name      *string    `json:"name,omitempty"`
	Species   *string    `json:"species,omitempty"`
	Breed     *string    `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// --------- Helpers ---------

// loadOwned fetches a pet and enforces that clients only touch their
// own animals.
func (h *PetHandler) loadOwned(c *gin.Context, id uint) (*models.Pet, bool) {
	actor := middleware.Actor(c)

	var pet models.Pet
	if err := h.db.Preload("Owner").First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "pet_not_found", "Mascota no encontrada.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_pet", "Error al consultar la mascota.")
		return nil, false
	}

	if !actor.Staff() && pet.OwnerID != actor.UserID {
		httperr.WriteError(c, httperr.ErrForbidden)
		return nil, false
	}

	return &pet, true
}

// --------- Handlers ---------

func (h *PetHandler) List(c *gin.Context) {
	actor := middleware.Actor(c)

	q := h.db.Model(&models.Pet{}).Preload("Owner")

	if actor.Staff() {
		if ownerID := queryUint(c, "owner_id"); ownerID != 0 {
			q = q.Where("owner_id = ?", ownerID)
		}
		if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
			like := "%" + search + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(species) LIKE ?", like, like)
		}
	} else {
		q = q.Where("owner_id = ?", actor.UserID)
	}

	var pets []models.Pet
	if err := q.Order("id ASC").Find(&pets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_pets", "Error al listar mascotas.")
		return
	}

	httpresp.List(c, pets)
}

func (h *PetHandler) Get(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	pet, ok := h.loadOwned(c, id)
	if !ok {
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.BirthDate != nil && req.BirthDate.After(clock.Now()) {
		httperr.BadRequest(c, "invalid_birth_date", "La fecha de nacimiento no puede ser futura.")
		return
	}

	ownerID := actor.UserID
	if actor.Staff() && req.OwnerID != 0 {
		ownerID = req.OwnerID
	}

	pet := models.Pet{
		Name:      strings.TrimSpace(req.Name),
		Species:   strings.TrimSpace(req.Species),
		Breed:     strings.TrimSpace(req.Breed),
		BirthDate: req.BirthDate,
		OwnerID:   ownerID,
	}

	if err := h.db.Create(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			httperr.BadRequest(c, "invalid_owner", "Propietario inválido.")
			return
		}
		httperr.Internal(c, "failed_to_create_pet", "Error al registrar la mascota.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "pet_created",
		Entity:   "pet",
		EntityID: &pet.ID,
	})

	httpresp.Created(c, pet)
}

func (h *PetHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	pet, ok := h.loadOwned(c, id)
	if !ok {
		return
	}

	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		pet.Name = strings.TrimSpace(*req.Name)
	}
	if req.Species != nil {
		pet.Species = strings.TrimSpace(*req.Species)
	}
	if req.Breed != nil {
		pet.Breed = strings.TrimSpace(*req.Breed)
	}
	if req.BirthDate != nil {
		if req.BirthDate.After(clock.Now()) {
			httperr.BadRequest(c, "invalid_birth_date", "La fecha de nacimiento no puede ser futura.")
			return
		}
		pet.BirthDate = req.BirthDate
	}

	if err := h.db.Save(pet).Error; err != nil {
		httperr.Internal(c, "failed_to_update_pet", "Error al actualizar la mascota.")
		return
	}

	httpresp.OK(c, pet)
}

func (h *PetHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	pet, ok := h.loadOwned(c, id)
	if !ok {
		return
	}

	// Appointments and medical records cascade with the pet.
	if err := h.db.Delete(pet).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_pet", "Error al eliminar la mascota.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "pet_deleted",
		Entity:   "pet",
		EntityID: &id,
	})

	c.Status(204)
}
