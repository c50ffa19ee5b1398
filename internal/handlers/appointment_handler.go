package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	usecase "github.com/petcarelabs/vetclinic-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler is a thin HTTP adapter: it binds requests, builds
// the actor and hands everything to the scheduling use cases.
type AppointmentHandler struct {
	create       *usecase.CreateAppointment
	editStaff    *usecase.EditAppointmentStaff
	editClient   *usecase.EditAppointmentClient
	cancelClient *usecase.CancelAppointmentClient
	delete       *usecase.DeleteAppointment
	list         *usecase.ListAppointments
	slots        *usecase.GetAvailableSlots
}

func NewAppointmentHandler(
	create *usecase.CreateAppointment,
	editStaff *usecase.EditAppointmentStaff,
	editClient *usecase.EditAppointmentClient,
	cancelClient *usecase.CancelAppointmentClient,
	del *usecase.DeleteAppointment,
	list *usecase.ListAppointments,
	slots *usecase.GetAvailableSlots,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		editStaff:    editStaff,
		editClient:   editClient,
		cancelClient: cancelClient,
		delete:       del,
		list:         list,
		slots:        slots,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	VeterinarianID    uint `json:"veterinarian_id" binding:"required"`
	AppointmentTypeID uint `json:"appointment_type_id" binding:"required"`

	Reason string `json:"reason"`
	Notes  string `json:"notes"`

	PetID uint `json:"pet_id"`

	RegisterNewPet  bool       `json:"register_new_pet"`
	NewPetName      string     `json:"new_pet_name"`
	NewPetSpecies   string     `json:"new_pet_species"`
	NewPetBreed     string     `json:"new_pet_breed"`
	NewPetBirthDate *time.Time `json:"new_pet_birth_date"`
}

type EditAppointmentRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`

	PetID             uint `json:"pet_id" binding:"required"`
	VeterinarianID    uint `json:"veterinarian_id" binding:"required"`
	AppointmentTypeID uint `json:"appointment_type_id" binding:"required"`

	Status string `json:"status"`

	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// ======================================================
// HANDLERS
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), actor, usecase.CreateAppointmentInput{
		Date:              req.Date,
		Time:              req.Time,
		VeterinarianID:    req.VeterinarianID,
		AppointmentTypeID: req.AppointmentTypeID,
		Reason:            req.Reason,
		Notes:             req.Notes,
		PetID:             req.PetID,
		RegisterNewPet:    req.RegisterNewPet,
		NewPetName:        req.NewPetName,
		NewPetSpecies:     req.NewPetSpecies,
		NewPetBreed:       req.NewPetBreed,
		NewPetBirthDate:   req.NewPetBirthDate,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	actor := middleware.Actor(c)

	in := usecase.ListAppointmentsInput{
		Search:  c.Query("search"),
		Status:  c.Query("status"),
		PetID:   queryUint(c, "pet_id"),
		OwnerID: queryUint(c, "owner_id"),
		VetID:   queryUint(c, "veterinarian_id"),
	}

	if raw := c.Query("date"); raw != "" {
		date, err := domain.ParseDate(raw)
		if err != nil {
			httperr.WriteError(c, err)
			return
		}
		in.Date = &date
	}

	aps, err := h.list.Execute(c.Request.Context(), actor, in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, aps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.list.Get(c.Request.Context(), actor, id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req EditAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	in := usecase.EditAppointmentInput{
		Date:              req.Date,
		Time:              req.Time,
		PetID:             req.PetID,
		VeterinarianID:    req.VeterinarianID,
		AppointmentTypeID: req.AppointmentTypeID,
		Status:            req.Status,
		Reason:            req.Reason,
		Notes:             req.Notes,
	}

	// Staff and clients run different rule sets over the same payload.
	if actor.Staff() {
		ap, err := h.editStaff.Execute(c.Request.Context(), actor, id, in)
		if err != nil {
			httperr.WriteError(c, err)
			return
		}
		httpresp.OK(c, ap)
		return
	}

	ap, err := h.editClient.Execute(c.Request.Context(), actor, id, in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	httpresp.OK(c, ap)
}

// CancelCheck backs the confirmation screen: it validates that the
// cancellation would succeed without changing anything.
func (h *AppointmentHandler) CancelCheck(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancelClient.Check(c.Request.Context(), actor, id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	ap, err := h.cancelClient.Execute(c.Request.Context(), actor, id)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.delete.Execute(c.Request.Context(), actor, id); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(204)
}

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	in := usecase.AvailableSlotsInput{
		Date:           c.Query("date"),
		VeterinarianID: queryUint(c, "veterinarian_id"),
		ExcludeID:      queryUint(c, "exclude_id"),
	}

	if in.Date == "" || in.VeterinarianID == 0 {
		httperr.BadRequest(c, "invalid_request", "Debe indicar fecha y veterinario.")
		return
	}

	slots, err := h.slots.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"slots": slots})
}
