package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	domain "github.com/petcarelabs/vetclinic-api/internal/domain/appointment"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	"github.com/petcarelabs/vetclinic-api/internal/models"
	"github.com/petcarelabs/vetclinic-api/internal/validators"
)

// UserHandler is the admin-facing account management surface.
type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, auditor *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	Role    *string `json:"role,omitempty"`
}

// --------- Handlers ---------

func (h *UserHandler) List(c *gin.Context) {
	role := strings.TrimSpace(c.Query("role"))
	search := strings.ToLower(strings.TrimSpace(c.Query("search")))

	q := h.db.Model(&models.User{})

	if role != "" {
		q = q.Where("role = ?", role)
	}

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Error al listar usuarios.")
		return
	}

	httpresp.List(c, users)
}

// Veterinarians lists the bookable staff. Any authenticated user can
// call it; the booking form needs it.
func (h *UserHandler) Veterinarians(c *gin.Context) {
	var vets []models.User
	if err := h.db.
		Where("role = ?", string(domain.RoleVet)).
		Order("name ASC").
		Find(&vets).Error; err != nil {

		httperr.Internal(c, "failed_to_list_veterinarians", "Error al listar veterinarios.")
		return
	}

	httpresp.List(c, vets)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var user models.User
	if err := h.db.Preload("Pets").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Error al consultar el usuario.")
		return
	}

	httpresp.OK(c, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if !domain.Role(req.Role).Valid() {
		httperr.BadRequest(c, "invalid_role", "Rol inválido.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !validators.IsEmailDomainValid(email) {
		httperr.BadRequest(c, "invalid_email_domain", "El dominio del correo no parece ser válido.")
		return
	}

	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "El correo ya está registrado.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Error al crear el usuario.")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Address:      req.Address,
		Role:         req.Role,
	}

	if err := h.db.Create(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_create_user", "Error al crear el usuario.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "user_created",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: gin.H{"role": user.Role},
	})

	httpresp.Created(c, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_user", "Error al consultar el usuario.")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.Role != nil {
		if !domain.Role(*req.Role).Valid() {
			httperr.BadRequest(c, "invalid_role", "Rol inválido.")
			return
		}
		user.Role = *req.Role
	}

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Error al actualizar el usuario.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "user_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	httpresp.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if id == actor.UserID {
		httperr.BadRequest(c, "cannot_delete_self", "No puede eliminar su propia cuenta.")
		return
	}

	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			httperr.WriteError(c, httperr.ErrDependency)
			return
		}
		httperr.Internal(c, "failed_to_delete_user", "Error al eliminar el usuario.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "Usuario no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: &id,
	})

	c.Status(204)
}
