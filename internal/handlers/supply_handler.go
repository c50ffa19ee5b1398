package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

type SupplyHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSupplyHandler(db *gorm.DB, auditor *audit.Dispatcher) *SupplyHandler {
	return &SupplyHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type CreateSupplyRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Stock         int      `json:"stock" binding:"min=0"`
	Unit          string   `json:"unit" binding:"required"`
	LowStockLevel *int     `json:"low_stock_level"`
	CostPrice     *float64 `json:"cost_price"`
	SalePrice     *float64 `json:"sale_price"`
}

type UpdateSupplyRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	LowStockLevel *int     `json:"low_stock_level,omitempty"`
	CostPrice     *float64 `json:"cost_price,omitempty"`
	SalePrice     *float64 `json:"sale_price,omitempty"`
}

type AdjustStockRequest struct {
	// Delta is added to the current stock; negative consumes.
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

// --------- Handlers ---------

func (h *SupplyHandler) List(c *gin.Context) {
	q := h.db.Model(&models.Supply{})

	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ?", like)
	}

	if c.Query("low_stock") == "true" {
		q = q.Where("low_stock_level IS NOT NULL AND stock <= low_stock_level")
	}

	var supplies []models.Supply
	if err := q.Order("name ASC").Find(&supplies).Error; err != nil {
		httperr.Internal(c, "failed_to_list_supplies", "Error al listar insumos.")
		return
	}

	httpresp.List(c, supplies)
}

func (h *SupplyHandler) Create(c *gin.Context) {
	var req CreateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	supply := models.Supply{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Stock:         req.Stock,
		Unit:          strings.TrimSpace(req.Unit),
		LowStockLevel: req.LowStockLevel,
		CostPrice:     req.CostPrice,
		SalePrice:     req.SalePrice,
	}

	if err := h.db.Create(&supply).Error; err != nil {
		httperr.Internal(c, "failed_to_create_supply", "Error al crear el insumo.")
		return
	}

	httpresp.Created(c, supply)
}

func (h *SupplyHandler) Update(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var supply models.Supply
	if err := h.db.First(&supply, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "supply_not_found", "Insumo no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_supply", "Error al consultar el insumo.")
		return
	}

	var req UpdateSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if req.Name != nil {
		supply.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		supply.Description = *req.Description
	}
	if req.Unit != nil {
		supply.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.LowStockLevel != nil {
		supply.LowStockLevel = req.LowStockLevel
	}
	if req.CostPrice != nil {
		supply.CostPrice = req.CostPrice
	}
	if req.SalePrice != nil {
		supply.SalePrice = req.SalePrice
	}

	if err := h.db.Save(&supply).Error; err != nil {
		httperr.Internal(c, "failed_to_update_supply", "Error al actualizar el insumo.")
		return
	}

	httpresp.OK(c, supply)
}

// AdjustStock applies a delta under a row lock so concurrent invoices
// and manual corrections never drive the count negative.
func (h *SupplyHandler) AdjustStock(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	var supply models.Supply

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&supply, id).Error; err != nil {
			return err
		}

		if supply.Stock+req.Delta < 0 {
			return httperr.Validation("delta", "Stock insuficiente.")
		}

		supply.Stock += req.Delta
		return tx.Save(&supply).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "supply_not_found", "Insumo no encontrado.")
			return
		}
		httperr.WriteError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "supply_stock_adjusted",
		Entity:   "supply",
		EntityID: &id,
		Metadata: gin.H{"delta": req.Delta, "reason": req.Reason},
	})

	httpresp.OK(c, supply)
}

func (h *SupplyHandler) Delete(c *gin.Context) {
	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	res := h.db.Delete(&models.Supply{}, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			httperr.WriteError(c, httperr.ErrDependency)
			return
		}
		httperr.Internal(c, "failed_to_delete_supply", "Error al eliminar el insumo.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "supply_not_found", "Insumo no encontrado.")
		return
	}

	c.Status(204)
}
