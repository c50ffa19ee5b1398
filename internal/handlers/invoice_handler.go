package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/petcarelabs/vetclinic-api/internal/audit"
	"github.com/petcarelabs/vetclinic-api/internal/clock"
	"github.com/petcarelabs/vetclinic-api/internal/httperr"
	"github.com/petcarelabs/vetclinic-api/internal/httpresp"
	"github.com/petcarelabs/vetclinic-api/internal/middleware"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// InvoiceHandler issues and settles invoices. Line subtotals and the
// invoice total are always recomputed server side; client-sent amounts
// are ignored.
type InvoiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewInvoiceHandler(db *gorm.DB, auditor *audit.Dispatcher) *InvoiceHandler {
	return &InvoiceHandler{db: db, audit: auditor}
}

// --------- Requests ---------

type InvoiceLineRequest struct {
	SupplyID    *uint  `json:"supply_id"`
	TreatmentID *uint  `json:"treatment_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`

	// Only honored for free-form lines; catalog lines price from the
	// supply or treatment record.
	UnitPrice *float64 `json:"unit_price"`
}

type CreateInvoiceRequest struct {
	ClientID uint                 `json:"client_id" binding:"required"`
	Lines    []InvoiceLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// --------- Handlers ---------

func (h *InvoiceHandler) List(c *gin.Context) {
	actor := middleware.Actor(c)

	q := h.db.Model(&models.Invoice{}).Preload("Client").Preload("Lines")

	if actor.Staff() {
		if clientID := queryUint(c, "client_id"); clientID != 0 {
			q = q.Where("client_id = ?", clientID)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
	} else {
		q = q.Where("client_id = ?", actor.UserID)
	}

	var invoices []models.Invoice
	if err := q.Order("issued_at DESC").Find(&invoices).Error; err != nil {
		httperr.Internal(c, "failed_to_list_invoices", "Error al listar facturas.")
		return
	}

	httpresp.List(c, invoices)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var invoice models.Invoice
	if err := h.db.
		Preload("Client").
		Preload("Lines").
		Preload("Lines.Supply").
		Preload("Lines.Treatment").
		First(&invoice, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "invoice_not_found", "Factura no encontrada.")
			return
		}
		httperr.Internal(c, "failed_to_get_invoice", "Error al consultar la factura.")
		return
	}

	if !actor.Staff() && invoice.ClientID != actor.UserID {
		httperr.WriteError(c, httperr.ErrForbidden)
		return
	}

	httpresp.OK(c, invoice)
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	actor := middleware.Actor(c)

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	var invoice models.Invoice

	err := h.db.Transaction(func(tx *gorm.DB) error {
		var client models.User
		if err := tx.First(&client, req.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return httperr.Validation("client_id", "Cliente inválido.")
			}
			return err
		}

		now := clock.Now()

		invoice = models.Invoice{
			ClientID: req.ClientID,
			IssuedAt: now,
			Status:   models.InvoicePending,
		}

		var total float64

		for i, lr := range req.Lines {
			line := models.InvoiceLine{
				Quantity:    lr.Quantity,
				Description: lr.Description,
			}

			switch {
			case lr.SupplyID != nil:
				var supply models.Supply
				if err := tx.
					Clauses(clause.Locking{Strength: "UPDATE"}).
					First(&supply, *lr.SupplyID).Error; err != nil {
					return httperr.Validation(fmt.Sprintf("lines[%d].supply_id", i), "Insumo inválido.")
				}

				if supply.Stock < lr.Quantity {
					return httperr.Validation(
						fmt.Sprintf("lines[%d].quantity", i),
						fmt.Sprintf("Stock insuficiente de %s.", supply.Name),
					)
				}

				// Selling an item consumes stock in the same transaction.
				if err := tx.Model(&supply).
					Update("stock", gorm.Expr("stock - ?", lr.Quantity)).Error; err != nil {
					return err
				}

				line.SupplyID = lr.SupplyID
				if line.Description == "" {
					line.Description = supply.Name
				}
				if supply.SalePrice != nil {
					line.UnitPrice = *supply.SalePrice
				}

			case lr.TreatmentID != nil:
				var treatment models.Treatment
				if err := tx.First(&treatment, *lr.TreatmentID).Error; err != nil {
					return httperr.Validation(fmt.Sprintf("lines[%d].treatment_id", i), "Tratamiento inválido.")
				}

				line.TreatmentID = lr.TreatmentID
				if line.Description == "" {
					line.Description = treatment.Name
				}
				if treatment.Cost != nil {
					line.UnitPrice = *treatment.Cost
				}

			default:
				if lr.Description == "" || lr.UnitPrice == nil || *lr.UnitPrice < 0 {
					return httperr.Validation(
						fmt.Sprintf("lines[%d]", i),
						"Las líneas libres requieren descripción y precio.",
					)
				}
				line.UnitPrice = *lr.UnitPrice
			}

			line.Subtotal = line.UnitPrice * float64(line.Quantity)
			total += line.Subtotal

			invoice.Lines = append(invoice.Lines, line)
		}

		invoice.Total = total
		invoice.Number = fmt.Sprintf("FAC-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.NewString()[:8]))

		return tx.Create(&invoice).Error
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   "invoice_created",
		Entity:   "invoice",
		EntityID: &invoice.ID,
		Metadata: gin.H{"number": invoice.Number, "total": invoice.Total},
	})

	httpresp.Created(c, invoice)
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	h.transition(c, models.InvoicePending, models.InvoicePaid, "invoice_paid")
}

// Void cancels a pending invoice and returns consumed supplies to
// stock.
func (h *InvoiceHandler) Void(c *gin.Context) {
	h.transition(c, models.InvoicePending, models.InvoiceVoided, "invoice_voided")
}

func (h *InvoiceHandler) transition(c *gin.Context, from, to, action string) {
	actor := middleware.Actor(c)

	id := pathID(c)
	if id == 0 {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var invoice models.Invoice

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Lines").
			First(&invoice, id).Error; err != nil {
			return err
		}

		if invoice.Status != from {
			return httperr.ErrBusiness("invalid_state")
		}

		if to == models.InvoiceVoided {
			for _, line := range invoice.Lines {
				if line.SupplyID == nil {
					continue
				}
				if err := tx.Model(&models.Supply{}).
					Where("id = ?", *line.SupplyID).
					Update("stock", gorm.Expr("stock + ?", line.Quantity)).Error; err != nil {
					return err
				}
			}
		}

		invoice.Status = to
		return tx.Model(&invoice).Update("status", to).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "invoice_not_found", "Factura no encontrada.")
			return
		}
		httperr.WriteError(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.UserID,
		Action:   action,
		Entity:   "invoice",
		EntityID: &invoice.ID,
	})

	httpresp.OK(c, invoice)
}
