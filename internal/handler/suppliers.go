package handler

import (
	"errors"
	"net/http"

	"martpos/internal/apierror"
	"martpos/internal/model"
	"martpos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SuppliersHandler is a thin CRUD surface over supplier provenance records.
// Suppliers carry no inventory logic, so the handler talks to the repository
// directly.
type SuppliersHandler struct{ repo repository.SupplierRepository }

func NewSuppliersHandler(repo repository.SupplierRepository) *SuppliersHandler {
	return &SuppliersHandler{repo: repo}
}

type createSupplierRequest struct {
	Name    string  `json:"name" validate:"required"`
	TaxID   *string `json:"tax_id,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty"`
}

func (h *SuppliersHandler) Create(c *gin.Context) {
	var req createSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	s := &model.Supplier{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  true,
	}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SuppliersHandler) List(c *gin.Context) {
	suppliers, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": suppliers})
}

func (h *SuppliersHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid supplier id"))
		return
	}
	s, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("supplier not found"))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
