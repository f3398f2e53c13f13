package handler

import (
	"context"
	"net/http"

	"github.com/cabinet/backend/internal/application/invoicing"
	"github.com/cabinet/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InvoiceService is the slice of the invoicing application service the
// handler invokes.
type InvoiceService interface {
	GeneratePDF(ctx context.Context, req invoicing.GenerateRequest) invoicing.GenerateResult
	DownloadPDF(ctx context.Context, invoiceID string) invoicing.DownloadResult
}

// InvoicePDFHandler exposes the PDF pipeline over HTTP. Pipeline outcomes,
// success or failure, are always HTTP 200 with the structured result
// envelope; only malformed requests get a 4xx.
type InvoicePDFHandler struct {
	BaseHandler
	service InvoiceService
	logger  *zap.Logger
}

// NewInvoicePDFHandler creates an invoice PDF handler
func NewInvoicePDFHandler(service InvoiceService, logger *zap.Logger) *InvoicePDFHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoicePDFHandler{service: service, logger: logger}
}

// RegisterRoutes registers the invoice PDF routes
func (h *InvoicePDFHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.POST("/pdf", h.GeneratePDF)
		invoices.GET("/:id/pdf-url", h.DownloadPDF)
	}
}

// GeneratePDF handles POST /invoices/pdf
func (h *InvoicePDFHandler) GeneratePDF(c *gin.Context) {
	var req dto.GeneratePDFRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	h.logger.Info("invoice PDF generation requested",
		zap.String("requestId", getRequestID(c)),
		zap.String("invoiceId", req.Arguments.InvoiceID))

	result := h.service.GeneratePDF(c.Request.Context(), invoicing.GenerateRequest{
		InvoiceID: req.Arguments.InvoiceID,
		UserID:    req.Identity.UserID(),
	})
	c.JSON(http.StatusOK, result)
}

// DownloadPDF handles GET /invoices/:id/pdf-url
func (h *InvoicePDFHandler) DownloadPDF(c *gin.Context) {
	result := h.service.DownloadPDF(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, result)
}
