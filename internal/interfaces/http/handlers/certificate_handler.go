package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harborwise/fleetsurvey/internal/application/fleet"
	appsurvey "github.com/harborwise/fleetsurvey/internal/application/survey"
	"github.com/harborwise/fleetsurvey/pkg/errors"
)

// maxDocumentSize caps uploaded certificate scans at 32 MiB.
const maxDocumentSize = 32 << 20

// CertificateHandler serves the certificate registry and document archive
// endpoints.
type CertificateHandler struct {
	certs  fleet.CertificateService
	recalc appsurvey.RecalculationService
}

// NewCertificateHandler builds the handler.
func NewCertificateHandler(certs fleet.CertificateService, recalc appsurvey.RecalculationService) *CertificateHandler {
	return &CertificateHandler{certs: certs, recalc: recalc}
}

// Create handles POST /api/v1/certificates.
func (h *CertificateHandler) Create(c *gin.Context) {
	var req fleet.CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: %v", err))
		return
	}
	cert, err := h.certs.CreateCertificate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, cert)
}

// Get handles GET /api/v1/certificates/:id.
func (h *CertificateHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	cert, err := h.certs.GetCertificate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cert)
}

// ListByShip handles GET /api/v1/ships/:id/certificates.
func (h *CertificateHandler) ListByShip(c *gin.Context) {
	shipID, ok := pathID(c, "id")
	if !ok {
		return
	}
	certs, err := h.certs.ListByShip(c.Request.Context(), shipID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, certs)
}

// Preview handles POST /api/v1/certificates/:id/recalculate.  It computes
// the next survey without persisting, for operator what-if checks.
func (h *CertificateHandler) Preview(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.recalc.PreviewCertificate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// UploadDocument handles PUT /api/v1/certificates/:id/document.
func (h *CertificateHandler) UploadDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("document")
	if err != nil {
		respondError(c, errors.Validation("missing document form file: %v", err))
		return
	}
	defer file.Close()

	if header.Size > maxDocumentSize {
		respondError(c, errors.Validation("document exceeds %d bytes", maxDocumentSize))
		return
	}

	cert, err := h.certs.UploadDocument(c.Request.Context(), id, fleet.DocumentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, cert)
}

// DocumentURL handles GET /api/v1/certificates/:id/document.
func (h *CertificateHandler) DocumentURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.certs.DocumentURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"url": url})
}
