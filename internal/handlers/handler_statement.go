package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvillagrablanco/inmova-reconciliation/internal/apperrors"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/core/domain"
	portssvc "github.com/dvillagrablanco/inmova-reconciliation/internal/core/ports/services"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/dto"
	"github.com/dvillagrablanco/inmova-reconciliation/internal/middleware"
)

// statementHandler handles HTTP requests for statement uploads.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
}

// newStatementHandler creates a new statementHandler.
func newStatementHandler(statementService portssvc.StatementSvcFacade) *statementHandler {
	return &statementHandler{
		statementService: statementService,
	}
}

// importStatement accepts a bank statement file (multipart "file" part or
// base64 "contentBase64" form field), parses it and imports the resulting
// transactions. A structurally invalid file imports nothing and returns 422.
func (h *statementHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ImportStatementRequest{}
	if err := c.ShouldBind(&req); err != nil {
		logger.Error("Failed to bind statement upload form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	fileBytes, err := h.readStatementFile(c, req)
	if err != nil {
		logger.Error("Failed to read statement file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or unreadable statement file"})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.statementService.ImportStatement(
		c.Request.Context(),
		req.CompanyID,
		domain.StatementFormat(req.Format),
		fileBytes,
		req.AccountIBAN,
		actorID,
	)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrParse):
			logger.Warn("Statement rejected as unparseable", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Statement upload validation failed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to import statement", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statement"})
		}
		return
	}

	logger.Info("Statement imported",
		slog.String("company_id", req.CompanyID),
		slog.String("format", req.Format),
		slog.Int("imported", report.Imported),
		slog.Int("duplicates", report.Duplicates),
	)
	c.JSON(http.StatusOK, dto.ToImportStatementResponse(report))
}

func (h *statementHandler) readStatementFile(c *gin.Context, req dto.ImportStatementRequest) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	if req.ContentBase64 != "" {
		return base64.StdEncoding.DecodeString(req.ContentBase64)
	}
	return nil, errors.New("no file part and no contentBase64 field")
}
