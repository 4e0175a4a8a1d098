package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-email-triage/internal/core"
	"github.com/mikey/llm-email-triage/internal/metrics"
	"go.uber.org/zap"
)

// Form field names
const (
	FieldText = "texto"
	FieldFile = "arquivo"
)

// Status values in analysis responses
const (
	StatusSuccess = "sucesso"
	StatusError   = "erro"
)

// multipartMemory is how much of a form is held in memory before spilling to disk
const multipartMemory = 8 << 20

// AnalyzeResponse is the body of a 200 analysis response
type AnalyzeResponse struct {
	Status           string `json:"status"`
	Classificacao    string `json:"classificacao,omitempty"`
	RespostaSugerida string `json:"resposta_sugerida,omitempty"`
	Message          string `json:"message,omitempty"`
}

// AnalyzeHandler handles email analysis requests
type AnalyzeHandler struct {
	service        *core.AnalysisService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler. maxUploadBytes <= 0 disables the body limit.
func NewAnalyzeHandler(service *core.AnalysisService, maxUploadBytes int64, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Analyze handles POST /analyze
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	sub, err := h.readSubmission(c)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			HandleAnalysisError(c, err)
			return
		}
		HandleInvalidRequest(c, err)
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), sub)
	if err != nil {
		if !core.IsValidationError(err) {
			kind, _ := core.ModelErrorKindOf(err)
			h.logger.Error("Email analysis failed",
				zap.String("request_id", c.GetString("request_id")),
				zap.String("kind", string(kind)),
				zap.Error(err))
			metrics.IncrementEmailClassified("http", nil)
		}
		HandleAnalysisError(c, err)
		return
	}

	metrics.IncrementEmailClassified("http", result)

	if result.Status != core.StatusSuccess {
		c.JSON(http.StatusOK, AnalyzeResponse{Status: StatusError, Message: result.Message})
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Status:           StatusSuccess,
		Classificacao:    result.Classification,
		RespostaSugerida: result.SuggestedReply,
	})
}

// readSubmission parses the form fields. Both fields are optional here;
// the service decides which one is used.
func (h *AnalyzeHandler) readSubmission(c *gin.Context) (*core.EmailSubmission, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return nil, err
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}

	sub := &core.EmailSubmission{RawText: c.Request.PostFormValue(FieldText)}

	header, err := c.FormFile(FieldFile)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return sub, nil
	case err != nil:
		return nil, err
	}

	file, err := readUploadedFile(header)
	if err != nil {
		return nil, err
	}
	sub.File = file

	return sub, nil
}

func readUploadedFile(header *multipart.FileHeader) (*core.UploadedFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}

	return &core.UploadedFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Content:     content,
	}, nil
}
