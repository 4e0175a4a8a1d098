package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-email-triage/internal/core"
)

// Messages returned in the detail field
const (
	DetailContentRequired     = "É necessário fornecer texto válido ou um arquivo com conteúdo."
	DetailUnsupportedFormat   = "Formato de arquivo não suportado. Envie um arquivo de texto (.txt)."
	DetailNoAnalyzableContent = "O texto fornecido não contém conteúdo analisável."
	DetailUploadTooLarge      = "O arquivo enviado excede o tamanho máximo permitido."
	DetailInternalPrefix      = "Erro interno do servidor: "
)

// ErrorResponse is the body of every 4xx and 5xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// MapAnalysisError maps analysis errors to an HTTP status and detail message
func MapAnalysisError(err error) (int, string) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, core.ErrContentRequired):
		return http.StatusBadRequest, DetailContentRequired
	case errors.Is(err, core.ErrUnsupportedFormat):
		return http.StatusBadRequest, DetailUnsupportedFormat
	case errors.Is(err, core.ErrNoAnalyzableContent):
		return http.StatusBadRequest, DetailNoAnalyzableContent
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, DetailUploadTooLarge
	default:
		return http.StatusInternalServerError, DetailInternalPrefix + err.Error()
	}
}

// HandleAnalysisError sends the response for a failed analysis
func HandleAnalysisError(c *gin.Context, err error) {
	status, detail := MapAnalysisError(err)
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Detail: detail})
}

// HandleInvalidRequest sends a 400 with a read error
func HandleInvalidRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, ErrorResponse{Detail: fmt.Sprintf("Erro ao ler a requisição: %v", err)})
}
