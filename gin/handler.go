package gin

import (
	"net/http"

	"github.com/fwojciec/docqa"
	"github.com/gin-gonic/gin"
)

type askRequest struct {
	Query string `json:"query"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleIngest(c *gin.Context) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	result, err := s.Ingester.Ingest(c.Request.Context(), s.SourceURL)
	if err != nil {
		s.handleError(c, err)
		return
	}

	s.Logger.Info("ingested",
		"url", s.SourceURL,
		"sections", result.Sections,
		"chunks", result.Chunks,
		"duration", result.Duration,
	)
	c.JSON(http.StatusOK, messageResponse{Message: IngestedMessage})
}

func (s *Server) handleAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.handleError(c, docqa.Errorf(docqa.EINVALID, "invalid request body"))
		return
	}

	answer, err := s.Asker.Ask(c.Request.Context(), req.Query)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// errorStatusCodes maps application error codes to HTTP status codes.
var errorStatusCodes = map[string]int{
	docqa.ECONFLICT:       http.StatusConflict,
	docqa.EINVALID:        http.StatusBadRequest,
	docqa.ENOTFOUND:       http.StatusNotFound,
	docqa.ENOTIMPLEMENTED: http.StatusNotImplemented,
	docqa.EINTERNAL:       http.StatusInternalServerError,
}

// handleError writes err as JSON. Internal errors are logged and reported
// with a generic message.
func (s *Server) handleError(c *gin.Context, err error) {
	code, message := docqa.ErrorCode(err), docqa.ErrorMessage(err)
	if code == docqa.EINTERNAL {
		s.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"err", err,
		)
	}

	status, ok := errorStatusCodes[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}
