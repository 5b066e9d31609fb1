package analyses

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"internship-ats/internal/shared/server/middleware"
	"internship-ats/internal/shared/server/respond"
)

const defaultMaxUploadBytes = 10 << 20 // 10MB

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches résumé and evaluation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes/extract", h.extract)
	rg.POST("/analyses", h.analyze)
	rg.POST("/evaluations", h.evaluate)
}

type evaluateRequest struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

func (h *Handler) extract(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	doc, err := h.Svc.Extract(ctx, fileName, data)
	if err != nil {
		writeError(c, err, "failed to extract text")
		return
	}

	respond.OK(c, gin.H{
		"fileName": fileName,
		"text":     doc.Text,
	})
}

func (h *Handler) analyze(c *gin.Context) {
	fileName, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	jobDescription := strings.TrimSpace(c.PostForm("jobDescription"))
	if jobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	res, err := h.Svc.Analyze(ctx, AnalyzeInput{
		FileName:       fileName,
		Data:           data,
		JobDescription: jobDescription,
	})
	if err != nil {
		writeError(c, err, "failed to analyze resume")
		return
	}

	respond.OK(c, gin.H{
		"recordId":    res.RecordID,
		"fileName":    fileName,
		"resumeText":  res.ResumeText,
		"evaluation":  res.Evaluation,
		"parseFailed": res.Evaluation.Failed(),
	})
}

func (h *Handler) evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText is required", nil)
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}
	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))

	eval, err := h.Svc.Evaluate(ctx, req.ResumeText, req.JobDescription)
	if err != nil {
		writeError(c, err, "failed to evaluate resume")
		return
	}

	respond.OK(c, gin.H{
		"evaluation":  eval,
		"parseFailed": eval.Failed(),
	})
}

// readUpload reads the multipart "file" field. It writes the error
// response itself and reports false on failure.
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file exceeds upload limit", nil)
			return "", nil, false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return "", nil, false
	}
	fileName := filepath.Base(fileHeader.Filename)
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "only PDF files are supported", nil)
		return "", nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return "", nil, false
	}
	return fileName, data, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrModelUnavailable):
		respond.Error(c, http.StatusBadGateway, "model_unavailable", "evaluation model is unavailable", nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "failed to save resume record", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
