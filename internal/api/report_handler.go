package api

import (
	"errors"
	"net/http"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

type RequestReportUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ConfirmReportUploadRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required,min=1"`
	ContentType string `json:"contentType" binding:"required"`
}

// RequestUploadURL godoc
// @Summary Request a presigned URL for a health report upload
// @Description Returns a temporary PUT URL; the client uploads directly to object storage.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param upload body RequestReportUploadRequest true "Upload content type"
// @Success 200 {object} service.UploadURLResponse "Presigned URL and object key"
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /reports/upload-url [post]
func (h *ReportHandler) RequestUploadURL(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req RequestReportUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.reportService.RequestUploadURL(c.Request.Context(), ownerID, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReportType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to get upload URL.")
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload godoc
// @Summary Confirm a completed health report upload
// @Description Writes the report metadata after the direct upload succeeded.
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param confirm body ConfirmReportUploadRequest true "Upload confirmation details"
// @Success 201 {object} domain.HealthReport "Report metadata"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /reports/confirm [post]
func (h *ReportHandler) ConfirmUpload(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	var req ConfirmReportUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	report, err := h.reportService.ConfirmUpload(c.Request.Context(), ownerID, req.ObjectKey, req.FileName, req.FileSize, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to confirm upload.")
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListMyReports godoc
// @Summary List my uploaded health reports
// @Description Returns the caller's reports with temporary download URLs.
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.ReportDetails "List of reports"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /reports [get]
func (h *ReportHandler) ListMyReports(c *gin.Context) {
	ownerID, ok := ownerIDFromContext(c)
	if !ok {
		return
	}

	reports, err := h.reportService.GetMyReports(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve reports.")
		return
	}
	c.JSON(http.StatusOK, reports)
}
