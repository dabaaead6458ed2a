package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/domain"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/repository"
	"github.com/serviceaiteams-sketch/nutri-ai-stable-dev-sub000/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrReportNotFound         = errors.New("health report not found")
	ErrInvalidReportType      = errors.New("unsupported report content type")
	ErrUploadURLError         = errors.New("failed to generate upload URL")
	ErrDownloadURLError       = errors.New("failed to generate download URL")
	ErrReportConfirmationFail = errors.New("failed to confirm report upload")
)

// Content types accepted for health report uploads.
var allowedReportTypes = map[string]string{
	"application/pdf": "pdf",
	"image/png":       "png",
	"image/jpeg":      "jpg",
}

// UploadURLResponse carries the presigned URL plus the object key the client
// must report back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ReportDetails is a report's metadata plus a temporary download URL.
type ReportDetails struct {
	domain.HealthReport
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// ReportService manages the health report upload flow: the client requests a
// presigned PUT URL, uploads directly to object storage, then confirms so
// the metadata row is written.
type ReportService interface {
	RequestUploadURL(ctx context.Context, ownerID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, ownerID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.HealthReport, error)
	GetMyReports(ctx context.Context, ownerID primitive.ObjectID) ([]ReportDetails, error)
}

// --- Service Implementation ---

type reportService struct {
	reportRepo  repository.ReportRepository
	fileStorage storage.FileStorage
}

// NewReportService creates a new instance of reportService.
func NewReportService(reportRepo repository.ReportRepository, fileStorage storage.FileStorage) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		fileStorage: fileStorage,
	}
}

// RequestUploadURL generates a presigned URL for uploading one report file.
func (s *reportService) RequestUploadURL(ctx context.Context, ownerID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if ownerID == primitive.NilObjectID {
		return nil, errors.New("owner ID is required")
	}
	ext, ok := allowedReportTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrInvalidReportType
	}

	objectKey := path.Join("reports", ownerID.Hex(), fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmUpload writes the metadata record after the client finished the
// direct upload. The object key must be one this service minted for the same
// owner; anything else is rejected.
func (s *reportService) ConfirmUpload(ctx context.Context, ownerID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.HealthReport, error) {
	if ownerID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("owner ID and object key are required")
	}
	if !strings.HasPrefix(objectKey, path.Join("reports", ownerID.Hex())+"/") {
		return nil, ErrReportConfirmationFail
	}

	report := &domain.HealthReport{
		OwnerID:     ownerID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
	}
	reportID, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return nil, ErrReportConfirmationFail
	}
	report.ID = reportID
	return report, nil
}

// GetMyReports lists the owner's reports with temporary download URLs. A URL
// that fails to presign leaves that entry without one rather than failing
// the whole listing.
func (s *reportService) GetMyReports(ctx context.Context, ownerID primitive.ObjectID) ([]ReportDetails, error) {
	reports, err := s.reportRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	details := make([]ReportDetails, 0, len(reports))
	for _, report := range reports {
		d := ReportDetails{HealthReport: report}
		if url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, report.S3ObjectKey, storage.DefaultPresignedURLExpiry); err == nil {
			d.DownloadURL = url
		}
		details = append(details, d)
	}
	return details, nil
}
