package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"indentflow/internal/config"
	"indentflow/internal/domain"
	"indentflow/internal/port"
)

// FileUploadInput is the DTO for file upload requests.
type FileUploadInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

// GeneratedFileInput describes a server rendered document to store.
type GeneratedFileInput struct {
	TenantID   uuid.UUID
	UploadedBy uuid.UUID
	Name       string
	FileType   domain.FileType
	Data       []byte
}

// FileService defines the file management contract. Files back indent
// attachments, quotations, bill copies and purchase order PDFs.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	StoreGenerated(ctx context.Context, input GeneratedFileInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error)
	GetDownloadURL(ctx context.Context, tenantID, fileID uuid.UUID) (string, error)
	Delete(ctx context.Context, tenantID, fileID uuid.UUID) error
}

type fileService struct {
	fileRepo port.FileMetaRepository
	storage  port.ObjectStorage
	cfg      *config.S3Config
	logger   *zap.Logger
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	storage port.ObjectStorage,
	cfg *config.S3Config,
	logger *zap.Logger,
) FileService {
	return &fileService{
		fileRepo: fileRepo,
		storage:  storage,
		cfg:      cfg,
		logger:   logger,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		return nil, domain.ErrUnsupportedFileType
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	return s.store(ctx, input.TenantID, input.UploadedBy, input.Header.Filename, fileType, input.File, input.Header.Size)
}

func (s *fileService) StoreGenerated(ctx context.Context, input GeneratedFileInput) (*domain.FileMeta, error) {
	if _, ok := domain.AllowedFileTypes[input.FileType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}
	return s.store(ctx, input.TenantID, input.UploadedBy, input.Name, input.FileType,
		bytes.NewReader(input.Data), int64(len(input.Data)))
}

// store persists metadata as pending, uploads the body and flips the status.
func (s *fileService) store(ctx context.Context, tenantID, uploadedBy uuid.UUID, name string,
	fileType domain.FileType, body io.Reader, size int64) (*domain.FileMeta, error) {
	fileID := uuid.New()
	s3Key := fmt.Sprintf("tenants/%s/files/%s/%s", tenantID, fileID, name)
	contentType := domain.AllowedFileTypes[fileType]

	meta := &domain.FileMeta{
		ID:           fileID,
		TenantID:     tenantID,
		UploadedBy:   uploadedBy,
		FileName:     fileID.String() + "." + string(fileType),
		OriginalName: name,
		FileType:     fileType,
		FileSize:     size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
	}

	s.logger.Info("uploading file",
		zap.String("name", name),
		zap.String("content_type", contentType),
		zap.Int64("size", size),
		zap.String("tenant_id", tenantID.String()),
	)

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        body,
		ContentType: contentType,
		Size:        size,
	})
	if err != nil {
		s.logger.Error("storage upload failed", zap.String("file_id", meta.ID.String()), zap.Error(err))
		_ = s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.TenantID, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded
	return meta, nil
}

func (s *fileService) GetByID(ctx context.Context, tenantID, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, tenantID, fileID)
}

func (s *fileService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.FileMeta, int, error) {
	return s.fileRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *fileService) GetDownloadURL(ctx context.Context, tenantID, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}

func (s *fileService) Delete(ctx context.Context, tenantID, fileID uuid.UUID) error {
	meta, err := s.fileRepo.GetByID(ctx, tenantID, fileID)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, meta.S3Bucket, meta.S3Key); err != nil {
		s.logger.Error("storage delete failed", zap.String("file_id", fileID.String()), zap.Error(err))
		return fmt.Errorf("deleting from storage: %w", err)
	}

	return s.fileRepo.Delete(ctx, tenantID, fileID)
}
