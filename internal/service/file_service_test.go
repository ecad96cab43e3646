package service_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"indentflow/internal/config"
	"indentflow/internal/domain"
	"indentflow/internal/port"
	"indentflow/internal/service"
	"indentflow/mocks"
)

type fileFixture struct {
	svc      service.FileService
	fileRepo *mocks.MockFileMetaRepo
	storage  *mocks.MockObjectStorage
	cfg      config.S3Config
}

func newFileFixture(maxMB int64) *fileFixture {
	f := &fileFixture{
		fileRepo: new(mocks.MockFileMetaRepo),
		storage:  new(mocks.MockObjectStorage),
		cfg: config.S3Config{
			Region:        "ap-south-1",
			Bucket:        "indent-files",
			MaxFileSizeMB: maxMB,
			PresignExpiry: 3600,
		},
	}
	f.svc = service.NewFileService(f.fileRepo, f.storage, &f.cfg, zap.NewNop())
	return f
}

// multipartFile builds a file part the way gin hands it to the handler.
func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	header := form.File["file"][0]
	file, err := header.Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })
	return file, header
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4 quotation from Kiran Traders, enough bytes for sniffing")
}

func pngBytes() []byte {
	header := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	return append(header, bytes.Repeat([]byte{0x00}, 100)...)
}

func TestFileService_Upload_Success(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		wantType domain.FileType
	}{
		{name: "pdf quotation", filename: "quote.pdf", content: pdfBytes(), wantType: domain.FileTypePDF},
		{name: "png bill photo", filename: "bill.PNG", content: pngBytes(), wantType: domain.FileTypePNG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFileFixture(10)
			tenantID := uuid.New()
			file, header := multipartFile(t, tt.filename, tt.content)

			f.fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
			f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
				return in.Bucket == "indent-files" && strings.HasPrefix(in.Key, "tenants/"+tenantID.String()+"/files/")
			})).Return(&port.UploadOutput{Location: "https://indent-files.s3/x", ETag: "abc"}, nil)
			f.fileRepo.On("UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

			got, err := f.svc.Upload(context.Background(), service.FileUploadInput{
				TenantID:   tenantID,
				UploadedBy: uuid.New(),
				File:       file,
				Header:     header,
			})
			require.NoError(t, err)

			assert.Equal(t, domain.FileStatusUploaded, got.Status)
			assert.Equal(t, tt.wantType, got.FileType)
			assert.Equal(t, tt.filename, got.OriginalName)
			f.fileRepo.AssertExpectations(t)
			f.storage.AssertExpectations(t)
		})
	}
}

func TestFileService_Upload_Rejections(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		f := newFileFixture(10)
		file, header := multipartFile(t, "setup.exe", []byte("MZ not a document"))

		_, err := f.svc.Upload(context.Background(), service.FileUploadInput{TenantID: uuid.New(), File: file, Header: header})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	})

	t.Run("content does not match extension", func(t *testing.T) {
		f := newFileFixture(10)
		file, header := multipartFile(t, "quote.pdf", []byte("plain text pretending to be a pdf"))

		_, err := f.svc.Upload(context.Background(), service.FileUploadInput{TenantID: uuid.New(), File: file, Header: header})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFileFixture(1)
		file, header := multipartFile(t, "quote.pdf", pdfBytes())
		header.Size = 2 * 1024 * 1024

		_, err := f.svc.Upload(context.Background(), service.FileUploadInput{TenantID: uuid.New(), File: file, Header: header})
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
		f.fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFileService_Upload_StorageFailureMarksFailed(t *testing.T) {
	f := newFileFixture(10)
	tenantID := uuid.New()
	file, header := multipartFile(t, "quote.pdf", pdfBytes())

	f.fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).Return(nil, io.ErrUnexpectedEOF)
	f.fileRepo.On("UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusFailed).Return(nil)

	got, err := f.svc.Upload(context.Background(), service.FileUploadInput{TenantID: tenantID, File: file, Header: header})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.fileRepo.AssertExpectations(t)
}

func TestFileService_StoreGenerated(t *testing.T) {
	f := newFileFixture(10)
	tenantID := uuid.New()
	data := pdfBytes()

	f.fileRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.FileMeta")).Return(nil)
	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.ContentType == "application/pdf" && in.Size == int64(len(data)) &&
			strings.HasSuffix(in.Key, "/PO-0004.pdf")
	})).Return(&port.UploadOutput{}, nil)
	f.fileRepo.On("UpdateStatus", mock.Anything, tenantID, mock.AnythingOfType("uuid.UUID"), domain.FileStatusUploaded).Return(nil)

	got, err := f.svc.StoreGenerated(context.Background(), service.GeneratedFileInput{
		TenantID: tenantID,
		Name:     "PO-0004.pdf",
		FileType: domain.FileTypePDF,
		Data:     data,
	})
	require.NoError(t, err)
	assert.Equal(t, "PO-0004.pdf", got.OriginalName)
	assert.Equal(t, int64(len(data)), got.FileSize)

	_, err = f.svc.StoreGenerated(context.Background(), service.GeneratedFileInput{TenantID: tenantID, Name: "x.doc", FileType: "doc"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestFileService_GetByID_NotFound(t *testing.T) {
	f := newFileFixture(10)
	tenantID, fileID := uuid.New(), uuid.New()
	f.fileRepo.On("GetByID", mock.Anything, tenantID, fileID).Return(nil, domain.ErrNotFound)

	got, err := f.svc.GetByID(context.Background(), tenantID, fileID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFileService_GetDownloadURL(t *testing.T) {
	f := newFileFixture(10)
	tenantID, fileID := uuid.New(), uuid.New()
	f.fileRepo.On("GetByID", mock.Anything, tenantID, fileID).
		Return(&domain.FileMeta{ID: fileID, S3Bucket: "indent-files", S3Key: "tenants/t/files/f/quote.pdf"}, nil)
	f.storage.On("GetPresignedURL", mock.Anything, "indent-files", "tenants/t/files/f/quote.pdf", int64(3600)).
		Return("https://presigned.example.com/quote.pdf", nil)

	url, err := f.svc.GetDownloadURL(context.Background(), tenantID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://presigned.example.com/quote.pdf", url)
}

func TestFileService_Delete(t *testing.T) {
	f := newFileFixture(10)
	tenantID, fileID := uuid.New(), uuid.New()
	f.fileRepo.On("GetByID", mock.Anything, tenantID, fileID).
		Return(&domain.FileMeta{ID: fileID, S3Bucket: "indent-files", S3Key: "k"}, nil)
	f.storage.On("Delete", mock.Anything, "indent-files", "k").Return(nil)
	f.fileRepo.On("Delete", mock.Anything, tenantID, fileID).Return(nil)

	require.NoError(t, f.svc.Delete(context.Background(), tenantID, fileID))
	f.fileRepo.AssertExpectations(t)
	f.storage.AssertExpectations(t)
}
