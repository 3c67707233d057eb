package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"campushub/internal/model"
	"campushub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotRequestAuthor is returned when someone other than the author tries
// to attach a document.
var ErrNotRequestAuthor = errors.New("only the request author can upload documents")

type DocumentResponse struct {
	ID         string `json:"id"`
	RequestID  int64  `json:"request_id"`
	Filename   string `json:"filename"`
	FileURL    string `json:"file_url"`
	FileSize   int64  `json:"file_size"`
	MimeType   string `json:"mime_type,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

// DocumentService stores request attachments on disk and their metadata in
// the database. File contents are never interpreted.
type DocumentService interface {
	Upload(ctx context.Context, requestID int64, uploaderID uuid.UUID, filename, mimeType string, content []byte) (*DocumentResponse, error)
	List(ctx context.Context, requestID int64, userID uuid.UUID) ([]DocumentResponse, error)
}

type documentService struct {
	requests   repository.RequestRepository
	docs       repository.DocumentRepository
	audits     repository.AuditRepository
	staticRoot string
	fileURL    func(path string) string
}

func NewDocumentService(
	requests repository.RequestRepository,
	docs repository.DocumentRepository,
	audits repository.AuditRepository,
	staticRoot string,
	fileURL func(path string) string,
) DocumentService {
	if fileURL == nil {
		fileURL = func(path string) string { return path }
	}
	return &documentService{
		requests:   requests,
		docs:       docs,
		audits:     audits,
		staticRoot: staticRoot,
		fileURL:    fileURL,
	}
}

func (s *documentService) Upload(ctx context.Context, requestID int64, uploaderID uuid.UUID, filename, mimeType string, content []byte) (*DocumentResponse, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.AuthorUserID != uploaderID {
		return nil, ErrNotRequestAuthor
	}

	// Keep only the base name so a crafted filename cannot escape the
	// request's directory.
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) || filename == "" {
		filename = "document"
	}

	relPath := filepath.Join("requests", strconv.FormatInt(requestID, 10), filename)
	absPath := filepath.Join(s.staticRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	if err := os.WriteFile(absPath, content, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &model.RequestDocument{
		RequestID: requestID,
		Filename:  filename,
		FilePath:  filepath.ToSlash(relPath),
		FileSize:  int64(len(content)),
		MimeType:  mimeType,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save document record: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{
		"request_id": requestID,
		"filename":   filename,
		"size":       doc.FileSize,
	})
	if err := s.audits.Log(ctx, &model.AuditLog{
		UserID:     &uploaderID,
		Action:     model.ActionUploadDocument,
		EntityID:   doc.ID.String(),
		EntityName: filename,
		Details:    string(details),
	}); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	resp := toDocumentResponse(doc, s.fileURL)
	return &resp, nil
}

func (s *documentService) List(ctx context.Context, requestID int64, userID uuid.UUID) ([]DocumentResponse, error) {
	request, err := s.requests.FindByID(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.AuthorUserID != userID &&
		(request.CurrentApproverID == nil || *request.CurrentApproverID != userID) {
		return nil, ErrRequestAccessDenied
	}

	docs, err := s.docs.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	result := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		result = append(result, toDocumentResponse(&docs[i], s.fileURL))
	}
	return result, nil
}

func toDocumentResponse(d *model.RequestDocument, fileURL func(string) string) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID.String(),
		RequestID:  d.RequestID,
		Filename:   d.Filename,
		FileURL:    fileURL(d.FilePath),
		FileSize:   d.FileSize,
		MimeType:   d.MimeType,
		UploadedAt: d.UploadedAt.Format(time.RFC3339),
	}
}
