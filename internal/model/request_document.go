package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestDocument is a file attached to a request. The file itself lives
// under the static root; FilePath is relative to it.
type RequestDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID  int64     `gorm:"not null;index" json:"request_id"`
	Filename   string    `gorm:"type:varchar(255);not null" json:"filename"`
	FilePath   string    `gorm:"type:text;not null" json:"file_path"`
	FileSize   int64     `json:"file_size"`
	MimeType   string    `gorm:"type:varchar(100)" json:"mime_type"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}
