package model

import "time"

// DeclaredType is the coarse category the store attaches to a file.
// It is a hint only; previews classify by name.
type DeclaredType string

const (
	DeclaredImage    DeclaredType = "image"
	DeclaredVideo    DeclaredType = "video"
	DeclaredAudio    DeclaredType = "audio"
	DeclaredDocument DeclaredType = "document"
	DeclaredOther    DeclaredType = "other"
)

// FileRef identifies a stored file that may be previewed.
type FileRef struct {
	ID           string       `json:"$id,omitempty"`
	Name         string       `json:"name"`
	URL          string       `json:"url"`
	DeclaredType DeclaredType `json:"type,omitempty"`
	Extension    string       `json:"extension,omitempty"`
	Size         int64        `json:"size,omitempty"`
	CreatedAt    time.Time    `json:"$createdAt,omitempty"`
}

// Same reports whether two refs point at the same stored file.
func (f FileRef) Same(other FileRef) bool {
	return f.URL == other.URL && f.Name == other.Name
}

// IsZero reports whether the ref is unset.
func (f FileRef) IsZero() bool {
	return f.Name == "" && f.URL == ""
}
