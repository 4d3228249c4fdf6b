package domain

import "strings"

// DraftPrefix marks the draft variant of a document id.
const DraftPrefix = "drafts."

const (
	DocumentTypeProduct = "product"
	DocumentTypeOrder   = "order"
)

// BaseID strips the draft prefix from a document id.
func BaseID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), DraftPrefix)
}

// DraftID returns the draft id for a document.
func DraftID(id string) string {
	return DraftPrefix + BaseID(id)
}

func IsDraftID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), DraftPrefix)
}

// DocumentState tracks which variants of a document exist.
type DocumentState struct {
	HasDraft     bool `json:"hasDraft"`
	HasPublished bool `json:"hasPublished"`
}

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusModified  = "modified"
)

// Status derives the editorial status: a draft over a published document is "modified".
func (s DocumentState) Status() string {
	switch {
	case s.HasDraft && s.HasPublished:
		return StatusModified
	case s.HasDraft:
		return StatusDraft
	default:
		return StatusPublished
	}
}

// CurrentID is the id the merged view is read from.
func (s DocumentState) CurrentID(baseID string) string {
	if s.HasDraft {
		return DraftID(baseID)
	}
	return BaseID(baseID)
}

func (s DocumentState) Exists() bool {
	return s.HasDraft || s.HasPublished
}

// ChangeEvent describes a write to a document variant.
type ChangeEvent struct {
	DocumentID   string `json:"documentId"`
	DocumentType string `json:"documentType"`
	Action       string `json:"action"`
}

const (
	ActionCreate  = "create"
	ActionEdit    = "edit"
	ActionPublish = "publish"
	ActionDiscard = "discard"
	ActionDelete  = "delete"
)
