package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNoDraft is returned by publish/discard when the document has no draft.
	ErrNoDraft = errors.New("document has no draft")
	// ErrInvalidField indicates an edit path or value that the document does not accept.
	ErrInvalidField = errors.New("invalid field")
	// ErrReferenced indicates a document that other documents still point at.
	ErrReferenced = errors.New("document is referenced")
)
