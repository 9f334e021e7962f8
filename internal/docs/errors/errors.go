package errors

// Package errors provides sentinel errors for content loading and indexing.
// Loader warnings wrap these so callers can classify skipped files.

import "errors"

var (
	// ErrContentRootNotDir indicates the configured content root exists but is not a directory.
	ErrContentRootNotDir = errors.New("content root is not a directory")

	// ErrDirReadFailed indicates listing a directory below the content root failed.
	ErrDirReadFailed = errors.New("content directory read failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("document file read failed")

	// ErrInvalidRelativePath indicates a document path could not be made relative to the root.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")

	// ErrSlugCollision indicates two source files normalize to the same slug.
	ErrSlugCollision = errors.New("slug collision detected")
)
