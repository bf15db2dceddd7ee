// Package objectstore abstracts binary-asset storage. The production
// implementation uploads to Amazon S3; tests use the in-package Fake.
package objectstore

import "context"

// Metadata describes the object being stored.
type Metadata struct {
	// Folder is a logical prefix ("aproovi", "companies/logos", ...).
	Folder string
	// FileName is the original client-side filename, kept for reference.
	FileName string
	// ContentType may be empty, in which case the store detects it.
	ContentType string
}

// Object is the result of a successful store call.
type Object struct {
	// URL is the stable public URL of the stored asset.
	URL string
	// AssetID is the store-side identifier (the object key for S3).
	AssetID string
}

// Store accepts raw asset bytes and returns a stable URL plus identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	Store(ctx context.Context, data []byte, meta Metadata) (Object, error)
}
