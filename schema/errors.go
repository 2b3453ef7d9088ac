package schema

import "errors"

var (
	// ErrInputRead means the design document is missing, unreadable or undecodable.
	ErrInputRead = errors.New("input read failure")
	// ErrCatalogQuery means catalog introspection failed.
	ErrCatalogQuery = errors.New("catalog query failure")
	// ErrReferentialIntegrity means the model references something that does not exist.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)
