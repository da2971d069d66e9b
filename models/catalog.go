package models

// CatalogEntry is a read-only article suggestion served by GET /artikel.
type CatalogEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateCatalogEntryRequest is the body of POST /artikel.
type CreateCatalogEntryRequest struct {
	Name string `json:"name"`
}
