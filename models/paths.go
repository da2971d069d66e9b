package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Remote API paths.
const (
	CatalogPath = "/artikel"
	ListsPath   = "/listen"
	PingPath    = "/ping"
	VersionPath = "/version"
)

// CatalogEntryPath returns /artikel/{id}.
func CatalogEntryPath(id int64) string {
	return fmt.Sprintf("%s/%d", CatalogPath, id)
}

// ListPath returns /listen/{id}.
func ListPath(id int64) string {
	return fmt.Sprintf("%s/%d", ListsPath, id)
}

// ItemsPath returns /listen/{id}/positionen.
func ItemsPath(listID int64) string {
	return ListPath(listID) + "/positionen"
}

// ItemPath returns /positionen/{id}.
func ItemPath(id int64) string {
	return fmt.Sprintf("/positionen/%d", id)
}

// ListIDFromItemsPath extracts the list id out of /listen/{id}/positionen.
func ListIDFromItemsPath(path string) (int64, bool) {
	rest, ok := strings.CutPrefix(path, ListsPath+"/")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, "/positionen")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
