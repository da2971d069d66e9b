package models

// Item is a single position of a [List].
type Item struct {
	ID     int64  `json:"id"`
	ListID int64  `json:"liste_id"`
	Name   string `json:"artikel_name"`
	Note   string `json:"bemerkung,omitempty"`
	Done   bool   `json:"erledigt"`
}

// IsPending reports whether the item has not been confirmed by the server yet.
func (i Item) IsPending() bool {
	return IsPlaceholderID(i.ID)
}

// CreateItemRequest is the body of POST /listen/{id}/positionen.
type CreateItemRequest struct {
	Name string `json:"artikel_name"`
	Note string `json:"bemerkung,omitempty"`
}

// ItemUpdate is a partial update of an [Item], the body of PATCH /positionen/{id}.
// Only non-nil fields are applied.
type ItemUpdate struct {
	Done *bool   `json:"erledigt,omitempty"`
	Name *string `json:"artikel_name,omitempty"`
	Note *string `json:"bemerkung,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u ItemUpdate) IsEmpty() bool {
	return u.Done == nil && u.Name == nil && u.Note == nil
}

// Apply returns a copy of item with every field set in u overwritten.
func (u ItemUpdate) Apply(item Item) Item {
	if u.Done != nil {
		item.Done = *u.Done
	}
	if u.Name != nil {
		item.Name = *u.Name
	}
	if u.Note != nil {
		item.Note = *u.Note
	}
	return item
}

// Merge returns an update holding the fields of u overridden by the fields
// set in next. The later write wins field by field.
func (u ItemUpdate) Merge(next ItemUpdate) ItemUpdate {
	if next.Done != nil {
		u.Done = next.Done
	}
	if next.Name != nil {
		u.Name = next.Name
	}
	if next.Note != nil {
		u.Note = next.Note
	}
	return u
}

// Diff returns the update that turns from into to. The result is empty when
// both items carry the same user-editable fields.
func Diff(from, to Item) ItemUpdate {
	var u ItemUpdate
	if from.Done != to.Done {
		done := to.Done
		u.Done = &done
	}
	if from.Name != to.Name {
		name := to.Name
		u.Name = &name
	}
	if from.Note != to.Note {
		note := to.Note
		u.Note = &note
	}
	return u
}
