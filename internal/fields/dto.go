package fields

// CreateParams carries a field-creation request into the service.
type CreateParams struct {
	UserID   uint
	Name     string
	Location string
	FarmID   *uint
}

// UpdateParams carries a field-update request into the service.
type UpdateParams struct {
	FieldID  uint
	Name     string
	Location string
}
