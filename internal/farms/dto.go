package farms

// CreateParams carries a farm-creation request into the service.
type CreateParams struct {
	Name     string
	Location string
}

// AddFieldParams carries a farm-scoped field creation request.
type AddFieldParams struct {
	FarmID   uint
	Name     string
	Location string
}
