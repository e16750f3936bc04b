package dto

// Coordinates of an organization
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Address represents an organization's postal address
type Address struct {
	Street string `json:"street"`
}

// Organization is a single record as returned by the search service
type Organization struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	FullName       string       `json:"fullName"`
	Type           *string      `json:"type,omitempty"`
	AnnualTurnover *int64       `json:"annualTurnover,omitempty"`
	Coordinates    *Coordinates `json:"coordinates,omitempty"`
	PostalAddress  *Address     `json:"postalAddress,omitempty"`
	CreationDate   *string      `json:"creationDate,omitempty"`
}

// PaginatedResponse is the page of organizations produced by the search
// service. The gateway relays it as raw bytes and never builds one itself.
type PaginatedResponse struct {
	Organizations []Organization `json:"organizations"`
	TotalPages    int            `json:"totalPages"`
	TotalElements int64          `json:"totalElements"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
}
