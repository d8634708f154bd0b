package models

// TableInfo adalah data meja yang dikembalikan table-info service.
type TableInfo struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Area   string `json:"area,omitempty"`
	Status string `json:"status,omitempty"`
}
