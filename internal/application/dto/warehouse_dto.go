package dto

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// DepartmentMappingRequest body para PUT /api/departments/mappings.
type DepartmentMappingRequest struct {
	Department  string `json:"department"`
	WarehouseID string `json:"warehouse_id"`
}

// DepartmentMappingResponse mapeo departamento → bodega.
type DepartmentMappingResponse struct {
	Department  string `json:"department"`
	WarehouseID string `json:"warehouse_id"`
}
