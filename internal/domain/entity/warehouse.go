package entity

// Warehouse bodega donde se almacena inventario. Entidad de referencia estática.
type Warehouse struct {
	ID   string
	Code string // ej. WH-CENTRAL, WH-IT
	Name string
}

// InventoryItem ítem del catálogo. Entidad de referencia estática.
type InventoryItem struct {
	ID       string
	Name     string
	Category string
}

// DepartmentMapping asigna un departamento a su bodega.
type DepartmentMapping struct {
	Department  string
	WarehouseID string
}
