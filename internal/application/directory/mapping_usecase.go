package directory

import (
	"context"

	"github.com/jhoicas/hrims-stock/internal/application/dto"
	"github.com/jhoicas/hrims-stock/internal/domain"
	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

// MappingUseCase administración de mapeos departamento → bodega.
type MappingUseCase struct {
	repo       repository.DepartmentRepository
	warehouses repository.WarehouseRepository
	resolver   *Resolver
}

// NewMappingUseCase construye el caso de uso.
func NewMappingUseCase(repo repository.DepartmentRepository, warehouses repository.WarehouseRepository, resolver *Resolver) *MappingUseCase {
	return &MappingUseCase{repo: repo, warehouses: warehouses, resolver: resolver}
}

// List devuelve todos los mapeos.
func (uc *MappingUseCase) List(ctx context.Context) ([]dto.DepartmentMappingResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentMappingResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.DepartmentMappingResponse{Department: m.Department, WarehouseID: m.WarehouseID})
	}
	return out, nil
}

// Upsert crea o reemplaza el mapeo de un departamento.
func (uc *MappingUseCase) Upsert(ctx context.Context, in dto.DepartmentMappingRequest) (*dto.DepartmentMappingResponse, error) {
	if in.Department == "" {
		return nil, domain.Invalid("department", "requerido")
	}
	if in.WarehouseID == "" {
		return nil, domain.Invalid("warehouse_id", "requerido")
	}
	w, err := uc.warehouses.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, &domain.NotFoundError{Entity: "warehouse", ID: in.WarehouseID}
	}
	if err := uc.repo.Upsert(ctx, &entity.DepartmentMapping{Department: in.Department, WarehouseID: in.WarehouseID}); err != nil {
		return nil, err
	}
	return &dto.DepartmentMappingResponse{Department: in.Department, WarehouseID: in.WarehouseID}, nil
}

// Delete elimina el mapeo; el departamento pasa a usar la bodega por defecto.
func (uc *MappingUseCase) Delete(ctx context.Context, department string) error {
	if department == "" {
		return domain.Invalid("department", "requerido")
	}
	return uc.repo.Delete(ctx, department)
}

// MyWarehouse bodega efectiva del departamento del usuario.
func (uc *MappingUseCase) MyWarehouse(ctx context.Context, department string) (*dto.WarehouseResponse, error) {
	w, err := uc.resolver.Resolve(ctx, department)
	if err != nil {
		return nil, err
	}
	return &dto.WarehouseResponse{ID: w.ID, Code: w.Code, Name: w.Name}, nil
}
