package repository

import (
	"github.com/employee-api/internal/domain"
)

// DepartmentRepository определяет интерфейс для работы с отделами
type DepartmentRepository interface {
	Repository[domain.Department]
}

type departmentRepository struct {
	*GenericRepository[domain.Department]
}

// NewDepartmentRepository создаёт новый экземпляр репозитория
func NewDepartmentRepository(session Session) DepartmentRepository {
	return &departmentRepository{
		GenericRepository: NewGenericRepository(session, departmentDescriptor),
	}
}
