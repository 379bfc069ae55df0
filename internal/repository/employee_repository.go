package repository

import (
	"context"

	"github.com/employee-api/internal/domain"
)

// EmployeeRepository определяет интерфейс для работы с сотрудниками
type EmployeeRepository interface {
	Repository[domain.Employee]
	GetByCompany(ctx context.Context, companyID int64) ([]domain.Employee, error)
	GetByDepartment(ctx context.Context, companyID int64, departmentName string) ([]domain.Employee, error)
}

type employeeRepository struct {
	*GenericRepository[domain.Employee]
}

// NewEmployeeRepository создаёт новый экземпляр репозитория
func NewEmployeeRepository(session Session) EmployeeRepository {
	return &employeeRepository{
		GenericRepository: NewGenericRepository(session, employeeDescriptor),
	}
}

// employeeRow - плоская строка выборки сотрудника вместе с паспортом и отделом
type employeeRow struct {
	ID              int64   `gorm:"column:Id"`
	Name            string  `gorm:"column:Name"`
	Surname         string  `gorm:"column:Surname"`
	Phone           *string `gorm:"column:Phone"`
	CompanyID       int64   `gorm:"column:CompanyId"`
	DepartmentID    int64   `gorm:"column:DepartmentId"`
	PassportType    string  `gorm:"column:PassportType"`
	PassportNumber  string  `gorm:"column:PassportNumber"`
	DepartmentName  string  `gorm:"column:DepartmentName"`
	DepartmentPhone *string `gorm:"column:DepartmentPhone"`
}

const selectEmployees = `
	SELECT e."Id", e."Name", e."Surname", e."Phone", e."CompanyId", e."DepartmentId",
	       p."Type" AS "PassportType", p."Number" AS "PassportNumber",
	       d."Name" AS "DepartmentName", d."Phone" AS "DepartmentPhone"
	FROM "Employees" e
	INNER JOIN "Passports" p ON e."Id" = p."Id"
	INNER JOIN "Departments" d ON e."DepartmentId" = d."Id"`

func (r *employeeRepository) GetByCompany(ctx context.Context, companyID int64) ([]domain.Employee, error) {
	return r.list(ctx, selectEmployees+`
	WHERE e."CompanyId" = ?
	ORDER BY e."Id"`, companyID)
}

func (r *employeeRepository) GetByDepartment(ctx context.Context, companyID int64, departmentName string) ([]domain.Employee, error) {
	return r.list(ctx, selectEmployees+`
	WHERE e."CompanyId" = ? AND d."Name" = ?
	ORDER BY e."Id"`, companyID, departmentName)
}

func (r *employeeRepository) list(ctx context.Context, query string, args ...any) ([]domain.Employee, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}

	var rows []employeeRow
	if err := db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	employees := make([]domain.Employee, len(rows))
	for i, row := range rows {
		employees[i] = domain.Employee{
			ID:           row.ID,
			Name:         row.Name,
			Surname:      row.Surname,
			Phone:        row.Phone,
			CompanyID:    row.CompanyID,
			DepartmentID: row.DepartmentID,
			Passport: &domain.Passport{
				ID:     row.ID,
				Type:   row.PassportType,
				Number: row.PassportNumber,
			},
			Department: &domain.Department{
				ID:    row.DepartmentID,
				Name:  row.DepartmentName,
				Phone: row.DepartmentPhone,
			},
		}
	}
	return employees, nil
}
