package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/repository"
	"github.com/employee-api/internal/uow"
)

// EmployeeService определяет интерфейс бизнес-логики для сотрудников
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.CreateEmployeeResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateEmployeeRequest) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	GetByCompany(ctx context.Context, companyID int64) ([]dto.EmployeeResponse, error)
	GetByDepartment(ctx context.Context, companyID int64, departmentName string) ([]dto.EmployeeResponse, error)
}

type employeeService struct {
	uows   uow.Factory
	logger *slog.Logger
}

// NewEmployeeService создаёт новый экземпляр сервиса
func NewEmployeeService(uows uow.Factory, logger *slog.Logger) EmployeeService {
	return &employeeService{
		uows:   uows,
		logger: logger,
	}
}

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.CreateEmployeeResponse, error) {
	s.logger.Info("creating employee",
		slog.String("name", req.Name),
		slog.String("surname", req.Surname),
	)

	var employeeID int64
	err := s.inTransaction(ctx, func(u uow.UnitOfWork) error {
		departments, err := u.DepartmentRepository()
		if err != nil {
			return err
		}
		employees, err := u.EmployeeRepository()
		if err != nil {
			return err
		}
		passports, err := u.PassportRepository()
		if err != nil {
			return err
		}

		// отдел ищется по имени и создаётся только при отсутствии
		departmentID, err := findOrCreateDepartment(ctx, departments, req.Department)
		if err != nil {
			return err
		}

		employeeID, err = employees.Create(ctx, &domain.Employee{
			Name:         req.Name,
			Surname:      req.Surname,
			Phone:        req.Phone,
			CompanyID:    *req.CompanyID,
			DepartmentID: departmentID,
		})
		if err != nil {
			return err
		}

		_, err = passports.Create(ctx, &domain.Passport{
			ID:     employeeID,
			Type:   req.Passport.Type,
			Number: req.Passport.Number,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created", slog.Int64("id", employeeID))
	return &dto.CreateEmployeeResponse{ID: employeeID}, nil
}

func (s *employeeService) Update(ctx context.Context, id int64, req *dto.UpdateEmployeeRequest) (bool, error) {
	s.logger.Info("updating employee", slog.Int64("id", id))

	var updated bool
	err := s.inTransaction(ctx, func(u uow.UnitOfWork) error {
		employees, err := u.EmployeeRepository()
		if err != nil {
			return err
		}

		employee, err := employees.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if employee == nil {
			s.logger.Error("employee not found", slog.Int64("id", id))
			return domain.NewEmployeeNotFound(id)
		}

		if req.Name != nil {
			employee.Name = *req.Name
		}
		if req.Surname != nil {
			employee.Surname = *req.Surname
		}
		if req.Phone != nil {
			employee.Phone = req.Phone
		}
		if req.CompanyID != nil {
			employee.CompanyID = *req.CompanyID
		}

		if req.Department != nil {
			departments, err := u.DepartmentRepository()
			if err != nil {
				return err
			}
			employee.DepartmentID, err = resolveDepartment(ctx, departments, req.Department)
			if err != nil {
				return err
			}
		}

		updated, err = employees.Update(ctx, employee)
		if err != nil {
			return err
		}

		if req.Passport != nil {
			passports, err := u.PassportRepository()
			if err != nil {
				return err
			}

			passport, err := passports.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if passport == nil {
				s.logger.Error("passport is missing for existing employee", slog.Int64("id", id))
				return &domain.IntegrityError{Entity: "passport", ID: id, Reason: "passport not found"}
			}

			if req.Passport.Type != nil {
				passport.Type = *req.Passport.Type
			}
			if req.Passport.Number != nil {
				passport.Number = *req.Passport.Number
			}

			if _, err := passports.Update(ctx, passport); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("employee updated", slog.Int64("id", id), slog.Bool("updated", updated))
	return updated, nil
}

func (s *employeeService) Delete(ctx context.Context, id int64) (bool, error) {
	s.logger.Info("deleting employee", slog.Int64("id", id))

	var deleted bool
	err := s.inTransaction(ctx, func(u uow.UnitOfWork) error {
		employees, err := u.EmployeeRepository()
		if err != nil {
			return err
		}

		employee, err := employees.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if employee == nil {
			s.logger.Error("employee not found for deletion", slog.Int64("id", id))
			return domain.NewEmployeeNotFound(id)
		}

		// паспорт удаляется каскадом
		deleted, err = employees.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}

	s.logger.Info("employee deleted", slog.Int64("id", id), slog.Bool("deleted", deleted))
	return deleted, nil
}

func (s *employeeService) GetByCompany(ctx context.Context, companyID int64) ([]dto.EmployeeResponse, error) {
	s.logger.Info("getting employees by company", slog.Int64("company_id", companyID))

	return s.read(ctx, func(employees repository.EmployeeRepository) ([]domain.Employee, error) {
		return employees.GetByCompany(ctx, companyID)
	})
}

func (s *employeeService) GetByDepartment(ctx context.Context, companyID int64, departmentName string) ([]dto.EmployeeResponse, error) {
	s.logger.Info("getting employees by department",
		slog.Int64("company_id", companyID),
		slog.String("department", departmentName),
	)

	return s.read(ctx, func(employees repository.EmployeeRepository) ([]domain.Employee, error) {
		return employees.GetByDepartment(ctx, companyID, departmentName)
	})
}

// inTransaction выполняет fn в транзакции отдельного unit of work.
// При любой ошибке изменения откатываются, а наружу возвращается исходная ошибка.
func (s *employeeService) inTransaction(ctx context.Context, fn func(u uow.UnitOfWork) error) error {
	u, err := s.uows.New(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := u.Close(); closeErr != nil {
			s.logger.Warn("failed to close unit of work", slog.Any("error", closeErr))
		}
	}()

	if err := u.BeginTransaction(ctx, sql.LevelDefault); err != nil {
		return err
	}

	if err := fn(u); err != nil {
		// откат не должен зависеть от отменённого контекста запроса
		if rbErr := u.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			s.logger.Error("rollback failed", slog.Any("error", rbErr))
		}
		return err
	}

	if _, err := u.SaveChanges(ctx); err != nil {
		return err
	}
	return nil
}

func (s *employeeService) read(ctx context.Context, query func(repository.EmployeeRepository) ([]domain.Employee, error)) ([]dto.EmployeeResponse, error) {
	u, err := s.uows.New(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := u.Close(); closeErr != nil {
			s.logger.Warn("failed to close unit of work", slog.Any("error", closeErr))
		}
	}()

	employees, err := u.EmployeeRepository()
	if err != nil {
		return nil, err
	}

	list, err := query(employees)
	if err != nil {
		return nil, err
	}

	result := make([]dto.EmployeeResponse, len(list))
	for i := range list {
		result[i] = toEmployeeResponse(&list[i])
	}
	return result, nil
}

func findOrCreateDepartment(ctx context.Context, departments repository.DepartmentRepository, req *dto.CreateDepartmentRequest) (int64, error) {
	existing, err := departments.GetByField(ctx, "Name", req.Name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	return departments.Create(ctx, &domain.Department{
		Name:  req.Name,
		Phone: req.Phone,
	})
}

// resolveDepartment находит отдел по имени, затем по телефону.
// Найденный отдел приводится к переданным значениям, иначе создаётся новый.
func resolveDepartment(ctx context.Context, departments repository.DepartmentRepository, req *dto.UpdateDepartmentRequest) (int64, error) {
	name := valueOf(req.Name)
	phone := valueOf(req.Phone)

	var (
		department *domain.Department
		err        error
	)
	if name != "" {
		department, err = departments.GetByField(ctx, "Name", name)
		if err != nil {
			return 0, err
		}
	}
	if department == nil && phone != "" {
		department, err = departments.GetByField(ctx, "Phone", phone)
		if err != nil {
			return 0, err
		}
	}

	if department == nil {
		return departments.Create(ctx, &domain.Department{
			Name:  name,
			Phone: req.Phone,
		})
	}

	changed := false
	if name != "" && department.Name != name {
		department.Name = name
		changed = true
	}
	if phone != "" && valueOf(department.Phone) != phone {
		department.Phone = &phone
		changed = true
	}

	if changed {
		if _, err := departments.Update(ctx, department); err != nil {
			return 0, err
		}
	}
	return department.ID, nil
}

func toEmployeeResponse(e *domain.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Surname:   e.Surname,
		Phone:     e.Phone,
		CompanyID: e.CompanyID,
	}
	if e.Passport != nil {
		resp.Passport = dto.PassportResponse{Type: e.Passport.Type, Number: e.Passport.Number}
	}
	if e.Department != nil {
		resp.Department = dto.DepartmentResponse{Name: e.Department.Name, Phone: e.Department.Phone}
	}
	return resp
}

func valueOf(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
