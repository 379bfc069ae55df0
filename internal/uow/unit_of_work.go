package uow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/repository"
	"gorm.io/gorm"
)

// UnitOfWork связывает одно соединение и не более одной транзакции
// с набором репозиториев. Экземпляр не разделяется между горутинами.
type UnitOfWork interface {
	EmployeeRepository() (repository.EmployeeRepository, error)
	DepartmentRepository() (repository.DepartmentRepository, error)
	PassportRepository() (repository.PassportRepository, error)

	// BeginTransaction открывает транзакцию; если она уже открыта, переиспользует её.
	// sql.LevelDefault означает уровень изоляции по умолчанию для фабрики.
	BeginTransaction(ctx context.Context, level sql.IsolationLevel) error
	// SaveChanges фиксирует открытую транзакцию. false - транзакции не было.
	SaveChanges(ctx context.Context) (bool, error)
	// Rollback откатывает открытую транзакцию. Повторный вызов безопасен.
	Rollback(ctx context.Context) error
	// Close откатывает незавершённую транзакцию и освобождает соединение.
	Close() error
}

type state int

const (
	stateIdle state = iota
	stateInTransaction
	stateDisposed
)

type unitOfWork struct {
	conn      *sql.Conn
	db        *gorm.DB // сессия gorm поверх conn
	tx        *gorm.DB
	isolation sql.IsolationLevel
	state     state

	employees   repository.EmployeeRepository
	departments repository.DepartmentRepository
	passports   repository.PassportRepository
}

var _ repository.Session = (*unitOfWork)(nil)

func newUnitOfWork(conn *sql.Conn, db *gorm.DB, isolation sql.IsolationLevel) *unitOfWork {
	return &unitOfWork{
		conn:      conn,
		db:        db,
		isolation: isolation,
		state:     stateIdle,
	}
}

// DB реализует repository.Session: возвращает транзакцию, если она открыта, иначе соединение
func (u *unitOfWork) DB(ctx context.Context) (*gorm.DB, error) {
	switch u.state {
	case stateDisposed:
		return nil, domain.ErrDisposed
	case stateInTransaction:
		return u.tx.WithContext(ctx), nil
	default:
		return u.db.WithContext(ctx), nil
	}
}

func (u *unitOfWork) EmployeeRepository() (repository.EmployeeRepository, error) {
	if u.state == stateDisposed {
		return nil, domain.ErrDisposed
	}
	if u.employees == nil {
		u.employees = repository.NewEmployeeRepository(u)
	}
	return u.employees, nil
}

func (u *unitOfWork) DepartmentRepository() (repository.DepartmentRepository, error) {
	if u.state == stateDisposed {
		return nil, domain.ErrDisposed
	}
	if u.departments == nil {
		u.departments = repository.NewDepartmentRepository(u)
	}
	return u.departments, nil
}

func (u *unitOfWork) PassportRepository() (repository.PassportRepository, error) {
	if u.state == stateDisposed {
		return nil, domain.ErrDisposed
	}
	if u.passports == nil {
		u.passports = repository.NewPassportRepository(u)
	}
	return u.passports, nil
}

func (u *unitOfWork) BeginTransaction(ctx context.Context, level sql.IsolationLevel) error {
	switch u.state {
	case stateDisposed:
		return domain.ErrDisposed
	case stateInTransaction:
		return nil
	}

	if level == sql.LevelDefault {
		level = u.isolation
	}

	tx := u.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: level})
	if tx.Error != nil {
		return fmt.Errorf("begin transaction: %w", tx.Error)
	}

	u.tx = tx
	u.state = stateInTransaction
	return nil
}

func (u *unitOfWork) SaveChanges(ctx context.Context) (bool, error) {
	switch u.state {
	case stateDisposed:
		return false, domain.ErrDisposed
	case stateIdle:
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		return false, errors.Join(err, u.Rollback(ctx))
	}

	if err := u.tx.Commit().Error; err != nil {
		if rbErr := u.Rollback(ctx); rbErr != nil {
			return false, errors.Join(fmt.Errorf("commit transaction: %w", err), rbErr)
		}
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	u.tx = nil
	u.state = stateIdle
	return true, nil
}

func (u *unitOfWork) Rollback(_ context.Context) error {
	if u.state != stateInTransaction {
		return nil
	}

	err := u.tx.Rollback().Error
	u.tx = nil
	u.state = stateIdle

	// транзакция уже завершена драйвером, например после отмены контекста
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) Close() error {
	if u.state == stateDisposed {
		return nil
	}

	rbErr := u.Rollback(context.Background())
	connErr := u.conn.Close()

	u.state = stateDisposed
	u.employees, u.departments, u.passports = nil, nil, nil

	if connErr != nil {
		connErr = fmt.Errorf("release connection: %w", connErr)
	}
	return errors.Join(rbErr, connErr)
}
