package domain

import (
	"errors"
	"fmt"
)

// Определение бизнес-ошибок
var (
	ErrNotFound         = errors.New("not found")
	ErrEmployeeNotFound = fmt.Errorf("employee %w", ErrNotFound)
	ErrDataIntegrity    = errors.New("data integrity violation")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrConflict         = errors.New("conflict")
	ErrDisposed         = errors.New("unit of work is disposed")
)

// NotFoundError - сущность с заданным идентификатором отсутствует
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewEmployeeNotFound создаёт ошибку отсутствия сотрудника
func NewEmployeeNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "employee", ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// Is позволяет сравнивать ошибку с ErrNotFound и ErrEmployeeNotFound
func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrEmployeeNotFound:
		return e.Entity == "employee"
	}
	return false
}

// IntegrityError - нарушен инвариант хранилища (например, у сотрудника нет паспорта).
// Намеренно не совпадает с ErrNotFound.
type IntegrityError struct {
	Entity string
	ID     int64
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: %s for employee with id %d: %s", e.Entity, e.ID, e.Reason)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}
