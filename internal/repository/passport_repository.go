package repository

import (
	"context"
	"fmt"

	"github.com/employee-api/internal/domain"
)

// PassportRepository определяет интерфейс для работы с паспортами
type PassportRepository interface {
	Repository[domain.Passport]
}

type passportRepository struct {
	*GenericRepository[domain.Passport]
}

// NewPassportRepository создаёт новый экземпляр репозитория
func NewPassportRepository(session Session) PassportRepository {
	return &passportRepository{
		GenericRepository: NewGenericRepository(session, passportDescriptor),
	}
}

// Create вставляет паспорт с идентификатором, переданным вызывающим (равным id сотрудника)
func (r *passportRepository) Create(ctx context.Context, passport *domain.Passport) (int64, error) {
	cols := append([]string{r.desc.Key}, r.desc.WritableColumns()...)
	args := append([]any{passport.ID}, r.desc.WritableValues(passport)...)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quote(r.desc.Table), columnList(cols), placeholders(len(cols)), quote(r.desc.Key))
	return r.insert(ctx, query, args...)
}
