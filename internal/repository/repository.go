package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/employee-api/internal/domain"
	"gorm.io/gorm"
)

// Session отдаёт *gorm.DB, привязанный к соединению и текущей транзакции.
// Репозитории запрашивают его на каждый вызов, поэтому транзакция,
// начатая после создания репозитория, всё равно будет использована.
type Session interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Repository определяет обобщённые CRUD-операции над сущностью
type Repository[T any] interface {
	GetByID(ctx context.Context, id int64) (*T, error)
	GetByField(ctx context.Context, fieldName string, value any) (*T, error)
	Create(ctx context.Context, entity *T) (int64, error)
	Update(ctx context.Context, entity *T) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// GenericRepository строит SQL по описанию сущности
type GenericRepository[T any] struct {
	session Session
	desc    *Descriptor[T]
}

// NewGenericRepository создаёт репозиторий для сущности с описанием desc
func NewGenericRepository[T any](session Session, desc *Descriptor[T]) *GenericRepository[T] {
	return &GenericRepository[T]{session: session, desc: desc}
}

// GetByID возвращает сущность по первичному ключу или nil, nil, если её нет
func (r *GenericRepository[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1",
		columnList(r.desc.Columns()), quote(r.desc.Table), quote(r.desc.Key))
	return r.first(ctx, query, id)
}

// GetByField возвращает первую сущность с field = value или nil, nil.
// Имя поля проверяется до построения запроса.
func (r *GenericRepository[T]) GetByField(ctx context.Context, fieldName string, value any) (*T, error) {
	if err := ValidateFieldName(fieldName); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? LIMIT 1",
		columnList(r.desc.Columns()), quote(r.desc.Table), quote(fieldName))
	return r.first(ctx, query, value)
}

// Create вставляет строку и возвращает сгенерированный идентификатор
func (r *GenericRepository[T]) Create(ctx context.Context, entity *T) (int64, error) {
	cols := r.desc.WritableColumns()
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quote(r.desc.Table), columnList(cols), placeholders(len(cols)), quote(r.desc.Key))
	return r.insert(ctx, query, r.desc.WritableValues(entity)...)
}

// Update перезаписывает все колонки строки. false - строка не найдена.
func (r *GenericRepository[T]) Update(ctx context.Context, entity *T) (bool, error) {
	cols := r.desc.WritableColumns()
	set := make([]string, len(cols))
	for i, c := range cols {
		set[i] = quote(c) + " = ?"
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		quote(r.desc.Table), strings.Join(set, ", "), quote(r.desc.Key))
	args := append(r.desc.WritableValues(entity), r.desc.KeyValue(entity))

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Delete удаляет строку по первичному ключу
func (r *GenericRepository[T]) Delete(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(r.desc.Table), quote(r.desc.Key))

	affected, err := r.exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *GenericRepository[T]) first(ctx context.Context, query string, args ...any) (*T, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return nil, err
	}

	var entity T
	result := db.Raw(query, args...).Scan(&entity)
	if result.Error != nil {
		return nil, mapError(db, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &entity, nil
}

func (r *GenericRepository[T]) insert(ctx context.Context, query string, args ...any) (int64, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := db.Raw(query, args...).Scan(&id).Error; err != nil {
		return 0, mapError(db, err)
	}
	return id, nil
}

func (r *GenericRepository[T]) exec(ctx context.Context, query string, args ...any) (int64, error) {
	db, err := r.session.DB(ctx)
	if err != nil {
		return 0, err
	}

	result := db.Exec(query, args...)
	if result.Error != nil {
		return 0, mapError(db, result.Error)
	}
	return result.RowsAffected, nil
}

// mapError помечает нарушение уникальности как конфликт, сохраняя исходную ошибку в цепочке.
// Код ошибки распознаёт диалект gorm. Остальные ошибки хранилища возвращаются без изменений.
func mapError(db *gorm.DB, err error) error {
	if t, ok := db.Dialector.(gorm.ErrorTranslator); ok && errors.Is(t.Translate(err), gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return err
}

func quote(name string) string {
	return `"` + name + `"`
}

func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quote(c)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
