package repository

import (
	"fmt"
	"regexp"

	"github.com/employee-api/internal/domain"
)

// identifierPattern - допустимые имена таблиц и колонок, попадающие в текст запроса
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Field описывает одно поле сущности
type Field[T any] struct {
	Column   string
	Identity bool // генерируемый первичный ключ
	Writable bool
	Relation bool // навигационное поле, в запросы не попадает
	Get      func(e *T) any
}

// Descriptor - таблица полей сущности, строится один раз при старте
type Descriptor[T any] struct {
	Entity string
	Table  string
	Key    string
	Fields []Field[T]

	key     *Field[T]
	columns []string // все колонки, кроме навигационных
	values  []Field[T]
}

// DescriptorOption переопределяет значения по умолчанию
type DescriptorOption[T any] func(d *Descriptor[T])

// WithTable задаёт имя таблицы вместо множественного числа имени сущности
func WithTable[T any](table string) DescriptorOption[T] {
	return func(d *Descriptor[T]) { d.Table = table }
}

// WithKey задаёт колонку первичного ключа
func WithKey[T any](column string) DescriptorOption[T] {
	return func(d *Descriptor[T]) { d.Key = column }
}

// NewDescriptor создаёт и проверяет описание сущности.
// Таблица по умолчанию - имя сущности во множественном числе, ключ - "Id".
func NewDescriptor[T any](entity string, fields []Field[T], opts ...DescriptorOption[T]) (*Descriptor[T], error) {
	d := &Descriptor[T]{
		Entity: entity,
		Table:  entity + "s",
		Key:    "Id",
		Fields: fields,
	}
	for _, opt := range opts {
		opt(d)
	}

	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("%w: entity %s has no fields", domain.ErrInvalidArgument, entity)
	}
	if !identifierPattern.MatchString(d.Table) {
		return nil, fmt.Errorf("%w: invalid table name %q", domain.ErrInvalidArgument, d.Table)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if !identifierPattern.MatchString(f.Column) {
			return nil, fmt.Errorf("%w: invalid column name %q in %s", domain.ErrInvalidArgument, f.Column, entity)
		}
		if _, dup := seen[f.Column]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q in %s", domain.ErrInvalidArgument, f.Column, entity)
		}
		seen[f.Column] = struct{}{}

		if f.Column == d.Key {
			d.key = f
		}
		if f.Relation {
			continue
		}
		if f.Get == nil {
			return nil, fmt.Errorf("%w: column %q in %s has no accessor", domain.ErrInvalidArgument, f.Column, entity)
		}
		d.columns = append(d.columns, f.Column)
		if f.Writable && !f.Identity {
			d.values = append(d.values, *f)
		}
	}

	if d.key == nil || d.key.Relation {
		return nil, fmt.Errorf("%w: entity %s has no key column %q", domain.ErrInvalidArgument, entity, d.Key)
	}
	if len(d.values) == 0 {
		return nil, fmt.Errorf("%w: entity %s has no writable columns", domain.ErrInvalidArgument, entity)
	}

	return d, nil
}

// MustDescriptor как NewDescriptor, но паникует при ошибке. Для описаний уровня пакета.
func MustDescriptor[T any](entity string, fields []Field[T], opts ...DescriptorOption[T]) *Descriptor[T] {
	d, err := NewDescriptor(entity, fields, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Columns возвращает все хранимые колонки в порядке объявления
func (d *Descriptor[T]) Columns() []string {
	return d.columns
}

// WritableColumns возвращает колонки для INSERT/UPDATE
func (d *Descriptor[T]) WritableColumns() []string {
	cols := make([]string, len(d.values))
	for i, f := range d.values {
		cols[i] = f.Column
	}
	return cols
}

// WritableValues возвращает значения колонок из WritableColumns
func (d *Descriptor[T]) WritableValues(e *T) []any {
	vals := make([]any, len(d.values))
	for i, f := range d.values {
		vals[i] = f.Get(e)
	}
	return vals
}

// KeyValue возвращает значение первичного ключа
func (d *Descriptor[T]) KeyValue(e *T) any {
	return d.key.Get(e)
}

// ValidateFieldName проверяет имя колонки перед подстановкой в текст запроса
func ValidateFieldName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: field name cannot be empty", domain.ErrInvalidArgument)
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: invalid field name %q", domain.ErrInvalidArgument, name)
	}
	return nil
}

// Описания сущностей домена
var (
	departmentDescriptor = MustDescriptor("Department", []Field[domain.Department]{
		{Column: "Id", Identity: true, Get: func(e *domain.Department) any { return e.ID }},
		{Column: "Name", Writable: true, Get: func(e *domain.Department) any { return e.Name }},
		{Column: "Phone", Writable: true, Get: func(e *domain.Department) any { return e.Phone }},
	})

	employeeDescriptor = MustDescriptor("Employee", []Field[domain.Employee]{
		{Column: "Id", Identity: true, Get: func(e *domain.Employee) any { return e.ID }},
		{Column: "Name", Writable: true, Get: func(e *domain.Employee) any { return e.Name }},
		{Column: "Surname", Writable: true, Get: func(e *domain.Employee) any { return e.Surname }},
		{Column: "Phone", Writable: true, Get: func(e *domain.Employee) any { return e.Phone }},
		{Column: "CompanyId", Writable: true, Get: func(e *domain.Employee) any { return e.CompanyID }},
		{Column: "DepartmentId", Writable: true, Get: func(e *domain.Employee) any { return e.DepartmentID }},
		{Column: "Department", Relation: true},
		{Column: "Passport", Relation: true},
	})

	// Ключ паспорта - идентификатор сотрудника, он не генерируется.
	// Обобщённый Create его пропускает, поэтому PassportRepository переопределяет Create.
	passportDescriptor = MustDescriptor("Passport", []Field[domain.Passport]{
		{Column: "Id", Identity: true, Get: func(e *domain.Passport) any { return e.ID }},
		{Column: "Type", Writable: true, Get: func(e *domain.Passport) any { return e.Type }},
		{Column: "Number", Writable: true, Get: func(e *domain.Passport) any { return e.Number }},
		{Column: "Employee", Relation: true},
	})
)
