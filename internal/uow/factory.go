package uow

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/employee-api/internal/domain"
	"gorm.io/gorm"
)

// DefaultIsolation - snapshot-изоляция. В PostgreSQL её обеспечивает REPEATABLE READ;
// sql.LevelSnapshot драйвер pgx не поддерживает.
const DefaultIsolation = sql.LevelRepeatableRead

// Factory создаёт unit of work на одну операцию
type Factory interface {
	New(ctx context.Context) (UnitOfWork, error)
}

type factory struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
}

// NewFactory создаёт фабрику поверх пула соединений db.
// isolation используется, когда BeginTransaction вызван с sql.LevelDefault.
func NewFactory(db *gorm.DB, isolation sql.IsolationLevel) Factory {
	if isolation == sql.LevelDefault {
		isolation = DefaultIsolation
	}
	return &factory{db: db, isolation: isolation}
}

// New сразу занимает соединение из пула; ошибка возвращается немедленно
func (f *factory) New(ctx context.Context) (UnitOfWork, error) {
	sqlDB, err := f.db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("open connection: %w", err)
	}

	// все запросы сессии идут через закреплённое соединение
	session := f.db.Session(&gorm.Session{NewDB: true, Context: ctx})
	session.Statement.ConnPool = conn

	return newUnitOfWork(conn, session, f.isolation), nil
}

// ParseIsolationLevel переводит значение из конфигурации в уровень изоляции
func ParseIsolationLevel(s string) (sql.IsolationLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "snapshot":
		return DefaultIsolation, nil
	case "read_committed":
		return sql.LevelReadCommitted, nil
	case "repeatable_read":
		return sql.LevelRepeatableRead, nil
	case "serializable":
		return sql.LevelSerializable, nil
	}
	return sql.LevelDefault, fmt.Errorf("%w: unknown isolation level %q", domain.ErrInvalidArgument, s)
}
