package repo

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Сигнальные ошибки репозиториев. Вызывающий слой (API) различает их
// через errors.Is и переводит в HTTP-статусы, не зная деталей pgx.
var (
	// ErrNotFound — deployment или шаг с таким ID не существует.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — запись с таким ID уже создана
	// (повторный POST с тем же идентификатором).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState — операция не разрешена в текущем статусе
	// deployment.
	ErrInvalidState = errors.New("invalid state")
)

// Код SQLSTATE unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation распознаёт конфликт уникальности от Postgres,
// чтобы репозитории переводили его в ErrAlreadyExists.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
