package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/storeflow-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// lockErrorOr traduce errores de contención de filas a domain.ErrLocked para
// que la capa de aplicación pueda reintentar; cualquier otro error pasa igual.
// Códigos: 55P03 lock_not_available, 40001 serialization_failure,
// 40P01 deadlock_detected.
func lockErrorOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01":
			return domain.ErrLocked
		}
	}
	return err
}
