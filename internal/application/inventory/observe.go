package inventory

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Materiales-api/internal/domain"
)

// outcomeOf clasifica el error de un lote: rechazo de validación, conflicto reintentable o fallo interno.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, domain.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrCapacityViolation):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// finishBatch registra métricas y log del lote terminado (Committed, Rejected o RolledBack).
func finishBatch(log zerolog.Logger, observer BatchObserver, operation, batchID string, userID int64, lines int, start time.Time, err error) {
	elapsed := time.Since(start)
	outcome := outcomeOf(err)
	observer.ObserveBatch(operation, outcome, lines, elapsed)

	var ev *zerolog.Event
	switch outcome {
	case OutcomeCommitted:
		ev = log.Info()
	case OutcomeError:
		ev = log.Error().Err(err)
	default:
		ev = log.Warn().Str("reason", err.Error())
	}
	ev.Str("operation", operation).
		Str("batch_id", batchID).
		Int64("user_id", userID).
		Int("lines", lines).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("lote de inventario finalizado")
}
