package vendors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

func TestMapUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "vendors_tenant_id_email_key"}
	assert.ErrorIs(t, mapUniqueViolation(unique), shared.ErrDuplicate)
	assert.ErrorIs(t, mapUniqueViolation(fmt.Errorf("insert vendor: %w", unique)), shared.ErrDuplicate)

	notNull := &pgconn.PgError{Code: "23502"}
	assert.NotErrorIs(t, mapUniqueViolation(notNull), shared.ErrDuplicate)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapUniqueViolation(plain))
}
