package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	mdshared "github.com/bizledger/bizledger/internal/masterdata/shared"
	"github.com/bizledger/bizledger/internal/platform/httpx"
	"github.com/bizledger/bizledger/internal/shared"
)

func TestRespondErrorMapsDomainSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"httpx not found", httpx.ErrNotFound, http.StatusNotFound},
		{"httpx duplicate", httpx.ErrDuplicate, http.StatusConflict},
		{"registry not found", mdshared.ErrNotFound, http.StatusNotFound},
		{"registry duplicate", mdshared.ErrDuplicate, http.StatusConflict},
		{"registry invalid id", mdshared.ErrInvalidID, http.StatusBadRequest},
		{"shared not found", shared.ErrNotFound, http.StatusNotFound},
		{"wrapped registry not found", fmt.Errorf("get client: %w", mdshared.ErrNotFound), http.StatusNotFound},
		{"wrapped registry duplicate", fmt.Errorf("create client: %w", mdshared.ErrDuplicate), http.StatusConflict},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			httpx.RespondError(rec, tc.err)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
