package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

func TestResult(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ResultSuccess},
		{domain.ErrAccountNotFound, ResultRejected},
		{fmt.Errorf("create: %w", domain.ErrEmailTaken), ResultRejected},
		{domain.ErrInvalidCredentials, ResultRejected},
		{domain.ErrInvalidRole, ResultRejected},
		{fmt.Errorf("get: %w", domain.ErrUnavailable), ResultError},
		{errors.New("boom"), ResultError},
	}
	for _, tc := range cases {
		if got := Result(tc.err); got != tc.want {
			t.Errorf("Result(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
