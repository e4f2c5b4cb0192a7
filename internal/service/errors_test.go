package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailErrorUnwrapsToSentinel(t *testing.T) {
	err := fmt.Errorf("create order: %w", withDetail(ErrInsufficientStock, "Polo Shirt"))

	require.True(t, errors.Is(err, ErrInsufficientStock))
	require.Equal(t, ErrorKindConflict, KindOf(err))
	require.Equal(t, "insufficient_stock", ReasonOf(err))
	require.Equal(t, []interface{}{"Polo Shirt"}, ErrorArgs(err))
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	err := errors.New("disk full")
	require.Equal(t, ErrorKindInternal, KindOf(err))
	require.Equal(t, "internal_error", ReasonOf(err))
	require.Nil(t, ErrorArgs(err))
}

func TestWrapStorageErrorKeepsBusinessErrors(t *testing.T) {
	require.Nil(t, wrapStorageError(ErrOrderCreateFailed, nil))

	biz := withDetail(ErrInsufficientStock, "Cap")
	require.Equal(t, biz, wrapStorageError(ErrOrderCreateFailed, biz))

	wrapped := wrapStorageError(ErrOrderCreateFailed, errors.New("database is locked"))
	require.True(t, errors.Is(wrapped, ErrOrderCreateFailed))
	require.Equal(t, ErrorKindInternal, KindOf(wrapped))
}
