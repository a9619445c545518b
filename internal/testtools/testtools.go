// Package tt holds the assertion helpers shared by the tests of this repo.
package tt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vingarcia/vizpipe"
)

func AssertNoErr(t *testing.T, err error) {
	t.Helper()
	require.NoError(t, err)
}

func AssertEqual(t *testing.T, got any, expected any, msgAndArgs ...any) {
	t.Helper()
	require.Equal(t, expected, got, msgAndArgs...)
}

func AssertNotEqual(t *testing.T, got any, unexpected any, msgAndArgs ...any) {
	t.Helper()
	require.NotEqual(t, unexpected, got, msgAndArgs...)
}

// AssertErrContains checks that err is not nil and that its
// message contains every one of the substrs.
func AssertErrContains(t *testing.T, err error, substrs ...string) {
	t.Helper()
	require.Error(t, err)
	for _, substr := range substrs {
		require.Contains(t, err.Error(), substr)
	}
}

// AssertErrCode checks that err carries a vizpipe.Err with the given code.
func AssertErrCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, vizpipe.ErrIs(err, code), "expected error code %s, got: %s", code, err)
}

// ErrData extracts the Data field of the vizpipe.Err inside err.
func ErrData(t *testing.T, err error) map[string]any {
	t.Helper()
	var e vizpipe.Err
	require.ErrorAs(t, err, &e)
	return e.Data
}
