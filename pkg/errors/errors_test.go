package errors_test

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tracererrors "github.com/iamNilotpal/memtracer/pkg/errors"
)

func TestValidationError_ChainAndAccessors(t *testing.T) {
	err := tracererrors.NewValidationError(nil, tracererrors.ErrorCodeInvalidInput, "bad input").
		WithField("maxDepth").
		WithRule("> 0").
		WithProvided(-1).
		WithExpected("positive int")

	assert.Equal(t, "maxDepth", err.Field())
	assert.Equal(t, "> 0", err.Rule())
	assert.Equal(t, -1, err.Provided())
	assert.Equal(t, "positive int", err.Expected())
	assert.Equal(t, tracererrors.ErrorCodeInvalidInput, err.Code())
	assert.Equal(t, "bad input", err.Error())
}

func TestIsValidationError_MatchesThroughWrapping(t *testing.T) {
	inner := tracererrors.NewValidationError(nil, tracererrors.ErrorCodeInvalidInput, "bad")
	wrapped := stdErrors.New("context: " + inner.Error())
	chained := fmt.Errorf("context: %w", inner)

	assert.True(t, tracererrors.IsValidationError(inner))
	assert.True(t, tracererrors.IsValidationError(chained), "%w-wrapped errors chain via Unwrap")
	assert.False(t, tracererrors.IsValidationError(wrapped), "a new error built from the message string doesn't chain via Unwrap")
}

func TestAsArchiveError_ExtractsFields(t *testing.T) {
	var err error = tracererrors.NewArchiveError(nil, tracererrors.ErrorCodeIO, "write failed").
		WithSegmentID(3).
		WithOffset(128).
		WithFileName("dump_00003.dump").
		WithPath("/var/log/dump_00003.dump")

	ae, ok := tracererrors.AsArchiveError(err)
	require.True(t, ok)
	assert.Equal(t, 3, ae.SegmentId())
	assert.Equal(t, 128, ae.Offset())
	assert.Equal(t, "dump_00003.dump", ae.FileName())
	assert.Equal(t, "/var/log/dump_00003.dump", ae.Path())
}

func TestAsIndexError_ExtractsFields(t *testing.T) {
	var err error = tracererrors.NewDuplicatePointerError(0xdead, 7)

	ie, ok := tracererrors.AsIndexError(err)
	require.True(t, ok)
	assert.Equal(t, uintptr(0xdead), ie.Pointer())
	assert.Equal(t, 7, ie.IndexSize())
	assert.Equal(t, "Allocate", ie.Operation())
	assert.Equal(t, tracererrors.ErrorCodeDuplicatePointer, ie.Code())
}

func TestAsIntegrityError_ExtractsVictimAndKillerFingerprints(t *testing.T) {
	var err error = tracererrors.NewCanaryCorruptedError(0xbeef, 4, 0xDEADC0DE, 0x00000000).
		WithVictimFingerprint(111).
		WithKillerFingerprint(222)

	ie, ok := tracererrors.AsIntegrityError(err)
	require.True(t, ok)
	assert.Equal(t, uintptr(0xbeef), ie.Pointer())
	assert.Equal(t, 4, ie.CanaryOffset())
	assert.Equal(t, uint32(0xDEADC0DE), ie.ExpectedMagic())
	assert.Equal(t, uint32(0), ie.ActualMagic())
	assert.Equal(t, uint32(111), ie.VictimFingerprint())
	assert.Equal(t, uint32(222), ie.KillerFingerprint())
}

func TestGetErrorCode_FallsBackToInternalForUnknownErrors(t *testing.T) {
	assert.Equal(t, tracererrors.ErrorCodeInternal, tracererrors.GetErrorCode(stdErrors.New("plain")))
	assert.Equal(t, tracererrors.ErrorCodeInvalidFree, tracererrors.GetErrorCode(tracererrors.NewInvalidFreeError(0x1)))
}

func TestGetErrorDetails_ReturnsEmptyMapForPlainErrors(t *testing.T) {
	details := tracererrors.GetErrorDetails(stdErrors.New("plain"))
	assert.NotNil(t, details)
	assert.Empty(t, details)
}

func TestGetErrorDetails_ReturnsCapturedDetails(t *testing.T) {
	err := tracererrors.NewValidationError(nil, tracererrors.ErrorCodeInvalidInput, "bad").
		WithDetail("field", "separator")

	details := tracererrors.GetErrorDetails(err)
	assert.Equal(t, "separator", details["field"])
}
