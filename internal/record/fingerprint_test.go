package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iamNilotpal/memtracer/internal/record"
)

func TestFingerprint_SameIPsProduceSameFingerprint(t *testing.T) {
	ips := []uintptr{0x1000, 0x2000, 0x3000}

	a := record.Fingerprint(ips)
	b := record.Fingerprint([]uintptr{0x1000, 0x2000, 0x3000})

	assert.Equal(t, a, b)
}

func TestFingerprint_DifferentIPsProduceDifferentFingerprints(t *testing.T) {
	a := record.Fingerprint([]uintptr{0x1000, 0x2000})
	b := record.Fingerprint([]uintptr{0x1000, 0x2001})

	assert.NotEqual(t, a, b)
}

func TestFingerprint_EmptyIsLegal(t *testing.T) {
	assert.Equal(t, record.Fingerprint(nil), record.Fingerprint([]uintptr{}))
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	a := record.Fingerprint([]uintptr{0x1000, 0x2000})
	b := record.Fingerprint([]uintptr{0x2000, 0x1000})

	assert.NotEqual(t, a, b)
}
