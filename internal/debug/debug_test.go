package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintOnceDeduplicates(t *testing.T) {
	Reset()

	PrintOnce("renderer: no camera in scene")
	assert.True(t, Seen("renderer: no camera in scene"))
	assert.False(t, Seen("some other message"))

	// A second print of the same message must not clear or duplicate state.
	PrintOnce("renderer: no camera in scene")
	assert.True(t, Seen("renderer: no camera in scene"))
}

func TestResetClearsState(t *testing.T) {
	Reset()
	PrintOnce("headless fallback active")
	Reset()
	assert.False(t, Seen("headless fallback active"))
}
