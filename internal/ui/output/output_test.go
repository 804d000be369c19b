package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"go.trai.ch/mason/internal/ui/output"
)

func TestColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	p := output.ColorProfile()
	assert.Equal(t, termenv.Ascii, p, "NO_COLOR should force Ascii profile")

	// Without NO_COLOR the profile depends on the environment; just
	// verify the detection returns something in range.
	t.Setenv("NO_COLOR", "")
	p = output.ColorProfile()
	assert.True(t, p >= termenv.TrueColor && p <= termenv.Ascii)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf)
	assert.NotNil(t, out)

	_, _ = out.WriteString("test")
	assert.Equal(t, "test", buf.String())
}

func TestNew_NilWriterDefaultsToStderr(t *testing.T) {
	out := output.New(nil)
	assert.NotNil(t, out)
}
