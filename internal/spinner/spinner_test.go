package spinner

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStart_DrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, "Loading catalog")
	time.Sleep(3 * Interval)
	stop()

	out := buf.String()
	assert.Contains(t, out, "Loading catalog")
	assert.True(t, strings.HasSuffix(out, "\r"), "line is cleared on stop")
}

func TestStart_StopTwice(t *testing.T) {
	var buf bytes.Buffer
	stop := Start(&buf, "x")
	stop()
	stop()
}

func TestStart_StopBeforeFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	Start(&buf, "quick")()
	assert.Empty(t, buf.String())
}

func TestOnTerminal_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	stop := OnTerminal(&buf, "Loading catalog")
	time.Sleep(2 * Interval)
	stop()
	assert.Empty(t, buf.String())
}
