package message

import (
	"bytes"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetState(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetQuiet(false)
		SetSilent(false)
		SetNoColor(false)
		SetOutput(os.Stdout)
	})
	SetQuiet(false)
	SetSilent(false)
	SetNoColor(true)
}

func TestQuietSuppressesInfoButNotWarnings(t *testing.T) {
	resetState(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetQuiet(true)

	Info("hidden")
	Success("hidden")
	Warning("shown")
	Error("shown")
	Critical("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[!] shown")
	assert.Contains(t, out, "[-] shown")
	assert.Contains(t, out, "[!!] shown")
}

func TestSilentSuppressesEverythingExceptCritical(t *testing.T) {
	resetState(t)
	var buf bytes.Buffer
	SetOutput(&buf)
	SetSilent(true)

	Info("hidden")
	Warning("hidden")
	Error("hidden")
	Section("hidden")
	Banner()
	Critical("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[!!] shown")
}

// Exercises the suppression flags and the printers from concurrent
// goroutines; the race detector fails this test if any guard reads the
// flags outside the lock.
func TestConcurrentSettersAndPrinters(t *testing.T) {
	resetState(t)
	// printers run under the read lock and may interleave, so the sink
	// has to tolerate concurrent writes
	SetOutput(io.Discard)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch i % 4 {
				case 0:
					SetQuiet(j%2 == 0)
				case 1:
					Info("worker %d message %d", i, j)
				case 2:
					Warning("worker %d message %d", i, j)
				case 3:
					Section("worker %d", i)
					_ = Emphasize("bold")
				}
			}
		}(i)
	}
	wg.Wait()
}
