package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)

	r.Step("searching mailbox")
	r.Success("contract %s found", "4711")
	r.Warn("expiry unknown")
	r.Info("cooldown of %s active", "72h")

	out := buf.String()
	for _, want := range []string{
		"searching mailbox",
		"contract 4711 found",
		"expiry unknown",
		"cooldown of 72h active",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := len(strings.Split(strings.TrimRight(out, "\n"), "\n")); got != 4 {
		t.Errorf("got %d lines, want 4", got)
	}
}
