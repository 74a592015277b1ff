package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/mirrorbeat/pkg/ports"
)

func TestConsoleLogger_Streams(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleTo(&out, &errOut, ports.LevelDebug, false)

	log.Debug("debug line %d", 1)
	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line %s", "x")

	if got := out.String(); got != "debug line 1\ninfo line\n" {
		t.Errorf("unexpected stdout %q", got)
	}
	if got := errOut.String(); got != "warn line\nerror line x\n" {
		t.Errorf("unexpected stderr %q", got)
	}
}

func TestConsoleLogger_Level(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleTo(&out, &errOut, ports.LevelWarn, false)

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	if out.Len() != 0 {
		t.Errorf("expected no stdout output, got %q", out.String())
	}
	if errOut.String() != "shown\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}

	quiet := NewConsoleTo(&out, &errOut, ports.LevelQuiet, false)
	quiet.Error("hidden")
	if errOut.String() != "shown\n" {
		t.Errorf("quiet logger must not write, got %q", errOut.String())
	}
}

func TestConsoleLogger_Component(t *testing.T) {
	var out bytes.Buffer
	root := NewConsoleTo(&out, &out, ports.LevelInfo, false)

	root.WithComponent("stream").Info("frame %d", 3)
	root.Info("root")

	if got := out.String(); got != "[stream] frame 3\nroot\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestConsoleLogger_Color(t *testing.T) {
	var out, errOut bytes.Buffer
	log := NewConsoleTo(&out, &errOut, ports.LevelDebug, true).WithComponent("encode")

	log.Warn("careful")

	got := errOut.String()
	if !strings.HasPrefix(got, colorYellow) || !strings.Contains(got, colorCyan+"[encode]") {
		t.Errorf("expected colored output, got %q", got)
	}
}

func TestNoopLogger(t *testing.T) {
	var log ports.Logger = NewNoop()
	log.Error("nothing %d", 1)
	if log.WithComponent("x") == nil {
		t.Error("expected a logger")
	}
}
