package log

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.settings.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatJSON {
		t.Errorf("expected default format json, got %v", logger.Format())
	}
	if !logger.settings.pretty {
		t.Error("expected pretty enabled by default")
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	logger.Info("dropped", slog.String("key", "value"))
	logger.ErrorContext(t.Context(), "dropped")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}
	if got := logger.With(slog.Int("n", 1)); got.Logger != nil {
		t.Error("With on zero Logger created a handler")
	}

	var buf bytes.Buffer
	logger = logger.Wrap(WithOutput(&buf), WithPretty(false))
	logger.Info("kept")

	if !strings.Contains(buf.String(), `"msg":"kept"`) {
		t.Errorf("Wrap on zero Logger did not configure output: %q", buf.String())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()
	logger2 := Make(&buf, WithLevel(LevelError))
	logger2.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger2.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Trace_RendersLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithPretty(false))

	logger.TraceContext(t.Context(), "deep")

	if !strings.Contains(buf.String(), `"level":"TRACE"`) {
		t.Errorf("expected TRACE level, got %s", buf.String())
	}

	buf.Reset()
	Make(&buf, WithLevel(LevelDebug)).Trace("hidden")

	if buf.Len() > 0 {
		t.Errorf("trace logged at debug level: %s", buf.String())
	}
}

func TestLogger_Make_WithTimeLayout_SetsLayout(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		contains string
	}{
		{"rfc3339 named", "RFC3339", "T"},
		{"rfc3339 nano named", "RFC3339Nano", "."},
		{"kitchen mixed case", "kitchen", "M\""},
		{"custom layout", "2006/01/02", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithTimeLayout(tt.layout), WithPretty(false))
			logger.Info("test")

			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("failed to parse JSON output: %v", err)
			}

			if got, _ := result["time"].(string); !strings.Contains(got+`"`, tt.contains) {
				t.Errorf("expected time to contain %q, got: %q", tt.contains, got)
			}
		})
	}
}

func TestLogger_Make_WithTimeLayout_None_OmitsTime(t *testing.T) {
	for _, layout := range []string{"none", ""} {
		var buf bytes.Buffer
		Make(&buf, WithTimeLayout(layout), WithPretty(false)).Info("test")

		if strings.Contains(buf.String(), `"time"`) {
			t.Errorf("layout %q: time included: %s", layout, buf.String())
		}
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true), WithPretty(false))
	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, "log_test.go") {
		t.Errorf("caller info does not name this file: %s", output)
	}

	buf.Reset()
	logger2 := Make(&buf, WithCaller(false), WithPretty(false))
	logger2.Info("test message")

	if strings.Contains(buf.String(), "source") {
		t.Error("caller info included when disabled")
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}
		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("json pretty", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))
		logger.Info("test message", slog.String("key", "value"))

		if !strings.Contains(buf.String(), "\n  \"key\": \"value\"") {
			t.Errorf("expected indented JSON, got: %s", buf.String())
		}

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse indented JSON output: %v", err)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, `msg="test message"`) {
			t.Errorf("message not found in text output: %s", output)
		}
		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})

	t.Run("text pretty", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf,
			WithFormat(FormatText),
			WithPretty(true),
			WithTimeLayout("none"))
		logger.With(slog.String("command", "SHOW_PARAM")).
			Warn("unquoted", slog.Int("n", 2), slog.Group("pos", slog.Int("line", 3)))

		// A buffer is not a terminal, so no escape sequences are emitted.
		const want = "WARN unquoted command=SHOW_PARAM n=2 pos.line=3\n"
		if got := buf.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestLogger_Wrap_KeepsSettings(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithFormat(FormatText), WithPretty(false))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if wrapped.Format() != FormatText {
		t.Errorf("Wrap changed format to %v", wrapped.Format())
	}
	if base.Level() != LevelInfo || wrapped.Level() != LevelDebug {
		t.Errorf("levels base=%v wrapped=%v", base.Level(), wrapped.Level())
	}

	wrapped.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Error("wrapped logger did not write to the original output")
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", (Logger).Trace, LevelTrace, true},
		{"trace at debug", (Logger).Trace, LevelDebug, false},
		{"debug at debug", (Logger).Debug, LevelDebug, true},
		{"debug at info", (Logger).Debug, LevelInfo, false},
		{"info at info", (Logger).Info, LevelInfo, true},
		{"info at warn", (Logger).Info, LevelWarn, false},
		{"warn at warn", (Logger).Warn, LevelWarn, true},
		{"warn at error", (Logger).Warn, LevelError, false},
		{"error at error", (Logger).Error, LevelError, true},
		{"error at debug", (Logger).Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel))
			tt.logFunc(logger, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.logged {
				t.Errorf(
					"expected logged=%v, got output length=%d",
					tt.logged,
					buf.Len(),
				)
			}
		})
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatText} {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(format), WithPretty(format == FormatText))

		var wg sync.WaitGroup
		for i := range 100 {
			wg.Go(func() {
				logger.Info("concurrent message", slog.Int("id", i))
			})
		}
		wg.Wait()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 100 {
			t.Errorf("%v: expected 100 log lines, got %d", format, len(lines))
		}
	}
}
