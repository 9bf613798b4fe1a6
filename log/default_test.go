package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Trace", Trace, "TRACE", "trace message"},
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		buf.Reset()
		tt.fn(tt.msg, slog.String("fn", tt.name))

		out := buf.String()
		if !strings.Contains(out, `"level":"`+tt.level+`"`) {
			t.Errorf("%s: level %s not found in %s", tt.name, tt.level, out)
		}
		if !strings.Contains(out, tt.msg) || !strings.Contains(out, `"fn":"`+tt.name+`"`) {
			t.Errorf("%s: message or attribute missing in %s", tt.name, out)
		}
	}

	buf.Reset()
	With(slog.String("pkg", "lang")).Info("scoped")

	if !strings.Contains(buf.String(), `"pkg":"lang"`) {
		t.Errorf("With() attribute missing: %s", buf.String())
	}
}

func TestPackage_Config_ReconfiguresDefault(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(Make(&buf, WithPretty(false)))

	InfoContext(t.Context(), "before")
	Config(WithLevel(LevelWarn), WithFormat(FormatText))
	InfoContext(t.Context(), "filtered")
	WarnContext(t.Context(), "after")

	out := buf.String()
	if strings.Contains(out, "filtered") {
		t.Errorf("info logged after raising level: %s", out)
	}
	if !strings.Contains(out, `"msg":"before"`) || !strings.Contains(out, "msg=after") {
		t.Errorf("unexpected output: %s", out)
	}
	if Default().Format() != FormatText {
		t.Errorf("Config did not change format")
	}
}
