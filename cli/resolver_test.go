package cli

import (
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cadscript/pkg"
)

func TestConfig_Flatten(t *testing.T) {
	t.Parallel()

	c := make(config)
	c.flatten("", map[string]any{
		"log": map[string]any{
			"level":  "debug",
			"pretty": false,
		},
		"base_dir": "/opt/cad",
		"pprof": map[string]any{
			"mode": "cpu",
		},
	})

	want := config{
		"log-level":  "debug",
		"log-pretty": false,
		"base-dir":   "/opt/cad",
		"pprof-mode": "cpu",
	}

	if !maps.Equal(c, want) {
		t.Errorf("flatten() = %v, want %v", c, want)
	}
}

func TestScalar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want any
	}{
		{int(2), "2"},
		{int64(-3), "-3"},
		{uint64(4), "4"},
		{1.5, "1.5"},
		{"text", "text"},
		{true, true},
		{nil, nil},
	}

	for _, tt := range tests {
		if got := scalar(tt.in); got != tt.want {
			t.Errorf("scalar(%#v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}

	got, ok := scalar([]any{uint64(1), "x"}).([]any)
	if !ok || !slices.Equal(got, []any{"1", "x"}) {
		t.Errorf("scalar(sequence) = %#v", got)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want config
	}{
		{
			name: "nested",
			doc:  "config:\n  log:\n    level: debug\n  hints: false\n  pprof_dir: /tmp/p\n",
			want: config{"log-level": "debug", "hints": false, "pprof-dir": "/tmp/p"},
		},
		{
			name: "other key",
			doc:  "other:\n  log-level: debug\n",
			want: config{},
		},
		{
			name: "empty",
			doc:  "",
			want: config{},
		},
		{
			name: "malformed",
			doc:  "config: [unclosed\n",
			want: config{},
		},
		{
			name: "not a mapping",
			doc:  "config: 3\n",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := resolve(t.Context(), configName)(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("loader error = %v", err)
			}

			got, ok := r.(config)
			if !ok {
				t.Fatalf("resolver = %T, want config", r)
			}

			if !maps.Equal(got, tt.want) {
				t.Errorf("resolved = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Resolve(t *testing.T) {
	t.Parallel()

	c := config{"log-level": "debug"}

	if err := c.Validate(nil); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	v, err := c.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
	if err != nil || v != "debug" {
		t.Errorf("Resolve(log-level) = %v, %v", v, err)
	}

	v, err = c.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-format"}})
	if err != nil || v != nil {
		t.Errorf("Resolve(log-format) = %v, %v", v, err)
	}
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	var cli CLI

	parser, err := kong.New(&cli,
		kong.Vars{"version": cli.version()}.
			CloneWith(cli.Log.vars()).
			CloneWith(cli.Pprof.vars()),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", args, err)
	}

	return &cli, ktx
}

func TestCLI_Parse(t *testing.T) {
	cli, ktx := parse(t, "query", "--format", "json", "a.yaml", "N * 2")

	if !strings.HasPrefix(ktx.Command(), "query") {
		t.Errorf("Command() = %q, want query", ktx.Command())
	}

	if cli.Query.Format != "json" || cli.Query.Expr != "N * 2" || !cli.Query.Hints {
		t.Errorf("query = %+v", cli.Query)
	}

	cli, ktx = parse(t, "--no-hints", "a.yaml", "b.yaml")

	if !strings.HasPrefix(ktx.Command(), "check") {
		t.Errorf("default command = %q, want check", ktx.Command())
	}

	if !slices.Equal(cli.Check.Scripts, []string{"a.yaml", "b.yaml"}) || cli.Check.Hints {
		t.Errorf("check = %+v", cli.Check)
	}

	cli, _ = parse(t, "dump", "-F", "json")

	if cli.Dump.Script != "-" || cli.Dump.Indent != 2 {
		t.Errorf("dump = %+v, want stdin with indent 2", cli.Dump)
	}
}

func TestCLI_Version(t *testing.T) {
	t.Parallel()

	got := (&CLI{}).version()

	if !strings.HasPrefix(got, pkg.Name+" "+pkg.Version) {
		t.Errorf("version() = %q, want prefix %q", got, pkg.Name+" "+pkg.Version)
	}

	for _, a := range pkg.Author {
		if !strings.Contains(got, a.Email) {
			t.Errorf("version() = %q, missing author %s", got, a.Email)
		}
	}
}
