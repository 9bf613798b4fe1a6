package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cadscript/cli/cmd"
	"github.com/ardnew/cadscript/pkg"
)

// CLI is the top-level command-line interface for cadscript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Check  cmd.Check  `cmd:"" default:"withargs" help:"Analyze scripts and report diagnostics"`
	Dump   cmd.Dump   `cmd:""                    help:"Write the symbol table of a script"`
	Query  cmd.Query  `cmd:""                    help:"Evaluate an expression over the symbol table of a script"`
	Browse cmd.Browse `cmd:""                    help:"Explore the symbol table of a script interactively"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the cadscript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when parsing
// terminates early, such as for --help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(configFile)

	vars := kong.Vars{
		"version":                cli.version(),
		cmd.ConfigIdentifier:     configFilePath,
		cmd.ConfigNameIdentifier: configName,
		cmd.CacheIdentifier:      cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Boolean logger flags have no TextUnmarshaler, so scan for them before
	// parsing in case parsing itself logs.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(configName+".json")),
		kong.Configuration(resolve(ctx, configName), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Apply the flags without a TextUnmarshaler, such as the time layout.
	defer cli.Log.start(ctx)()

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}

func (*CLI) version() string {
	names := make([]string, 0, len(pkg.Author))
	for _, a := range pkg.Author {
		names = append(names, a.Name+" <"+a.Email+">")
	}

	if len(names) == 0 {
		return pkg.Name + " " + pkg.Version
	}

	return pkg.Name + " " + pkg.Version + " (" + strings.Join(names, ", ") + ")"
}
