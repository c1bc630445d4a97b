package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/info"
	"github.com/nerrad567/impt/internal/infrastructure/config"
	"github.com/nerrad567/impt/internal/infrastructure/logging"
	"github.com/nerrad567/impt/internal/output"
	"github.com/nerrad567/impt/internal/platform"
	"github.com/nerrad567/impt/internal/project"
	"github.com/nerrad567/impt/internal/resolver"
)

// Version is reported by impt --version. Set at build time via ldflags.
var Version = "dev"

// app carries the state shared by every command of one invocation.
type app struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	workDir string

	// Global flags.
	configPath string
	format     string
	debug      bool

	// Set up by prepare.
	cfgFile   string
	cfg       *config.Config
	logger    *logging.Logger
	formatter output.Formatter
	client    *platform.Client
	resolver  *resolver.Resolver
	composer  *info.Composer
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, in io.Reader, stdout, stderr io.Writer) int {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	a := &app{in: in, out: stdout, errOut: stderr, workDir: wd}
	return a.run(ctx, args)
}

func (a *app) run(ctx context.Context, args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	err := root.ExecuteContext(ctx)
	code, kind := classify(err)
	if err != nil {
		a.errorFormatter().Error(a.errOut, kind, err) //nolint:errcheck // Nothing left to report to
	}
	return code
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "impt",
		Short: "Manage devices, device groups, products and builds on the IoT platform",
		Long: `impt manages a device fleet on the IoT platform.

Entities can be addressed by id, by name, by MAC address or agent id (devices),
by email or username (accounts), or by the scoped form {owner}{product}{name}
where owner may be "me".`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.prepare,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err)
	})

	root.PersistentFlags().StringVarP(&a.format, "output", "z", "", "output mode: minimal or json")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "log platform requests to stderr")

	root.AddCommand(
		a.accountCommand(),
		a.buildCommand(),
		a.deviceCommand(),
		a.deviceGroupCommand(),
		a.loginCommand(),
		a.productCommand(),
	)
	return root
}

// prepare loads the configuration and builds the platform client, the
// resolver and the composer.
func (a *app) prepare(_ *cobra.Command, _ []string) error {
	a.cfgFile = a.configPath
	load := a.configPath
	if load == "" {
		a.cfgFile = config.DefaultPath()
		if _, err := os.Stat(a.cfgFile); err == nil {
			load = a.cfgFile
		}
	}

	cfg, err := config.Load(load)
	if err != nil {
		return err
	}
	a.cfg = cfg

	format := cfg.Output.Format
	if a.format != "" {
		format = a.format
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return newUsageError(err)
	}
	a.formatter = output.New(f)

	level := "warn"
	if a.debug {
		level = "debug"
	}
	a.logger = logging.NewWithWriter(a.errOut, config.LoggingConfig{Level: level, Format: "text"}, "impt", Version)

	return a.connect()
}

// connect (re)builds the platform collaborators from the current config.
func (a *app) connect() error {
	client, err := platform.NewClient(a.cfg.Platform.Endpoint, a.cfg.Platform.Token, a.cfg.GetPlatformTimeout())
	if err != nil {
		return err
	}
	client.SetLogger(a.logger)
	a.client = client

	a.resolver = resolver.New(client)
	a.resolver.SetLogger(a.logger)
	a.composer = info.New(client)
	a.composer.SetLogger(a.logger)
	return nil
}

// errorFormatter returns the formatter for failures, falling back to the
// -z flag (or minimal) when prepare never ran.
func (a *app) errorFormatter() output.Formatter {
	if a.formatter != nil {
		return a.formatter
	}
	f, err := output.ParseFormat(a.format)
	if err != nil {
		f = output.FormatMinimal
	}
	return output.New(f)
}

// resolve resolves raw as an entity of type t. An empty raw falls back to
// the project's device group.
func (a *app) resolve(ctx context.Context, t entity.Type, raw string) (*entity.Entity, error) {
	var hint *entity.Entity
	if strings.TrimSpace(raw) == "" {
		h, err := a.projectHint(ctx)
		if err != nil {
			return nil, err
		}
		hint = h
	}
	return a.resolver.Resolve(ctx, t, raw, hint)
}

// projectHint returns the device group of the project file in the working
// directory, or nil when there is no project.
func (a *app) projectHint(ctx context.Context) (*entity.Entity, error) {
	pf, err := project.Load(a.workDir, a.cfg.Project.File)
	if errors.Is(err, project.ErrNoProject) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.logger.Debug("using project device group", "path", pf.Path, "device_group_id", pf.DeviceGroupID)
	group, err := a.resolver.Resolve(ctx, entity.TypeDeviceGroup, pf.DeviceGroupID, nil)
	if err != nil {
		return nil, fmt.Errorf("project file %s: %w", pf.Path, err)
	}
	return group, nil
}

// showInfo composes and prints the info view of e.
func (a *app) showInfo(ctx context.Context, e *entity.Entity, full bool) error {
	depth := info.Shallow
	if full {
		depth = info.Full
	}
	view, err := a.composer.Compose(ctx, e, depth)
	if err != nil {
		return err
	}
	return a.formatter.Object(a.out, view.Tree())
}

// confirm asks before a destructive operation unless confirmed is set.
func (a *app) confirm(cmd *cobra.Command, confirmed bool, what string) (bool, error) {
	if confirmed {
		return true, nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s Are you sure you want to continue? [y/N] ", what)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// canceled reports a declined confirmation.
func (a *app) canceled() error {
	return a.formatter.Message(a.out, "Operation is canceled.")
}

// label quotes the reference the user typed, or the entity's name when the
// entity came from the project file.
func label(t entity.Type, raw string, e *entity.Entity) string {
	if strings.TrimSpace(raw) == "" && e != nil {
		return e.Label()
	}
	return fmt.Sprintf("%s %q", t, raw)
}

// entityTree renders the identifying fields of e under its type name.
func entityTree(e *entity.Entity) *output.Object {
	return output.NewObject().Set(e.Type.String(), output.NewObject().
		Set(entity.AttrID, e.ID).
		Set(entity.AttrName, e.Name))
}

// noArgs rejects positional arguments as a usage error.
func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return newUsageError(err)
	}
	return nil
}

// requireFlag reports a missing mandatory flag as a usage error.
func requireFlag(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return newUsageError(fmt.Errorf("--%s is required", name))
	}
	return nil
}
