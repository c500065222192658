package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/km-arc/configinject/framework/config"
	"github.com/km-arc/configinject/framework/container"
	"github.com/km-arc/configinject/framework/inject"
	"github.com/km-arc/configinject/framework/manifest"
)

type validateOptions struct {
	envFiles     []string
	configFile   string
	manifestPath string
	output       string
}

func newValidateCommand(root *rootOptions) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the bindings declared in a component manifest",
		Long: `Validate loads the component manifest, discovers every configuration binding
and mapping it declares, and checks them against the configured sources.
All problems are reported together.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv file, repeatable; later files win")
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file")
	f.StringVarP(&opts.manifestPath, "manifest", "m", "configinject.yaml", "component manifest")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	config.AddDefineFlag(f)
	return cmd
}

func runValidate(cmd *cobra.Command, root *rootOptions, opts *validateOptions) error {
	if opts.output != "text" && opts.output != "json" {
		return newUsageError(fmt.Sprintf("unknown output format %q", opts.output), nil)
	}
	log := root.logger(cmd)

	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return newConfigError("failed to load manifest", err)
	}
	cfg, err := buildConfig(cmd.Flags(), opts)
	if err != nil {
		return newConfigError("failed to build configuration", err)
	}

	log.Debug("validating", "manifest", opts.manifestPath, "components", len(m.Components), "mappings", len(m.Mappings))
	reg, registration, report, err := inject.NewPipeline(cfg, container.New(), inject.WithLogger(log)).Run(m.Declarer())
	if err != nil {
		return newConfigError("validation could not run", err)
	}

	summary := summarize(reg, registration, report)
	if err := summary.write(cmd.OutOrStdout(), opts.output); err != nil {
		return err
	}
	if !report.Empty() {
		return newValidationError(fmt.Sprintf("%d configuration problem(s) found", report.Len()), nil)
	}
	return nil
}

func buildConfig(fs *pflag.FlagSet, opts *validateOptions) (*config.Config, error) {
	dotenv, err := config.NewDotenvSource(opts.envFiles...)
	if err != nil {
		return nil, err
	}
	flags, err := config.NewFlagSource(fs)
	if err != nil {
		return nil, err
	}
	srcs := []config.Source{config.NewEnvSource(), dotenv, flags}
	if opts.configFile != "" {
		y, err := config.NewYAMLSource(opts.configFile)
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, y)
	}
	return config.New(config.WithSources(srcs...)), nil
}

// summary is what validate prints.
type summary struct {
	Valid     bool     `json:"valid"`
	Bindings  int      `json:"bindings"`
	Mappings  []string `json:"mappings"`
	Resolvers []string `json:"resolvers"`
	Problems  []string `json:"problems"`
}

func summarize(reg *inject.Registry, registration inject.Registration, report *inject.Report) summary {
	s := summary{
		Valid:     report.Empty(),
		Bindings:  len(reg.Bindings()),
		Mappings:  []string{},
		Resolvers: []string{},
		Problems:  []string{},
	}
	for _, h := range registration.Mappings {
		s.Mappings = append(s.Mappings, h.Pair.String())
	}
	for _, r := range registration.Resolvers {
		s.Resolvers = append(s.Resolvers, r.Type.String())
	}
	for _, p := range report.Problems() {
		s.Problems = append(s.Problems, p.Error())
	}
	return s
}

func (s summary) write(w io.Writer, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "bindings:  %d\n", s.Bindings)
	fmt.Fprintf(w, "mappings:  %d\n", len(s.Mappings))
	for _, m := range s.Mappings {
		fmt.Fprintf(w, "  - %s\n", m)
	}
	fmt.Fprintf(w, "resolvers: %d\n", len(s.Resolvers))
	for _, r := range s.Resolvers {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	if s.Valid {
		_, err := fmt.Fprintln(w, "configuration is valid")
		return err
	}
	fmt.Fprintf(w, "problems:  %d\n", len(s.Problems))
	for _, p := range s.Problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return nil
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return newUsageError("invalid arguments", err)
		}
		return nil
	}
}
