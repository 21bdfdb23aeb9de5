package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptpack/pkg/logging"
	"promptpack/pkg/pack"
	"promptpack/pkg/report"
)

// Flag values bound in init. Only flags the user actually set override
// the config file.
var (
	flagOutputDir   string
	flagIncludeFile []string
	flagIncludeExt  []string
	flagIncludeDir  []string
	flagExcludeFile []string
	flagExcludeExt  []string
	flagExcludeDir  []string
	flagIgnore      []string
	flagConcurrency int
	flagMaxFileSize int
	flagTree        bool
	flagDebug       bool
	flagNoColor     bool
)

var rootLogger *zap.Logger

// RootCmd is the base command; running it packs the project directory.
var RootCmd = &cobra.Command{
	Use:   "promptpack [path]",
	Short: "Promptpack concatenates a project into one prompt-ready file",
	Long: `Promptpack walks a project directory, filters its files through layered
gitignore-style rules plus include and exclude filters, strips comments and
collapses whitespace, and concatenates the result into a single timestamped
text artifact ready to paste into an AI prompt.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPack,
}

func init() {
	flags := RootCmd.Flags()
	flags.StringVarP(&flagOutputDir, "output-dir", "o", pack.DefaultOutputDir, "artifact directory, relative to the project root")
	flags.StringSliceVar(&flagIncludeFile, "include-file", nil, "pack only these exact files (repeatable)")
	flags.StringSliceVar(&flagIncludeExt, "include-ext", nil, "pack only files with these extensions (repeatable)")
	flags.StringSliceVar(&flagIncludeDir, "include-dir", nil, "pack only files under these folders (repeatable)")
	flags.StringSliceVar(&flagExcludeFile, "exclude-file", nil, "drop these exact files (repeatable)")
	flags.StringSliceVar(&flagExcludeExt, "exclude-ext", nil, "drop files with these extensions (repeatable)")
	flags.StringSliceVar(&flagExcludeDir, "exclude-dir", nil, "drop files under these folders (repeatable)")
	flags.StringSliceVar(&flagIgnore, "ignore", nil, "additional gitignore-style patterns (repeatable)")
	flags.IntVarP(&flagConcurrency, "concurrency", "c", pack.DefaultConcurrency, "number of file processing workers")
	flags.IntVar(&flagMaxFileSize, "max-file-size", pack.DefaultMaxFileSizeKB, "maximum file size to pack in KB, 0 for no limit")
	flags.BoolVar(&flagTree, "tree", false, "also write a tree listing of the packed files")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	flags.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
}

// Execute runs the root command with the given context and logger.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootLogger = logger
	return RootCmd.ExecuteContext(ctx)
}

// runPack wires the config file and flag overrides into a pack run.
func runPack(cmd *cobra.Command, args []string) error {
	logger := rootLogger
	if flagDebug {
		debugLogger, err := logging.Setup(true)
		if err != nil {
			return err
		}
		defer logging.Sync(debugLogger)
		logger = debugLogger
	}

	projectPath := "."
	if len(args) == 1 {
		projectPath = args[0]
	}

	cfg, err := pack.LoadConfig(projectPath, logger)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	console := report.NewConsole(os.Stdout, flagNoColor)
	summary, err := pack.Run(cmd.Context(), cfg, logger, console.Outcome)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Run interrupted, partial artifact removed")
		}
		return err
	}

	console.Summary(summary)
	return nil
}

// applyFlagOverrides copies flag values over the loaded config. Filter
// flags replace their config counterparts; ignore patterns add to them.
func applyFlagOverrides(cmd *cobra.Command, cfg *pack.Config) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
	if flags.Changed("include-file") {
		cfg.Include.Files = flagIncludeFile
	}
	if flags.Changed("include-ext") {
		cfg.Include.Extensions = flagIncludeExt
	}
	if flags.Changed("include-dir") {
		cfg.Include.Folders = flagIncludeDir
	}
	if flags.Changed("exclude-file") {
		cfg.Exclude.Files = flagExcludeFile
	}
	if flags.Changed("exclude-ext") {
		cfg.Exclude.Extensions = flagExcludeExt
	}
	if flags.Changed("exclude-dir") {
		cfg.Exclude.Folders = flagExcludeDir
	}
	if flags.Changed("ignore") {
		cfg.IgnorePatterns = append(cfg.IgnorePatterns, flagIgnore...)
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = flagConcurrency
	}
	if flags.Changed("max-file-size") {
		cfg.MaxFileSizeKB = flagMaxFileSize
	}
	if flags.Changed("tree") {
		cfg.Tree = flagTree
	}
}
