// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dirmerge/dirmerge/internal/config"
	"github.com/dirmerge/dirmerge/internal/matcher"
	"github.com/dirmerge/dirmerge/internal/merge"
	"github.com/dirmerge/dirmerge/internal/output"
	"github.com/dirmerge/dirmerge/internal/render"
	"github.com/dirmerge/dirmerge/internal/sanitize"
	"github.com/dirmerge/dirmerge/internal/scanner"
	"github.com/dirmerge/dirmerge/internal/services/clipboard"
	"github.com/dirmerge/dirmerge/internal/tokenizer"
	"github.com/dirmerge/dirmerge/internal/types"
	"github.com/dirmerge/dirmerge/internal/utils"
)

const (
	inputFlagName        = "input"
	outputFlagName       = "output"
	stdoutFlagName       = "stdout"
	formatFlagName       = "format"
	treeFlagName         = "tree"
	listFlagName         = "list"
	statsFlagName        = "stats"
	noMergeFlagName      = "no-merge"
	globFlagName         = "glob"
	ignoreFlagName       = "ignore"
	excludeFlagName      = "exclude"
	headFlagName         = "head"
	tailFlagName         = "tail"
	noAutoIgnoreFlagName = "no-auto-ignore"
	sanitizeFlagName     = "sanitize"
	replaceFlagName      = "replace"
	yesFlagName          = "yes"
	debugFlagName        = "debug"
	configFlagName       = "config"
	copyFlagName         = "copy"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	versionFlagName      = "version"

	rootUse              = "dirmerge"
	rootShortDescription = "merge directory trees into a single file"
	rootLongDescription  = `dirmerge walks a directory tree, filters files with glob and
gitignore-style patterns, and merges the surviving text files into one
artifact in plain text or Markdown format.
Use --tree, --list, and --stats without an output destination to inspect a
directory without merging, and --sanitize to redact secrets from the output.`

	inputFlagDescription        = "input directory to merge"
	outputFlagDescription       = "output file path"
	stdoutFlagDescription       = "write merged output to stdout"
	formatFlagDescription       = "output format: text, markdown, or md"
	treeFlagDescription         = "include a directory tree section"
	listFlagDescription         = "include a file list section"
	statsFlagDescription        = "include aggregate statistics"
	noMergeFlagDescription      = "skip file contents in the output"
	globFlagDescription         = "include only files matching these patterns"
	ignoreFlagDescription       = "ignore file(s) with gitignore-style patterns"
	excludeFlagDescription      = "exclude files matching these patterns"
	headFlagDescription         = "keep only the first N lines of each file"
	tailFlagDescription         = "keep only the last N lines of each file"
	noAutoIgnoreFlagDescription = "disable automatic VCS and .gitignore handling"
	sanitizeFlagDescription     = "redact sensitive values from file contents"
	replaceFlagDescription      = "replacement rules file for sanitization"
	yesFlagDescription          = "skip the overwrite confirmation prompt"
	debugFlagDescription        = "enable debug logging"
	configFlagDescription       = "configuration file path"
	copyFlagDescription         = "copy merged output to the clipboard"
	tokensFlagDescription       = "count tokens in the merged files"
	modelFlagDescription        = "tokenizer model for token counting"
	versionFlagDescription      = "display application version"

	versionTemplate          = "dirmerge version: %s\n"
	defaultFormat            = types.FormatText
	defaultTokenizerModel    = "gpt-4"
	formatAliasMarkdownShort = "md"

	errorInputRequired        = "input directory is required"
	errorInputMissingFormat   = "input directory '%s' does not exist"
	errorInputNotDirectory    = "input path '%s' is not a directory"
	errorOutputRequired       = "output file is required (or use --stdout, --copy, or a display flag)"
	errorOutputEmpty          = "output file path is empty"
	errorInvalidFormatFormat  = "invalid format '%s': expected text, markdown, or md"
	errorHeadTailConflict     = "--head and --tail cannot be combined"
	errorNegativeWindowFormat = "--%s must be a positive line count"
	errorAbsolutePathFormat   = "resolving '%s': %w"

	warningIgnoreFileFormat   = "Warning: ignore file '%s' not found\n"
	warningModelFallbackFrmt  = "Warning: unknown model '%s', using %s encoding\n"
	autoDetectedIgnoreMessage = "Auto-detected and using: %s\n"
)

// rootOptions holds every flag value of the root command.
type rootOptions struct {
	inputDirectory   string
	outputPath       string
	toStdout         bool
	format           string
	showTree         bool
	showList         bool
	showStats        bool
	noMerge          bool
	globPatterns     []string
	ignoreFiles      []string
	excludePatterns  []string
	headLines        int
	tailLines        int
	noAutoIgnore     bool
	enableSanitize   bool
	replaceFilePath  string
	skipConfirmation bool
	debug            bool
	configFilePath   string
	copyToClipboard  bool
	countTokens      bool
	tokenizerModel   string
	showVersion      bool

	// outputSupplied distinguishes an empty --output value from an absent flag.
	outputSupplied bool
}

// Execute runs the dirmerge application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var options rootOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runRoot(command, &options)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&options.inputDirectory, inputFlagName, "i", "", inputFlagDescription)
	flagSet.StringVarP(&options.outputPath, outputFlagName, "o", "", outputFlagDescription)
	flagSet.BoolVar(&options.toStdout, stdoutFlagName, false, stdoutFlagDescription)
	flagSet.StringVarP(&options.format, formatFlagName, "f", defaultFormat, formatFlagDescription)
	flagSet.BoolVarP(&options.showTree, treeFlagName, "t", false, treeFlagDescription)
	flagSet.BoolVarP(&options.showList, listFlagName, "l", false, listFlagDescription)
	flagSet.BoolVar(&options.showStats, statsFlagName, false, statsFlagDescription)
	flagSet.BoolVar(&options.noMerge, noMergeFlagName, false, noMergeFlagDescription)
	flagSet.StringSliceVarP(&options.globPatterns, globFlagName, "g", nil, globFlagDescription)
	flagSet.StringSliceVar(&options.ignoreFiles, ignoreFlagName, nil, ignoreFlagDescription)
	flagSet.StringSliceVarP(&options.excludePatterns, excludeFlagName, "x", nil, excludeFlagDescription)
	flagSet.IntVar(&options.headLines, headFlagName, 0, headFlagDescription)
	flagSet.IntVar(&options.tailLines, tailFlagName, 0, tailFlagDescription)
	flagSet.BoolVar(&options.noAutoIgnore, noAutoIgnoreFlagName, false, noAutoIgnoreFlagDescription)
	flagSet.BoolVarP(&options.enableSanitize, sanitizeFlagName, "s", false, sanitizeFlagDescription)
	flagSet.StringVarP(&options.replaceFilePath, replaceFlagName, "r", "", replaceFlagDescription)
	flagSet.BoolVarP(&options.skipConfirmation, yesFlagName, "y", false, yesFlagDescription)
	flagSet.BoolVarP(&options.debug, debugFlagName, "d", false, debugFlagDescription)
	flagSet.StringVarP(&options.configFilePath, configFlagName, "c", "", configFlagDescription)
	flagSet.BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flagSet.BoolVar(&options.countTokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&options.tokenizerModel, modelFlagName, defaultTokenizerModel, modelFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)

	return rootCommand
}

// runRoot merges configuration into the flags, validates the resulting
// options, and executes the pipeline.
func runRoot(command *cobra.Command, options *rootOptions) error {
	configuration, configFilePath, configError := config.Load(options.configFilePath)
	if configError != nil {
		return configError
	}
	if configFilePath != "" {
		applyConfiguration(command, options, configuration)
	}
	options.outputSupplied = command.Flags().Changed(outputFlagName) || options.outputPath != ""

	if normalizeError := normalizeOptions(options); normalizeError != nil {
		return normalizeError
	}
	if validationError := validateOptions(options); validationError != nil {
		return validationError
	}

	logger, loggerError := buildLogger(options.debug)
	if loggerError != nil {
		return loggerError
	}
	defer logger.Sync()

	return executePipeline(options, logger)
}

// applyConfiguration fills every option whose flag was not set on the command
// line from the loaded configuration file.
func applyConfiguration(command *cobra.Command, options *rootOptions, configuration config.Configuration) {
	flagChanged := command.Flags().Changed

	if !flagChanged(inputFlagName) && configuration.Input != "" {
		options.inputDirectory = configuration.Input
	}
	if !flagChanged(outputFlagName) && configuration.Output != "" {
		options.outputPath = configuration.Output
	}
	if !flagChanged(formatFlagName) && configuration.Format != "" {
		options.format = configuration.Format
	}
	if !flagChanged(treeFlagName) && configuration.Tree {
		options.showTree = true
	}
	if !flagChanged(listFlagName) && configuration.List {
		options.showList = true
	}
	if !flagChanged(statsFlagName) && configuration.Stats {
		options.showStats = true
	}
	if !flagChanged(noMergeFlagName) && configuration.NoMerge {
		options.noMerge = true
	}
	if !flagChanged(sanitizeFlagName) && configuration.Sanitize {
		options.enableSanitize = true
	}
	if !flagChanged(yesFlagName) && configuration.Yes {
		options.skipConfirmation = true
	}
	if !flagChanged(debugFlagName) && configuration.Debug {
		options.debug = true
	}
	if !flagChanged(tokensFlagName) && configuration.Tokens {
		options.countTokens = true
	}
	if !flagChanged(copyFlagName) && configuration.Copy {
		options.copyToClipboard = true
	}
	if !flagChanged(modelFlagName) && configuration.Model != "" {
		options.tokenizerModel = configuration.Model
	}
	if !flagChanged(replaceFlagName) && configuration.ReplaceFile != "" {
		options.replaceFilePath = configuration.ReplaceFile
	}
	if !flagChanged(ignoreFlagName) && configuration.IgnoreFile != "" {
		options.ignoreFiles = []string{configuration.IgnoreFile}
	}
	if !flagChanged(globFlagName) {
		if configuredPatterns := config.NormalizePatternList(configuration.Glob); len(configuredPatterns) > 0 {
			options.globPatterns = configuredPatterns
		}
	}
	if !flagChanged(excludeFlagName) {
		if configuredPatterns := config.NormalizePatternList(configuration.Exclude); len(configuredPatterns) > 0 {
			options.excludePatterns = configuredPatterns
		}
	}
}

// normalizeOptions canonicalizes the format name and resolves the input
// directory to an absolute path.
func normalizeOptions(options *rootOptions) error {
	switch options.format {
	case types.FormatText, types.FormatMarkdown:
	case formatAliasMarkdownShort:
		options.format = types.FormatMarkdown
	default:
		return fmt.Errorf(errorInvalidFormatFormat, options.format)
	}

	if options.inputDirectory == "" {
		return nil
	}
	absoluteInput, absoluteError := filepath.Abs(options.inputDirectory)
	if absoluteError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, options.inputDirectory, absoluteError)
	}
	options.inputDirectory = absoluteInput
	return nil
}

// validateOptions rejects contradictory or incomplete option combinations.
func validateOptions(options *rootOptions) error {
	if options.inputDirectory == "" {
		return errors.New(errorInputRequired)
	}
	inputInfo, statError := os.Stat(options.inputDirectory)
	if statError != nil {
		return fmt.Errorf(errorInputMissingFormat, options.inputDirectory)
	}
	if !inputInfo.IsDir() {
		return fmt.Errorf(errorInputNotDirectory, options.inputDirectory)
	}

	if options.headLines > 0 && options.tailLines > 0 {
		return errors.New(errorHeadTailConflict)
	}
	if options.headLines < 0 {
		return fmt.Errorf(errorNegativeWindowFormat, headFlagName)
	}
	if options.tailLines < 0 {
		return fmt.Errorf(errorNegativeWindowFormat, tailFlagName)
	}

	if strings.TrimSpace(options.outputPath) == "" && (options.outputPath != "" || options.outputSupplied) {
		return errors.New(errorOutputEmpty)
	}

	displayOnly := (options.showTree || options.showList || options.showStats) &&
		!options.toStdout && !options.copyToClipboard
	if options.outputPath == "" && !options.toStdout && !options.copyToClipboard && !displayOnly {
		return errors.New(errorOutputRequired)
	}

	return nil
}

// executePipeline wires matchers, scanner, renderers, and generator together
// and hands the run to the orchestrator.
func executePipeline(options *rootOptions, logger *zap.Logger) error {
	ignorePatterns, autoDetectedIgnore := resolveIgnorePatterns(options)
	excludePatterns := utils.DeduplicatePatterns(append(append([]string{}, options.excludePatterns...), ignorePatterns...))

	includeMatcher, includeError := matcher.NewIncludeMatcher(options.globPatterns, options.inputDirectory, logger)
	if includeError != nil {
		return includeError
	}
	excludeMatcher := matcher.NewExcludeMatcher(excludePatterns, options.inputDirectory, autoDetectedIgnore, logger)

	var customRules []sanitize.Rule
	if options.replaceFilePath != "" {
		loadedRules, rulesError := sanitize.LoadReplacementRules(options.replaceFilePath)
		if rulesError != nil {
			return rulesError
		}
		customRules = loadedRules
	}

	var tokenCounter tokenizer.Counter
	if options.countTokens {
		counter, encodingName, counterError := tokenizer.NewCounter(options.tokenizerModel)
		if counterError != nil {
			return counterError
		}
		if encodingName != strings.ToLower(strings.TrimSpace(options.tokenizerModel)) {
			fmt.Fprintf(os.Stderr, warningModelFallbackFrmt, options.tokenizerModel, counter.Name())
		}
		tokenCounter = counter
	}

	var clipboardCopier clipboard.Copier
	if options.copyToClipboard {
		clipboardCopier = clipboard.NewService()
	}

	merger := merge.New(
		scanner.New(includeMatcher, excludeMatcher, logger),
		output.NewGenerator(options.format),
		render.NewTreeBuilder(excludeMatcher, includeMatcher),
		render.NewListBuilder(options.inputDirectory),
		clipboardCopier,
		tokenCounter,
	)

	return merger.Run(merge.Request{
		RootDirectory:    options.inputDirectory,
		OutputPath:       options.outputPath,
		ToStdout:         options.toStdout,
		CopyToClipboard:  options.copyToClipboard,
		ShowTree:         options.showTree,
		ShowList:         options.showList,
		ShowStats:        options.showStats,
		SkipConfirmation: options.skipConfirmation,
		EnableSanitize:   options.enableSanitize,
		CustomRules:      customRules,
		HeadLines:        options.headLines,
		TailLines:        options.tailLines,
		IncludeMerge:     !options.noMerge,
	})
}

// resolveIgnorePatterns loads the patterns of every requested ignore file,
// falling back to the scan root's .gitignore when none was requested. The
// second return value reports whether a .gitignore was auto-detected; only
// then do the VCS housekeeping patterns apply.
func resolveIgnorePatterns(options *rootOptions) ([]string, bool) {
	if len(options.ignoreFiles) > 0 {
		var existingFiles []string
		for _, ignoreFilePath := range options.ignoreFiles {
			if _, statError := os.Stat(ignoreFilePath); statError != nil {
				fmt.Fprintf(os.Stderr, warningIgnoreFileFormat, ignoreFilePath)
				continue
			}
			existingFiles = append(existingFiles, ignoreFilePath)
		}
		return config.LoadPatternsFromFiles(existingFiles), false
	}

	if options.noAutoIgnore {
		return nil, false
	}
	detectedIgnoreFile := config.AutoDetectIgnoreFile(options.inputDirectory)
	if detectedIgnoreFile == "" {
		return nil, false
	}
	fmt.Printf(autoDetectedIgnoreMessage, detectedIgnoreFile)
	return config.LoadPatternsFromFiles([]string{detectedIgnoreFile}), true
}

// buildLogger selects the logger matching the requested verbosity.
func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return utils.NewDebugLogger()
	}
	return utils.NewApplicationLogger()
}
