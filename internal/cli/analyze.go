package cli

import (
	"fmt"

	"interviewlens/internal/common"
	"interviewlens/internal/config"
	"interviewlens/internal/errors"
	"interviewlens/internal/observability"
	"interviewlens/internal/types"
	"interviewlens/internal/utils"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Produce an interview diagnostic report from local files or URLs",
	Long: `Analyze a job description, a resume and an interview transcript and
print the diagnostic report.

Each input is a local file (txt, md, html or pdf) or an http(s) URL. s3://
references work when document.s3.enabled is set.

Examples:
  interviewlens analyze --jd jd.md --resume resume.pdf --transcript interview.txt
  interviewlens analyze --jd https://example.com/jd.pdf --resume cv.pdf \
      --transcript notes.md --format markdown -o report.md`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(analyzeConfig.OutputFormat, cfg.App.DefaultFormat, cfg.App.SupportedFormats)
		if err != nil {
			return err
		}
		analyzeConfig.OutputFormat = format
		return nil
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig common.CommandConfig
	analyzeInputs struct {
		jd         string
		resume     string
		transcript string
	}
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputs.jd, "jd", "", "Job description file or URL")
	analyzeCmd.Flags().StringVar(&analyzeInputs.resume, "resume", "", "Resume file or URL")
	analyzeCmd.Flags().StringVar(&analyzeInputs.transcript, "transcript", "", "Interview transcript file or URL")
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	for _, name := range []string{"jd", "resume", "transcript"} {
		_ = analyzeCmd.MarkFlagRequired(name)
	}

	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

// documentRef turns a CLI argument into a resolver reference: URLs pass
// through, local paths become file:// references.
func documentRef(arg string) (string, error) {
	if utils.IsRemoteRef(arg) {
		return arg, nil
	}
	if !utils.IsDocumentFile(arg) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported document type: %s", arg), nil)
	}
	if err := utils.ValidateInputFile(arg); err != nil {
		return "", err
	}
	return utils.FileRef(arg)
}

func buildRequest(jd, resume, transcript string) (types.AnalysisRequest, error) {
	var req types.AnalysisRequest
	refs := []struct {
		arg string
		dst *string
	}{
		{jd, &req.JDPdfURL},
		{resume, &req.ResumePdfURL},
		{transcript, &req.TranscriptPdfURL},
	}
	for _, r := range refs {
		ref, err := documentRef(r.arg)
		if err != nil {
			return types.AnalysisRequest{}, err
		}
		*r.dst = ref
	}
	return req, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	req, err := buildRequest(analyzeInputs.jd, analyzeInputs.resume, analyzeInputs.transcript)
	if err != nil {
		return err
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return err
	}

	// Telemetry is a server concern; the CLI runs with a disabled manager.
	om, err := observability.NewManager(config.ObservabilityConfig{}, Version)
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, cfg, om, logger, pipelineOptions{localFiles: true})
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	logger.Info("Starting interview analysis",
		"jd", analyzeInputs.jd,
		"resume", analyzeInputs.resume,
		"transcript", analyzeInputs.transcript,
		"output_format", analyzeConfig.OutputFormat)

	report, err := p.analyzer.Analyze(ctx, req)
	if err != nil {
		return fmt.Errorf("analysis failed (%s): %w", errors.CodeOf(err), err)
	}

	if err := common.NewOutputHandler(logger).HandleOutput(report, analyzeConfig); err != nil {
		return err
	}
	logger.Info("Interview analysis completed successfully")
	return nil
}
