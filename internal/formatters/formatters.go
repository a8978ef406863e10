package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"interviewlens/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "Report", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "Report", &ReportMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.Report, *types.Report:
		return "Report"
	default:
		return "any"
	}
}

func asReport(data any) (*types.Report, error) {
	switch r := data.(type) {
	case *types.Report:
		if r == nil {
			return nil, fmt.Errorf("expected Report, got nil")
		}
		return r, nil
	case types.Report:
		return &r, nil
	default:
		return nil, fmt.Errorf("expected Report, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ReportTextFormatter renders a report for the terminal
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	r, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	info := r.BasicInfo

	output.WriteString("=== INTERVIEW DIAGNOSTIC REPORT ===\n\n")
	fmt.Fprintf(&output, "Company/Dept:  %s\n", info.CompanyDept)
	fmt.Fprintf(&output, "Position:      %s\n", info.PositionLevel)
	fmt.Fprintf(&output, "Round:         %s\n", info.InterviewRound)
	fmt.Fprintf(&output, "Interviewer:   %s\n", info.InterviewerProfile)
	fmt.Fprintf(&output, "Prediction:    %d/100 (%s)\n\n", info.Prediction.Score, info.Prediction.SuccessRate)

	output.WriteString("=== COMPETENCY RADAR ===\n")
	fmt.Fprintf(&output, "Professional: %d/100\n", r.CompetencyRadar.Professional)
	fmt.Fprintf(&output, "General:      %d/100\n", r.CompetencyRadar.General)
	fmt.Fprintf(&output, "Culture:      %d/100\n\n", r.CompetencyRadar.Culture)

	output.WriteString("=== JD ALIGNMENT ===\n")
	for _, row := range r.AlignmentTable {
		fmt.Fprintf(&output, "- %s [%s]\n", row.Dimension, row.AIMatch)
		fmt.Fprintf(&output, "  Requirement: %s\n", row.JDReq)
		fmt.Fprintf(&output, "  Performance: %s\n", row.PerformanceSummary)
	}
	output.WriteString("\n")

	recon := r.QAFullRecon
	writeQAText(&output, "EXPERIENCE QUESTIONS", recon.Experience)
	writeQAText(&output, "PROFESSIONAL QUESTIONS", recon.Professional)
	writeQAText(&output, "BEHAVIORAL QUESTIONS", recon.Behavioral)

	output.WriteString("=== REVERSE QUESTIONS ===\n")
	fmt.Fprintf(&output, "Asked: %s\n", recon.ReverseQuestions.MyQuestions)
	fmt.Fprintf(&output, "Evaluation: %s\n", recon.ReverseQuestions.AIEval)
	for _, s := range recon.ReverseQuestions.Suggestions {
		fmt.Fprintf(&output, "  - %s\n", s)
	}
	output.WriteString("\n")

	output.WriteString("=== ACTION PLAN ===\n")
	output.WriteString("Resume optimization:\n")
	output.WriteString(r.ActionPlan.ResumeOptimization)
	output.WriteString("\n\nKnowledge gaps:\n")
	for _, gap := range r.ActionPlan.KnowledgeGap {
		fmt.Fprintf(&output, "  - %s\n", gap)
	}
	output.WriteString("\nFollow-up strategy:\n")
	output.WriteString(r.ActionPlan.FollowupStrategy)
	output.WriteString("\n")

	return output.String(), nil
}

func writeQAText(output *strings.Builder, title string, entries []types.QAEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(output, "=== %s ===\n", title)
	for i, qa := range entries {
		fmt.Fprintf(output, "%d. %s (%d/100)\n", i+1, qa.Question, qa.Score)
		fmt.Fprintf(output, "   Answer:    %s\n", qa.Answer)
		fmt.Fprintf(output, "   Feedback:  %s\n", qa.Feedback)
		fmt.Fprintf(output, "   Diagnosis: %s\n", qa.Improvement.Diagnosis)
		fmt.Fprintf(output, "   STAR plan: %s\n", qa.Improvement.STARPlan)
	}
	output.WriteString("\n")
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "Report"
}

// ReportMarkdownFormatter renders a report as markdown
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	r, err := asReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder
	info := r.BasicInfo

	output.WriteString("# Interview Diagnostic Report\n\n")
	fmt.Fprintf(&output, "**Company/Dept:** %s  \n", info.CompanyDept)
	fmt.Fprintf(&output, "**Position:** %s  \n", info.PositionLevel)
	fmt.Fprintf(&output, "**Round:** %s  \n", info.InterviewRound)
	fmt.Fprintf(&output, "**Interviewer:** %s  \n", info.InterviewerProfile)
	fmt.Fprintf(&output, "**Prediction:** %d/100 (%s)\n\n", info.Prediction.Score, info.Prediction.SuccessRate)

	output.WriteString("## Competency Radar\n\n")
	output.WriteString("| Professional | General | Culture |\n|---|---|---|\n")
	fmt.Fprintf(&output, "| %d | %d | %d |\n\n",
		r.CompetencyRadar.Professional, r.CompetencyRadar.General, r.CompetencyRadar.Culture)

	output.WriteString("## JD Alignment\n\n")
	output.WriteString("| Dimension | Requirement | Performance | Match |\n|---|---|---|---|\n")
	for _, row := range r.AlignmentTable {
		fmt.Fprintf(&output, "| %s | %s | %s | %s |\n",
			cell(row.Dimension), cell(row.JDReq), cell(row.PerformanceSummary), cell(row.AIMatch))
	}
	output.WriteString("\n")

	recon := r.QAFullRecon
	output.WriteString("## Q&A Reconstruction\n\n")
	writeQAMarkdown(&output, "Experience", recon.Experience)
	writeQAMarkdown(&output, "Professional", recon.Professional)
	writeQAMarkdown(&output, "Behavioral", recon.Behavioral)

	output.WriteString("### Reverse Questions\n\n")
	fmt.Fprintf(&output, "**Asked:** %s\n\n", recon.ReverseQuestions.MyQuestions)
	fmt.Fprintf(&output, "**Evaluation:** %s\n\n", recon.ReverseQuestions.AIEval)
	for _, s := range recon.ReverseQuestions.Suggestions {
		fmt.Fprintf(&output, "- %s\n", s)
	}
	output.WriteString("\n")

	output.WriteString("## Action Plan\n\n")
	output.WriteString("### Resume Optimization\n")
	output.WriteString(r.ActionPlan.ResumeOptimization)
	output.WriteString("\n\n### Knowledge Gaps\n")
	for _, gap := range r.ActionPlan.KnowledgeGap {
		fmt.Fprintf(&output, "- %s\n", gap)
	}
	output.WriteString("\n### Follow-up Strategy\n")
	output.WriteString(r.ActionPlan.FollowupStrategy)
	output.WriteString("\n")

	return output.String(), nil
}

func writeQAMarkdown(output *strings.Builder, title string, entries []types.QAEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(output, "### %s\n\n", title)
	for i, qa := range entries {
		fmt.Fprintf(output, "%d. **%s** (%d/100)\n", i+1, qa.Question, qa.Score)
		fmt.Fprintf(output, "   - *Answer:* %s\n", qa.Answer)
		fmt.Fprintf(output, "   - *Feedback:* %s\n", qa.Feedback)
		fmt.Fprintf(output, "   - *Diagnosis:* %s\n", qa.Improvement.Diagnosis)
		fmt.Fprintf(output, "   - *STAR plan:* %s\n", qa.Improvement.STARPlan)
	}
	output.WriteString("\n")
}

// cell keeps a value on one table row
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "Report"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
