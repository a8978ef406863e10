package analysis

import (
	"bytes"
	"strings"
	"sync/atomic"
	"text/template"

	"interviewlens/internal/errors"
	"interviewlens/internal/types"
)

// ReportSchemaExample is the literal schema description shown to the model
const ReportSchemaExample = `{
  "basic_info": {
    "company_dept": "...",
    "position_level": "...",
    "interview_round": "...",
    "interviewer_profile": "...",
    "prediction": { "score": 0, "success_rate": "..." }
  },
  "competency_radar": { "professional": 0, "general": 0, "culture": 0 },
  "alignment_table": [
    { "dimension": "...", "jd_req": "...", "performance_summary": "...", "ai_match": "..." }
  ],
  "qa_full_recon": {
    "experience": [
      {
        "question": "...",
        "answer": "...",
        "feedback": "...",
        "score": 0,
        "improvement": { "diagnosis": "...", "star_plan": "..." }
      }
    ],
    "professional": [],
    "behavioral": [],
    "reverse_questions": { "my_questions": "...", "ai_eval": "...", "suggestions": [] }
  },
  "action_plan": { "resume_optimization": "...", "knowledge_gap": [], "followup_strategy": "..." }
}`

const fence = "```"

// DefaultPromptTemplate is used unless ai.promptFile overrides it
const DefaultPromptTemplate = `
You are an expert interview coach and evaluator.

Task:
- Align JD (job requirements), Resume (candidate background), and Transcript (actual interview answers).
- Produce a diagnostic report STRICTLY as valid JSON matching EXACTLY this schema (no extra keys, no markdown, no commentary):

Schema:
{{.Schema}}

Rules:
- Return ONLY the JSON object. No ` + fence + ` fences. No explanation text.
- All numeric scores are integers 0-100.
- competency_radar: provide 3 scores 0-100.
- alignment_table: include 4-7 rows, each with clear dimension and evidence.
- qa_full_recon: categorize questions into experience/professional/behavioral; include reverse_questions.
- action_plan: concrete, actionable, prioritized.

Inputs:
[JD]
{{.JobDescription}}

[RESUME]
{{.Resume}}

[TRANSCRIPT]
{{.Transcript}}
`

// PromptData is what a prompt template can reference
type PromptData struct {
	Schema         string
	JobDescription string
	Resume         string
	Transcript     string
}

// PromptBuilder renders the analysis prompt. The template can be swapped
// while requests are in flight.
type PromptBuilder struct {
	tmpl atomic.Pointer[template.Template]
}

// NewPromptBuilder parses text, falling back to DefaultPromptTemplate when empty
func NewPromptBuilder(text string) (*PromptBuilder, error) {
	pb := &PromptBuilder{}
	if strings.TrimSpace(text) == "" {
		text = DefaultPromptTemplate
	}
	if err := pb.SetTemplate(text); err != nil {
		return nil, err
	}
	return pb, nil
}

// SetTemplate replaces the template; on a parse error the current one stays.
func (pb *PromptBuilder) SetTemplate(text string) error {
	t, err := template.New("prompt").Option("missingkey=error").Parse(text)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeInvalidFormat, "Invalid prompt template", err)
	}
	pb.tmpl.Store(t)
	return nil
}

// Build renders the trimmed prompt for content
func (pb *PromptBuilder) Build(content types.ResolvedContent) (string, error) {
	var buf bytes.Buffer
	err := pb.tmpl.Load().Execute(&buf, PromptData{
		Schema:         ReportSchemaExample,
		JobDescription: content.JobDescription,
		Resume:         content.Resume,
		Transcript:     content.Transcript,
	})
	if err != nil {
		return "", errors.NewInternalError(errors.ErrCodeServerError, "Failed to render prompt", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
