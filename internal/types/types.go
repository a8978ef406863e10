package types

// AnalysisRequest is the body accepted by the analyze endpoint. Each
// subject may be given inline, by document reference, or both.
type AnalysisRequest struct {
	JDText           string `json:"jdText,omitempty"`
	ResumeText       string `json:"resumeText,omitempty"`
	TranscriptText   string `json:"transcriptText,omitempty"`
	JDPdfURL         string `json:"jdPdfUrl,omitempty"`
	ResumePdfURL     string `json:"resumePdfUrl,omitempty"`
	TranscriptPdfURL string `json:"transcriptPdfUrl,omitempty"`
}

// Subject identifies one of the three required inputs
type Subject int

const (
	SubjectJobDescription Subject = iota
	SubjectResume
	SubjectTranscript
)

// Subjects lists every subject in reporting order
var Subjects = [...]Subject{SubjectJobDescription, SubjectResume, SubjectTranscript}

func (s Subject) String() string {
	switch s {
	case SubjectJobDescription:
		return "jd"
	case SubjectResume:
		return "resume"
	case SubjectTranscript:
		return "transcript"
	default:
		return "unknown"
	}
}

// SubjectInput is the raw inline text and document reference for one subject
type SubjectInput struct {
	Subject Subject
	Inline  string
	Ref     string
}

// Inputs splits the request into per-subject inputs, in Subjects order
func (r AnalysisRequest) Inputs() [3]SubjectInput {
	return [3]SubjectInput{
		{Subject: SubjectJobDescription, Inline: r.JDText, Ref: r.JDPdfURL},
		{Subject: SubjectResume, Inline: r.ResumeText, Ref: r.ResumePdfURL},
		{Subject: SubjectTranscript, Inline: r.TranscriptText, Ref: r.TranscriptPdfURL},
	}
}

// ResolvedContent is the plain text for each subject, ready for the prompt
type ResolvedContent struct {
	JobDescription string
	Resume         string
	Transcript     string
}

// Get returns the text for s
func (c ResolvedContent) Get(s Subject) string {
	switch s {
	case SubjectJobDescription:
		return c.JobDescription
	case SubjectResume:
		return c.Resume
	case SubjectTranscript:
		return c.Transcript
	default:
		return ""
	}
}

// Set stores text for s
func (c *ResolvedContent) Set(s Subject, text string) {
	switch s {
	case SubjectJobDescription:
		c.JobDescription = text
	case SubjectResume:
		c.Resume = text
	case SubjectTranscript:
		c.Transcript = text
	}
}

// AnalysisResponse is the success envelope
type AnalysisResponse struct {
	Analysis *Report `json:"analysis"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
}
