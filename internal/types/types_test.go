package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputsOrder(t *testing.T) {
	req := AnalysisRequest{
		JDText:           "jd",
		ResumePdfURL:     "https://files.example.com/cv.pdf",
		TranscriptText:   "q&a",
		TranscriptPdfURL: "s3://bucket/transcript.pdf",
	}

	inputs := req.Inputs()
	for i, s := range Subjects {
		assert.Equal(t, s, inputs[i].Subject)
	}
	assert.Equal(t, SubjectInput{Subject: SubjectJobDescription, Inline: "jd"}, inputs[0])
	assert.Equal(t, "https://files.example.com/cv.pdf", inputs[1].Ref)
	assert.Equal(t, "q&a", inputs[2].Inline)
	assert.Equal(t, "s3://bucket/transcript.pdf", inputs[2].Ref)
}

func TestResolvedContentAccessors(t *testing.T) {
	var c ResolvedContent
	for _, s := range Subjects {
		c.Set(s, s.String()+"-text")
	}
	assert.Equal(t, "jd-text", c.JobDescription)
	assert.Equal(t, "resume-text", c.Get(SubjectResume))
	assert.Equal(t, "transcript-text", c.Get(SubjectTranscript))
	assert.Equal(t, "unknown", Subject(9).String())
}
