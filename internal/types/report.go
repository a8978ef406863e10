package types

// Report is the interview diagnostic report produced by the model.
// Every field is required; validate tags hold the range and length rules.
type Report struct {
	BasicInfo       BasicInfo       `json:"basic_info"`
	CompetencyRadar CompetencyRadar `json:"competency_radar"`
	AlignmentTable  []AlignmentRow  `json:"alignment_table" validate:"min=4,max=7"`
	QAFullRecon     QAFullRecon     `json:"qa_full_recon"`
	ActionPlan      ActionPlan      `json:"action_plan"`
}

type BasicInfo struct {
	CompanyDept        string     `json:"company_dept"`
	PositionLevel      string     `json:"position_level"`
	InterviewRound     string     `json:"interview_round"`
	InterviewerProfile string     `json:"interviewer_profile"`
	Prediction         Prediction `json:"prediction"`
}

type Prediction struct {
	Score       int    `json:"score" validate:"min=0,max=100"`
	SuccessRate string `json:"success_rate"`
}

// CompetencyRadar holds exactly three 0-100 scores
type CompetencyRadar struct {
	Professional int `json:"professional" validate:"min=0,max=100"`
	General      int `json:"general" validate:"min=0,max=100"`
	Culture      int `json:"culture" validate:"min=0,max=100"`
}

type AlignmentRow struct {
	Dimension          string `json:"dimension"`
	JDReq              string `json:"jd_req"`
	PerformanceSummary string `json:"performance_summary"`
	AIMatch            string `json:"ai_match"`
}

// QAFullRecon reconstructs the interview Q&A by category
type QAFullRecon struct {
	Experience       []QAEntry        `json:"experience" validate:"dive"`
	Professional     []QAEntry        `json:"professional" validate:"dive"`
	Behavioral       []QAEntry        `json:"behavioral" validate:"dive"`
	ReverseQuestions ReverseQuestions `json:"reverse_questions"`
}

type QAEntry struct {
	Question    string      `json:"question"`
	Answer      string      `json:"answer"`
	Feedback    string      `json:"feedback"`
	Score       int         `json:"score" validate:"min=0,max=100"`
	Improvement Improvement `json:"improvement"`
}

type Improvement struct {
	Diagnosis string `json:"diagnosis"`
	STARPlan  string `json:"star_plan"` // suggested answer in STAR form
}

// ReverseQuestions covers the questions the candidate asked the interviewer
type ReverseQuestions struct {
	MyQuestions string   `json:"my_questions"`
	AIEval      string   `json:"ai_eval"`
	Suggestions []string `json:"suggestions"`
}

type ActionPlan struct {
	ResumeOptimization string   `json:"resume_optimization"`
	KnowledgeGap       []string `json:"knowledge_gap"`
	FollowupStrategy   string   `json:"followup_strategy"`
}
