package analysis

import (
	"encoding/json"
	"fmt"

	"interviewlens/internal/types"
)

func sampleQA(prefix string, score int) types.QAEntry {
	return types.QAEntry{
		Question: prefix + " question",
		Answer:   prefix + " answer",
		Feedback: prefix + " feedback",
		Score:    score,
		Improvement: types.Improvement{
			Diagnosis: prefix + " diagnosis",
			STARPlan:  "Situation, task, action, result",
		},
	}
}

func sampleReport() types.Report {
	rows := make([]types.AlignmentRow, 0, 5)
	for i := range 5 {
		rows = append(rows, types.AlignmentRow{
			Dimension:          fmt.Sprintf("dimension %d", i),
			JDReq:              "Go services",
			PerformanceSummary: "Explained the worker pool clearly",
			AIMatch:            "strong",
		})
	}
	return types.Report{
		BasicInfo: types.BasicInfo{
			CompanyDept:        "Payments / Platform",
			PositionLevel:      "Senior",
			InterviewRound:     "Technical 2",
			InterviewerProfile: "Staff engineer",
			Prediction:         types.Prediction{Score: 72, SuccessRate: "likely"},
		},
		CompetencyRadar: types.CompetencyRadar{Professional: 80, General: 65, Culture: 70},
		AlignmentTable:  rows,
		QAFullRecon: types.QAFullRecon{
			Experience:   []types.QAEntry{sampleQA("exp", 75)},
			Professional: []types.QAEntry{sampleQA("pro", 90), sampleQA("pro2", 0)},
			Behavioral:   []types.QAEntry{},
			ReverseQuestions: types.ReverseQuestions{
				MyQuestions: "What does on-call look like?",
				AIEval:      "Relevant",
				Suggestions: []string{"Ask about team growth"},
			},
		},
		ActionPlan: types.ActionPlan{
			ResumeOptimization: "Quantify latency wins",
			KnowledgeGap:       []string{"distributed tracing", "SLO design"},
			FollowupStrategy:   "Send a thank-you note with the benchmark link",
		},
	}
}

func sampleReportJSON() string {
	data, err := json.Marshal(sampleReport())
	if err != nil {
		panic(err)
	}
	return string(data)
}

func jsonNumber(s string) json.Number {
	return json.Number(s)
}
