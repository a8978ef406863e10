package ai

import (
	"google.golang.org/genai"
)

func scoreSchema() *genai.Schema {
	return &genai.Schema{
		Type:    genai.TypeInteger,
		Minimum: genai.Ptr(0.0),
		Maximum: genai.Ptr(100.0),
	}
}

func stringSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func objectSchema(props map[string]*genai.Schema, order ...string) *genai.Schema {
	return &genai.Schema{
		Type:             genai.TypeObject,
		Properties:       props,
		Required:         order,
		PropertyOrdering: order,
	}
}

func qaListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: objectSchema(map[string]*genai.Schema{
			"question": stringSchema(),
			"answer":   stringSchema(),
			"feedback": stringSchema(),
			"score":    scoreSchema(),
			"improvement": objectSchema(map[string]*genai.Schema{
				"diagnosis": stringSchema(),
				"star_plan": stringSchema(),
			}, "diagnosis", "star_plan"),
		}, "question", "answer", "feedback", "score", "improvement"),
	}
}

// reportSchema mirrors types.Report so the model is constrained to the
// same shape the decoder later validates.
func reportSchema() *genai.Schema {
	return objectSchema(map[string]*genai.Schema{
		"basic_info": objectSchema(map[string]*genai.Schema{
			"company_dept":        stringSchema(),
			"position_level":      stringSchema(),
			"interview_round":     stringSchema(),
			"interviewer_profile": stringSchema(),
			"prediction": objectSchema(map[string]*genai.Schema{
				"score":        scoreSchema(),
				"success_rate": stringSchema(),
			}, "score", "success_rate"),
		}, "company_dept", "position_level", "interview_round", "interviewer_profile", "prediction"),
		"competency_radar": objectSchema(map[string]*genai.Schema{
			"professional": scoreSchema(),
			"general":      scoreSchema(),
			"culture":      scoreSchema(),
		}, "professional", "general", "culture"),
		"alignment_table": {
			Type:     genai.TypeArray,
			MinItems: genai.Ptr[int64](4),
			MaxItems: genai.Ptr[int64](7),
			Items: objectSchema(map[string]*genai.Schema{
				"dimension":           stringSchema(),
				"jd_req":              stringSchema(),
				"performance_summary": stringSchema(),
				"ai_match":            stringSchema(),
			}, "dimension", "jd_req", "performance_summary", "ai_match"),
		},
		"qa_full_recon": objectSchema(map[string]*genai.Schema{
			"experience":   qaListSchema(),
			"professional": qaListSchema(),
			"behavioral":   qaListSchema(),
			"reverse_questions": objectSchema(map[string]*genai.Schema{
				"my_questions": stringSchema(),
				"ai_eval":      stringSchema(),
				"suggestions":  {Type: genai.TypeArray, Items: stringSchema()},
			}, "my_questions", "ai_eval", "suggestions"),
		}, "experience", "professional", "behavioral", "reverse_questions"),
		"action_plan": objectSchema(map[string]*genai.Schema{
			"resume_optimization": stringSchema(),
			"knowledge_gap":       {Type: genai.TypeArray, Items: stringSchema()},
			"followup_strategy":   stringSchema(),
		}, "resume_optimization", "knowledge_gap", "followup_strategy"),
	}, "basic_info", "competency_radar", "alignment_table", "qa_full_recon", "action_plan")
}
