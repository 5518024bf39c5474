package catalog

import (
	"context"
	"fmt"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

const (
	GenerateInterviewQuestionsTool = "generate_interview_questions"
	AssessRoleFitTool              = "assess_role_fit"
)

type interviewQuestionsArgs struct {
	InterviewType InterviewType `json:"interview_type" jsonschema:"enum=phone_screen,enum=technical,enum=behavioral,enum=system_design,enum=culture_fit,description=Type of interview to generate questions for"`
	FocusAreas    string        `json:"focus_areas" jsonschema:"description=Comma-separated list of technical areas to focus questions on"`
	Difficulty    Difficulty    `json:"difficulty" jsonschema:"enum=entry,enum=mid,enum=senior,enum=staff,description=Target difficulty level for questions"`
}

type roleFitArgs struct {
	JobTitle        string `json:"job_title" jsonschema:"description=Title of the job position"`
	JobDescription  string `json:"job_description" jsonschema:"description=Full job description text"`
	KeyRequirements string `json:"key_requirements" jsonschema:"description=Comma-separated list of key requirements for the role"`
}

// InterviewTools returns the two interview-assistance tools. They do not
// depend on which profile fields are populated.
func InterviewTools(p *candidate.Profile) []mcpservice.StaticTool {
	return []mcpservice.StaticTool{
		generateInterviewQuestions(p),
		assessRoleFit(p),
	}
}

func generateInterviewQuestions(p *candidate.Profile) mcpservice.StaticTool {
	return mcpservice.NewTool[interviewQuestionsArgs](GenerateInterviewQuestionsTool,
		func(ctx context.Context, r *mcpservice.ToolRequest[interviewQuestionsArgs]) *mcp.CallToolResult {
			a := r.Args()
			text, err := questionSet(p.Name(), a.InterviewType, a.FocusAreas, a.Difficulty)
			if err != nil {
				return mcpservice.Errorf("%v", err)
			}
			return mcpservice.TextResult(text)
		},
		mcpservice.WithToolDescription(fmt.Sprintf("Generate tailored interview questions for %s", p.Name())),
	)
}

// assessRoleFit acknowledges the request and points at the evaluate_job_fit
// prompt. The job description and requirements are accepted but unused.
func assessRoleFit(p *candidate.Profile) mcpservice.StaticTool {
	return mcpservice.NewTool[roleFitArgs](AssessRoleFitTool,
		func(ctx context.Context, r *mcpservice.ToolRequest[roleFitArgs]) *mcp.CallToolResult {
			name := p.Name()
			return mcpservice.TextResult(
				fmt.Sprintf("Role Fit Assessment for %s - %s\n\n", name, r.Args().JobTitle) +
					fmt.Sprintf("I've analyzed %s's background against the provided job description and requirements.\n\n", name) +
					"This assessment is based on reviewing the candidate's resume, website content, and GitHub profile (if available).\n\n" +
					fmt.Sprintf("For a detailed assessment, please use the %q prompt with the full job description.", EvaluateJobFitPrompt),
			)
		},
		mcpservice.WithToolDescription(fmt.Sprintf("Assess %s's fit for a specific role based on job description", p.Name())),
	)
}
