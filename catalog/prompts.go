package catalog

import (
	"fmt"
	"strings"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

const (
	CandidateBackgroundPrompt  = "get_candidate_background"
	TechProficiencyPrompt      = "assess_tech_proficiency"
	PhoneScreenPrompt          = "generate_phone_screen"
	CareerHighlightsPrompt     = "summarize_career_highlights"
	EvaluateJobFitPrompt       = "evaluate_job_fit"
	ProductCollaborationPrompt = "assess_product_collaboration"
	StartupFitPrompt           = "assess_startup_fit"
)

const defaultCollaborationAspect = "product vision and feature prioritization"

// lines joins template lines with newlines.
func lines(ls ...string) string { return strings.Join(ls, "\n") }

// Prompts returns the seven conversation prompts. Each renders one user
// message addressed to the client's model; none reads profile fields.
func Prompts(p *candidate.Profile) []mcpservice.StaticPrompt {
	name := p.Name()
	return []mcpservice.StaticPrompt{
		mcpservice.UserPrompt(mcp.Prompt{
			Name:        CandidateBackgroundPrompt,
			Description: fmt.Sprintf("Get information about %s's experience, skills, and background", name),
			Arguments: []mcp.PromptArgument{
				{Name: "specific_area", Description: "Optional specific area of experience or background to focus on"},
			},
		}, func(args mcpservice.PromptArgs) string {
			focus := ""
			if area := args.Get("specific_area"); area != "" {
				focus = " with focus on " + area
			}
			return lines(
				fmt.Sprintf("Please provide information about %s's professional background%s.", name, focus),
				"Include details about their experience, skills, and relevant qualifications.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        TechProficiencyPrompt,
			Description: fmt.Sprintf("Assess %s's proficiency in specific technologies", name),
			Arguments: []mcp.PromptArgument{
				{Name: "technologies", Description: "Comma-separated list of technologies to assess", Required: true},
			},
		}, func(args mcpservice.PromptArgs) string {
			return lines(
				fmt.Sprintf("What is %s's proficiency level with %s?", name, args.Get("technologies")),
				"Please provide specific examples from their experience and projects where available.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        PhoneScreenPrompt,
			Description: fmt.Sprintf("Generate interview questions for %s based on specific technical areas", name),
			Arguments: []mcp.PromptArgument{
				{Name: "focus_area", Description: "e.g. 'API design and testing'", Required: true},
			},
		}, func(args mcpservice.PromptArgs) string {
			return lines(
				fmt.Sprintf("Create a phone screen for %s around %s.", name, args.Get("focus_area")),
				"Include 5-7 questions that would effectively assess their knowledge and experience in this area,",
				"with consideration for their background and the skill level required for the position.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        CareerHighlightsPrompt,
			Description: fmt.Sprintf("Generate a summary of %s's career highlights", name),
		}, func(mcpservice.PromptArgs) string {
			return lines(
				fmt.Sprintf("Generate a comprehensive summary of %s's career highlights.", name),
				"Include key achievements, notable projects, technology expertise, and professional growth.",
				"Pull information from their resume, GitHub projects, and website content where available.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        EvaluateJobFitPrompt,
			Description: fmt.Sprintf("Evaluate if %s is a good fit for a specific role", name),
			Arguments: []mcp.PromptArgument{
				{Name: "job_description", Description: "Full job description to evaluate fit against", Required: true},
			},
		}, func(args mcpservice.PromptArgs) string {
			return lines(
				fmt.Sprintf("Is %s a good fit for the following role? Please analyze their skills, experience, and background against the requirements.", name),
				"",
				"Job Description:",
				args.Get("job_description"),
				"",
				"Provide a detailed analysis of strengths, potential gaps, and overall fit. Include specific examples from their background that relate to key requirements.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        ProductCollaborationPrompt,
			Description: fmt.Sprintf("Understand how %s collaborates on product vision and feature prioritization", name),
			Arguments: []mcp.PromptArgument{
				{Name: "collaboration_aspect", Description: "e.g. 'feature roadmap development'"},
			},
		}, func(args mcpservice.PromptArgs) string {
			return lines(
				fmt.Sprintf("How would %s contribute to %s?", name, args.GetOr("collaboration_aspect", defaultCollaborationAspect)),
				"Detail their approach to product collaboration, experience with product teams, and methodology for prioritizing features and improvements.",
				"Include specific examples from their past work where available.",
			)
		}),

		mcpservice.UserPrompt(mcp.Prompt{
			Name:        StartupFitPrompt,
			Description: fmt.Sprintf("Assess %s's fit for a startup or small team environment", name),
			Arguments: []mcp.PromptArgument{
				{Name: "role_type", Description: "e.g. 'full-stack generalist'"},
			},
		}, func(args mcpservice.PromptArgs) string {
			role := ""
			if rt := args.Get("role_type"); rt != "" {
				role = "a " + rt + " role at "
			}
			return lines(
				fmt.Sprintf("Would %s be a good fit for %san early-stage startup?", name, role),
				"Evaluate their adaptability, breadth of skills, ability to work with limited resources, and experience in fast-paced environments.",
				"Consider both technical capabilities and soft skills relevant to startup environments.",
			)
		}),
	}
}
