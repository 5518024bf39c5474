package catalog

import (
	"fmt"
	"strings"
)

// InterviewType names a style of interview.
type InterviewType string

const (
	PhoneScreen  InterviewType = "phone_screen"
	Technical    InterviewType = "technical"
	Behavioral   InterviewType = "behavioral"
	SystemDesign InterviewType = "system_design"
	CultureFit   InterviewType = "culture_fit"
)

// Difficulty is the seniority level questions are aimed at.
type Difficulty string

const (
	Entry  Difficulty = "entry"
	Mid    Difficulty = "mid"
	Senior Difficulty = "senior"
	Staff  Difficulty = "staff"
)

// Templates use {focus} and {difficulty} placeholders.
var questionTemplates = map[InterviewType][]string{
	PhoneScreen: {
		"Tell me about your experience with {focus}.",
		"What projects have you worked on that used {focus}?",
		"How do you approach learning new technologies related to {focus}?",
		"What challenges have you faced while working with {focus} and how did you overcome them?",
		"Where do you see the future of {focus} heading?",
	},
	Technical: {
		"Explain how you would implement a {difficulty} level solution for [problem related to {focus}].",
		"What are the performance considerations when working with {focus}?",
		"How would you debug an issue in a system using {focus}?",
		"Describe the architecture of a system you built using {focus}.",
		"How would you test an application that uses {focus}?",
	},
	Behavioral: {
		"Describe a situation where you had to use {focus} to solve a difficult problem.",
		"Tell me about a time when you had to learn {focus} quickly to meet a deadline.",
		"How do you handle disagreements with team members about technical approaches related to {focus}?",
		"Describe a project where you were proud of your contribution involving {focus}.",
		"How do you prioritize tasks when working on a project involving {focus}?",
	},
	SystemDesign: {
		"Design a scalable system that uses {focus} for [specific application].",
		"How would you handle database scaling for a system using {focus}?",
		"Describe how you would approach security concerns in a system using {focus}.",
		"How would you ensure reliability and fault tolerance in a {focus} application?",
		"Explain how you would design an API for a service that uses {focus}.",
	},
	CultureFit: {
		"How do you stay up to date with developments in {focus}?",
		"How do you approach knowledge sharing about {focus} within your team?",
		"Describe your ideal work environment when working with {focus}.",
		"How do you handle situations where project requirements related to {focus} change midway?",
		"What do you think makes someone successful when working with {focus}?",
	},
}

// InterviewQuestions renders the five questions for kind. Focus and
// difficulty are interpolated verbatim; neither changes which questions are
// chosen.
func InterviewQuestions(kind InterviewType, focus string, difficulty Difficulty) ([]string, error) {
	templates, ok := questionTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("unknown interview type %q", kind)
	}
	r := strings.NewReplacer("{focus}", focus, "{difficulty}", string(difficulty))
	out := make([]string, len(templates))
	for i, tmpl := range templates {
		out[i] = r.Replace(tmpl)
	}
	return out, nil
}

func questionSet(name string, kind InterviewType, focus string, difficulty Difficulty) (string, error) {
	qs, err := InterviewQuestions(kind, focus, difficulty)
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("Here are tailored %s interview questions for %s focusing on %s at %s level:", kind, name, focus, difficulty)
	return header + "\n\n" + strings.Join(qs, "\n\n"), nil
}
