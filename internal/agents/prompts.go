package agents

import (
	"fmt"
	"strings"

	"github.com/gptmaas/autodev-agents/internal/state"
)

const pmSystemPrompt = `You are a product manager writing a precise, implementable PRD in Markdown. Write only the document, no preamble.`

const architectSystemPrompt = `You are a software architect. Produce a technical design and a task breakdown. Respond with a single JSON object as instructed, no other text.`

func reviewSystemPrompt(role state.ReviewRole) string {
	switch role {
	case state.RolePM:
		return `You are a product reviewer checking a PRD for completeness, clarity, and scope discipline.`
	case state.RoleDev:
		return `You are a senior engineer reviewing a PRD for technical feasibility and missing implementation detail.`
	case state.RoleQA:
		return `You are a QA reviewer checking a PRD for testability, edge cases, and acceptance criteria.`
	default:
		return `You are reviewing a PRD.`
	}
}

func formatPMDraftPrompt(requirement string) string {
	var sb strings.Builder
	sb.WriteString("Write a PRD for the following requirement.\n\n")
	sb.WriteString("## Requirement\n")
	sb.WriteString(requirement)
	sb.WriteString("\n\nStructure the PRD with sections for Overview, Goals, Non-Goals, User Stories, and Acceptance Criteria.\n")
	return sb.String()
}

func formatReviewPrompt(role state.ReviewRole, prd string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Review the following PRD from the %s perspective.\n\n", role))
	sb.WriteString("## PRD\n")
	sb.WriteString(prd)
	sb.WriteString("\n\n")
	sb.WriteString("List concrete issues, each tagged with a severity (critical, high, medium, low), followed by suggestions. Keep it focused; do not rewrite the PRD.\n")
	return sb.String()
}

func formatPMRevisePrompt(requirement, prd string, reviews map[state.ReviewRole]string, feedback string) string {
	var sb strings.Builder
	sb.WriteString("Revise the PRD below using the three reviews that follow.\n\n")
	sb.WriteString("## Original Requirement\n")
	sb.WriteString(requirement)
	sb.WriteString("\n\n## Current PRD\n")
	sb.WriteString(prd)
	sb.WriteString("\n\n")
	for _, role := range state.AllReviewRoles {
		sb.WriteString(fmt.Sprintf("## %s Review\n", role))
		sb.WriteString(reviews[role])
		sb.WriteString("\n\n")
	}
	if feedback != "" {
		sb.WriteString("## Additional Human Feedback\n")
		sb.WriteString(feedback)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Output the complete revised PRD in Markdown, not a diff.\n")
	return sb.String()
}

func formatArchitectPrompt(prd, feedback string) string {
	var sb strings.Builder
	sb.WriteString("Design a technical implementation and break it into tasks for the PRD below.\n\n")
	sb.WriteString("## PRD\n")
	sb.WriteString(prd)
	sb.WriteString("\n\n")
	if feedback != "" {
		sb.WriteString("## Human Feedback On Previous Design\n")
		sb.WriteString(feedback)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Respond with a single JSON object of this exact shape:\n")
	sb.WriteString("```json\n")
	sb.WriteString(`{
  "design": "markdown text of the full technical design",
  "tasks": [
    {"id": "task_001", "title": "...", "description": "...", "dependencies": [], "priority": 1}
  ]
}`)
	sb.WriteString("\n```\n")
	sb.WriteString("Task ids must be unique, dependencies must refer only to ids declared in this list, and the dependency graph must be acyclic. Output ONLY the JSON object, no other text.\n")
	return sb.String()
}

// architectResponse is the JSON contract the architect prompt above asks
// the model to follow.
type architectResponse struct {
	Design string           `json:"design"`
	Tasks  []architectTask  `json:"tasks"`
}

type architectTask struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
	Priority     int      `json:"priority"`
}

func parseArchitectResponse(text string) (string, []*state.Task, error) {
	jsonStr := extractJSON(text)

	var resp architectResponse
	if err := unmarshalStrict(jsonStr, &resp); err != nil {
		return "", nil, fmt.Errorf("parse architect JSON: %w", err)
	}
	if resp.Design == "" {
		return "", nil, fmt.Errorf("architect response missing design")
	}

	tasks := make([]*state.Task, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		tasks = append(tasks, &state.Task{
			ID:           t.ID,
			Title:        t.Title,
			Description:  t.Description,
			Dependencies: t.Dependencies,
			Priority:     t.Priority,
			Status:       state.TaskPending,
		})
	}
	return resp.Design, tasks, nil
}
