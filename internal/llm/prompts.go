package llm

import (
	_ "embed"
	"strings"
)

// DefaultPromptVersion is used when no version is configured.
const DefaultPromptVersion = "ats_v1"

const (
	placeholderResume = "{{RESUME_TEXT}}"
	placeholderJob    = "{{JOB_DESCRIPTION}}"
)

var (
	//go:embed prompts/ats_v1.txt
	promptATSV1 string
	//go:embed prompts/ats_concise.txt
	promptATSConcise string
)

// PromptTemplate returns the prompt template text and whether the version was recognized.
func PromptTemplate(version string) (string, bool) {
	switch strings.TrimSpace(version) {
	case "ats_concise":
		return promptATSConcise, true
	case "ats_v1", "":
		return promptATSV1, true
	default:
		return promptATSV1, false
	}
}

// BuildPrompt embeds the résumé text and job description verbatim into tmpl.
// Placeholders are substituted in a single pass, so input text that happens
// to contain a placeholder is never expanded again.
func BuildPrompt(tmpl, resumeText, jobDescription string) string {
	r := strings.NewReplacer(
		placeholderResume, resumeText,
		placeholderJob, jobDescription,
	)
	return r.Replace(tmpl)
}
