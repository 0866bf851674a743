package llm

import _ "embed"

var (
	//go:embed prompts/optimize_v1.txt
	optimizePromptV1 string
	//go:embed prompts/enhance_v1.txt
	enhancePromptV1 string
)

// OptimizePrompt returns the system prompt for the optimize operation.
func OptimizePrompt() string {
	return optimizePromptV1
}

// EnhancePrompt returns the system prompt for the enhance operation.
func EnhancePrompt() string {
	return enhancePromptV1
}
