package pipeline

import "github.com/tmc/langchaingo/prompts"

const extractionSystem = `You are a requirements analyst. Output only valid JSON with no preamble or explanation.`

const extractionTemplate = `Analyze the following requirements document and extract all distinct features/functionalities.
For each feature, provide:
- name: A concise name for the feature
- description: A brief description of what the feature does

Requirements Document:
{{.context}}

Return a JSON object with a "features" key containing a list of feature objects.
Limit to maximum 10 most important features to avoid overwhelming output.

Example output format:
{
    "features": [
        {"name": "User Login", "description": "Allows users to authenticate with email and password"},
        {"name": "Password Reset", "description": "Enables users to reset forgotten passwords"}
    ]
}`

const generationSystem = `You are a QA engineer writing test cases. Output only valid JSON with no preamble or explanation.`

const generationTemplate = `Generate detailed test cases for the feature: {{.feature_name}}.
{{.limit_instruction}}
Include Test Case ID, Description, Preconditions, Steps, Expected Result.
Only use information present in the provided requirements:
{{.retrieved_chunks}}

Output the result as a JSON list of objects.`

const validationSystem = `You are a QA auditor. Output only valid JSON with no preamble or explanation.`

const validationTemplate = `Verify that the following test case is supported by the provided requirement text.

Requirement Text:
{{.context}}

Test Case:
{{.test_case}}

Instructions:
1. Check if the test case steps and expected results are derived from the requirements.
2. Be lenient with exact wording; look for semantic meaning.
3. If the test case is a standard app behavior (like "Open app") implied by the feature, consider it supported.
4. Only flag as unsupported if it explicitly contradicts the requirements or mentions features completely absent from the text.

Return a JSON object with:
"supported": boolean,
"reason": string (explanation if not supported, otherwise "Supported")`

var (
	extractionPrompt = prompts.NewPromptTemplate(extractionTemplate, []string{"context"})
	generationPrompt = prompts.NewPromptTemplate(generationTemplate,
		[]string{"feature_name", "limit_instruction", "retrieved_chunks"})
	validationPrompt = prompts.NewPromptTemplate(validationTemplate, []string{"context", "test_case"})
)
