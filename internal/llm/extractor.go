// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "CVStructure")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered into the prompt
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// MaxExtractionInput bounds the text forwarded to the model.
const MaxExtractionInput = 12000

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent details.\n")
	sb.WriteString("- Use empty strings or empty lists for anything that is not present.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	if len(inputText) > MaxExtractionInput {
		inputText = inputText[:MaxExtractionInput]
	}
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// CVStructureSchema returns the extraction schema used to turn raw CV text into the stored
// section layout.
func CVStructureSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "CVStructure",
		Description: `You are an expert CV parser. Read the raw text of a CV and split it into structured sections.
Keep the candidate's wording. Dates stay as written (e.g. "2020", "03/2021", "Present").`,
		Fields: []SchemaField{
			{
				Name:        "personal_info",
				Type:        `{"name": "", "jobTitle": "", "email": "", "phone": "", "location": "", "linkedin": "", "website": ""}`,
				Description: "Contact details and headline",
				Required:    true,
			},
			{
				Name:        "summary",
				Type:        `"string"`,
				Description: "Profile or summary paragraph",
			},
			{
				Name:        "experiences",
				Type:        `[{"role": "", "company": "", "location": "", "startDate": "", "endDate": "", "current": false, "description": ""}]`,
				Description: "Work history, most recent first, description as bullet lines",
				Required:    true,
			},
			{
				Name:        "educations",
				Type:        `[{"degree": "", "field": "", "institution": "", "location": "", "startDate": "", "endDate": ""}]`,
				Description: "Degrees and schools",
			},
			{
				Name:        "skills",
				Type:        `["string"]`,
				Description: "Individual skills, one per entry",
			},
			{
				Name:        "languages",
				Type:        `[{"language": "", "proficiency": ""}]`,
			},
			{
				Name:        "certifications",
				Type:        `[{"name": "", "issuer": "", "issueDate": ""}]`,
			},
			{
				Name:        "projects",
				Type:        `[{"name": "", "description": "", "url": ""}]`,
			},
			{
				Name:        "interests",
				Type:        `["string"]`,
			},
		},
	}
}
