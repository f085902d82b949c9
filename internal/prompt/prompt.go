package prompt

import (
	"fmt"
	"os"
	"path/filepath"
)

// SystemPrompt frames every generation request.
const SystemPrompt = "You are a helpful assistant that generates diverse perspectives on social and political topics. You always respond with valid JSON in the format requested."

// Method is one prompting strategy with its few-shot examples loaded.
type Method struct {
	Name     string // approach name used in output filenames
	Examples string
	Build    func(examples, question string) string
}

// BuildCriteriaBased builds a prompt asking for stance, criteria, and reasoning.
func BuildCriteriaBased(examples, question string) string {
	return fmt.Sprintf(`%s

Question: %s

Tell me 10 diverse perspectives about this question from different people. For each perspective, provide:
- A clear position or approach to answer the question
- One-word or one-phrase criteria that are important for their perspective
- An explanation of their reasoning

Output the response in the same JSON format as the examples above, with perspectives numbered 1-10.`, examples, question)
}

// BuildFreeForm builds a prompt asking for stance and reasoning only.
func BuildFreeForm(examples, question string) string {
	return fmt.Sprintf(`%s

Question: %s

Tell me 10 diverse perspectives about this question from different people. For each perspective, provide:
- A clear position or approach to answer the question
- An explanation of their reasoning

Output the response in the same JSON format as the examples above, with perspectives numbered 1-10.`, examples, question)
}

func readPromptFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	return string(data), nil
}

// Methods loads the method set for a shot type. 1-shot approaches carry a
// "1-shot-" prefix in their names; 5-shot approaches are unprefixed, matching
// the original output naming.
func Methods(promptsDir, shotType string) ([]Method, error) {
	var prefix, criteriaFile, freeFormFile string
	switch shotType {
	case "1-shot":
		prefix = "1-shot-"
		criteriaFile = "1-shot-criteria-based-prompting.txt"
		freeFormFile = "1-shot-free-form-prompting.txt"
	case "5-shot":
		prefix = ""
		criteriaFile = "5-shot-criteria-based-prompting.txt"
		freeFormFile = "5-shot-free-form-prompting.txt"
	default:
		return nil, fmt.Errorf("unknown shot type %q: use '1-shot' or '5-shot'", shotType)
	}

	criteriaExamples, err := readPromptFile(filepath.Join(promptsDir, criteriaFile))
	if err != nil {
		return nil, err
	}
	freeFormExamples, err := readPromptFile(filepath.Join(promptsDir, freeFormFile))
	if err != nil {
		return nil, err
	}

	return []Method{
		{Name: prefix + "criteria-based", Examples: criteriaExamples, Build: BuildCriteriaBased},
		{Name: prefix + "free-form", Examples: freeFormExamples, Build: BuildFreeForm},
	}, nil
}

// ShotTypes expands a shot-type filter into the list of shot types to run.
func ShotTypes(filter string) ([]string, error) {
	switch filter {
	case "all", "":
		return []string{"1-shot", "5-shot"}, nil
	case "1-shot", "5-shot":
		return []string{filter}, nil
	default:
		return nil, fmt.Errorf("unknown shot type %q: use '1-shot', '5-shot', or 'all'", filter)
	}
}
