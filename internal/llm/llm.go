package llm

type EmbeddingResult struct {
	Embedding []float32
	Model     string
}

type LLM interface {
	Generate(system, prompt string) (string, error)
	Embed(text string) (*EmbeddingResult, error)
}
