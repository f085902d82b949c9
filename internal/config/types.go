package config

type Topic struct {
	ID       string `yaml:"id"`
	Question string `yaml:"question"`
}

type Config struct {
	Model      string            `yaml:"model,omitempty"`
	EmbedModel string            `yaml:"embed_model,omitempty"`
	BaseURL    string            `yaml:"base_url,omitempty"`
	OutputsDir string            `yaml:"outputs_dir,omitempty"`
	PromptsDir string            `yaml:"prompts_dir,omitempty"`
	GlobalNote string            `yaml:"global_note,omitempty"`
	Topics     []Topic           `yaml:"topics"`
	Notes      map[string]string `yaml:"notes,omitempty"`
}
