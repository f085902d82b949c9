package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var CurrentStudyName = "study"

// Default generation and scoring settings; override them in the study config.
const (
	DefaultChatModel  = "gpt-5-2025-08-07"
	DefaultEmbedModel = "text-embedding-3-large"
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultOutputsDir = "outputs"
	DefaultPromptsDir = "prompts"
)

// DefaultTopics returns the seed topics used when no study config exists yet.
func DefaultTopics() []Topic {
	return []Topic{
		{
			ID:       "elections",
			Question: "How should we increase the general public's trust in US elections?",
		},
		{
			ID:       "littering",
			Question: "What are the best policies to prevent littering in public spaces?",
		},
		{
			ID:       "campus_protests",
			Question: "What are your thoughts on the way university campus administrators should approach the issue of Israel/Gaza demonstrations?",
		},
	}
}

func GetConfigDir() (string, error) {
	if dir := os.Getenv("PERSP_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "persp"), nil
}

func GetConfigFilePath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s.yml", CurrentStudyName)), nil
}

func EnsureConfigDir() error {
	dir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// Default returns a config populated with seed topics and default models.
func Default() *Config {
	return &Config{
		Model:      DefaultChatModel,
		EmbedModel: DefaultEmbedModel,
		BaseURL:    DefaultBaseURL,
		OutputsDir: DefaultOutputsDir,
		PromptsDir: DefaultPromptsDir,
		Topics:     DefaultTopics(),
	}
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigFilePath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	normalize(&cfg)
	return &cfg, nil
}

// normalize fills zero-value fields so callers never fall back themselves.
func normalize(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = DefaultChatModel
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = DefaultEmbedModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.OutputsDir == "" {
		cfg.OutputsDir = DefaultOutputsDir
	}
	if cfg.PromptsDir == "" {
		cfg.PromptsDir = DefaultPromptsDir
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = DefaultTopics()
	}
}

func SaveConfig(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := GetConfigFilePath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// FindTopic returns the configured topic with the given id.
func FindTopic(cfg *Config, id string) (Topic, bool) {
	for _, t := range cfg.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// AddTopic appends a topic. Returns false if the id is already taken.
func AddTopic(cfg *Config, id, question string) bool {
	if _, ok := FindTopic(cfg, id); ok {
		return false
	}
	cfg.Topics = append(cfg.Topics, Topic{ID: id, Question: question})
	return true
}

// RemoveTopic removes a topic by id. Returns false if not found.
func RemoveTopic(cfg *Config, id string) bool {
	for i, t := range cfg.Topics {
		if t.ID == id {
			cfg.Topics = append(cfg.Topics[:i], cfg.Topics[i+1:]...)
			return true
		}
	}
	return false
}

// TopicOrder returns configured topic ids in order.
func TopicOrder(cfg *Config) []string {
	out := make([]string, 0, len(cfg.Topics))
	for _, t := range cfg.Topics {
		out = append(out, t.ID)
	}
	return out
}

// SetGlobalNote sets or clears the global reviewer note (applies to all topics).
func SetGlobalNote(cfg *Config, text string) {
	cfg.GlobalNote = text
}

// noteKey builds the Notes map key: "topic" or "topic/approach".
func noteKey(topic, approach string) string {
	if approach == "" {
		return topic
	}
	return topic + "/" + approach
}

// AddNote attaches a reviewer note to a topic, optionally scoped to one
// approach. Returns false if the topic is not configured.
func AddNote(cfg *Config, topic, approach, text string) bool {
	if _, ok := FindTopic(cfg, topic); !ok {
		return false
	}
	if cfg.Notes == nil {
		cfg.Notes = make(map[string]string)
	}
	cfg.Notes[noteKey(topic, approach)] = text
	return true
}

// RemoveNote removes a note. Returns false if not found.
func RemoveNote(cfg *Config, topic, approach string) bool {
	if cfg.Notes == nil {
		return false
	}
	key := noteKey(topic, approach)
	if _, ok := cfg.Notes[key]; !ok {
		return false
	}
	delete(cfg.Notes, key)
	if len(cfg.Notes) == 0 {
		cfg.Notes = nil
	}
	return true
}

// NoteEntry is a single note listing entry.
type NoteEntry struct {
	Topic    string
	Approach string
	Note     string
}

// ListAllNotes returns all configured notes (global first, then per topic).
func ListAllNotes(cfg *Config) []NoteEntry {
	var out []NoteEntry
	if cfg.GlobalNote != "" {
		out = append(out, NoteEntry{Topic: "*", Note: cfg.GlobalNote})
	}
	keys := make([]string, 0, len(cfg.Notes))
	for k := range cfg.Notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		topic, approach := k, ""
		if idx := strings.Index(k, "/"); idx >= 0 {
			topic, approach = k[:idx], k[idx+1:]
		}
		out = append(out, NoteEntry{Topic: topic, Approach: approach, Note: cfg.Notes[k]})
	}
	return out
}

// FindNote returns the most specific note for a topic and approach:
// topic/approach beats topic, which beats the global note.
func FindNote(cfg *Config, topic, approach string) string {
	if cfg.Notes != nil {
		if approach != "" {
			if n, ok := cfg.Notes[noteKey(topic, approach)]; ok {
				return n
			}
		}
		if n, ok := cfg.Notes[topic]; ok {
			return n
		}
	}
	return cfg.GlobalNote
}
