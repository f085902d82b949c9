package main

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ba0f3/persp/internal/config"
	"github.com/ba0f3/persp/internal/llm"
	"github.com/ba0f3/persp/internal/perspective"
	"github.com/ba0f3/persp/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

const (
	perspGuideTitle = "Persp Review Guide"
	perspGuideBody  = `# Persp - Perspective Review

Persp holds LLM-generated perspective sets on social and political topics,
with per-reason embeddings and diversity scores.

## Available Tools

### 1. search (Fast keyword search)
Best for: finding perspectives mentioning specific words or phrases.
- Uses BM25 full-text search over stances, criteria, and reasoning
- Use ` + "`topic`" + ` parameter to filter to a single topic

### 2. vsearch (Semantic search)
Best for: finding conceptually similar perspectives without exact keywords.
- Uses vector embeddings over reasoning texts
- Run 'persp embed' or 'persp score' first

### 3. get (Retrieve an output set)
Best for: reading a full set of 10 perspectives.
- Use the set name from search results (e.g. ` + "`criteria-based_elections`" + `)
- Also accepts docids (` + "`#abc123`" + `)

### 4. scores (Diversity scores)
Lists the stored semantic diversity score of every scored set.

### 5. status (Study info)
Shows indexed sets, perspectives, cached embeddings, and topics.

## Resources

Output sets are also readable via the ` + "`persp://`" + ` URI scheme:
- ` + "`resources/read`" + ` with uri ` + "`persp://criteria-based_elections`" + `

## Review Strategy

1. **Start with scores** to see which approaches produced diverse sets
2. **Use get** to read the sets behind interesting scores
3. **Use search/vsearch** to find recurring arguments across sets`
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server (stdio)",
	Long:  "Start the Model Context Protocol server for Persp. Exposes search, get, scores, and output-set resources over stdio.",
	RunE:  runMCPServer,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	initRoot()
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	server := mcp.NewServer(&mcp.Implementation{Name: "persp", Version: "1.0.0"}, nil)

	server.AddResourceTemplate(&mcp.ResourceTemplate{URITemplate: "persp://{+name}"}, resourceHandler(s))
	server.AddPrompt(&mcp.Prompt{
		Name:        "review",
		Description: "How to review generated perspectives and their diversity scores",
	}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: perspGuideTitle,
			Messages:    []*mcp.PromptMessage{{Role: "user", Content: &mcp.TextContent{Text: perspGuideBody}}},
		}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Fast keyword full-text search over perspectives using BM25. Best for finding specific words or phrases.",
	}, searchTool(s))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "vsearch",
		Description: "Semantic similarity search over perspective reasoning using vector embeddings. Requires embeddings (run 'persp embed' first).",
	}, vsearchTool(s))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get",
		Description: "Retrieve a full output set by its name (approach_topic) or docid (#abc123).",
	}, getTool(s))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scores",
		Description: "List stored semantic diversity scores for every scored output set.",
	}, scoresTool(s))
	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show the status of the study: indexed sets, perspectives, embeddings, and scores.",
	}, statusTool(s))

	return server.Run(context.Background(), &mcp.StdioTransport{})
}

func resourceHandler(s *store.Store) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		if !strings.HasPrefix(uri, "persp://") {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		namePart := strings.TrimPrefix(uri, "persp://")
		decoded, err := url.PathUnescape(namePart)
		if err != nil {
			decoded = namePart
		}
		o, err := resolveOutput(s, decoded)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		body, err := s.GetOutputBody(o.Approach, o.Topic)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		set, err := perspective.ExtractJSON(body)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		text := o.Name() + "\n" + perspective.FormatSet(set)
		if cfg, _ := config.LoadConfig(); cfg != nil {
			if note := config.FindNote(cfg, o.Topic, o.Approach); note != "" {
				text = "Note: " + note + "\n\n" + text
			}
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/plain", Text: text}},
		}, nil
	}
}

type searchArgs struct {
	Query    string  `json:"query" jsonschema:"required,description=Search query - keywords or phrases to find"`
	Limit    int     `json:"limit" jsonschema:"description=Maximum number of results (default 10)"`
	MinScore float64 `json:"minScore" jsonschema:"description=Minimum relevance score 0-1 (default 0)"`
	Topic    string  `json:"topic" jsonschema:"description=Filter to a single topic by id"`
}

func searchTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, searchArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}
		results, err := s.SearchFTS(args.Query, limit*2, args.Topic)
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Search failed: " + err.Error()}}, IsError: true}, nil, nil
		}
		var filtered []store.SearchResult
		for _, r := range results {
			if r.Score >= args.MinScore {
				filtered = append(filtered, r)
				if len(filtered) >= limit {
					break
				}
			}
		}
		summary := formatHitSummary(len(filtered), args.Query)
		structured := make([]map[string]any, len(filtered))
		for i, r := range filtered {
			structured[i] = map[string]any{
				"docid": "#" + docid(r.Hash), "set": r.Name, "num": r.Num,
				"score": roundScore(r.Score), "stance": r.Stance, "reason": truncateSnippet(r.Reason, 300),
			}
			summary += "#" + docid(r.Hash) + " " + strconv.FormatFloat(r.Score*100, 'f', 0, 64) + "% " + r.Name + " [" + strconv.Itoa(r.Num) + "] - " + r.Stance + "\n"
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: summary}},
			StructuredContent: map[string]any{"results": structured},
		}, nil, nil
	}
}

type vsearchArgs struct {
	Query    string  `json:"query" jsonschema:"required,description=Natural language query"`
	Limit    int     `json:"limit" jsonschema:"description=Maximum number of results (default 10)"`
	MinScore float64 `json:"minScore" jsonschema:"description=Minimum relevance score 0-1 (default 0.3)"`
	Topic    string  `json:"topic" jsonschema:"description=Filter to a single topic by id"`
}

func vsearchTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, vsearchArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args vsearchArgs) (*mcp.CallToolResult, any, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Config: " + err.Error()}}, IsError: true}, nil, nil
		}
		client := llm.NewOpenAIClient(cfg.BaseURL, cfg.Model, cfg.EmbedModel)
		emb, err := client.Embed(args.Query)
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Embedding failed: " + err.Error()}}, IsError: true}, nil, nil
		}
		limit := args.Limit
		if limit <= 0 {
			limit = 10
		}
		minScore := args.MinScore
		if minScore == 0 {
			minScore = 0.3
		}
		results, err := s.SearchVectorsBrute(emb.Embedding, cfg.EmbedModel, limit*4)
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Vector search failed: " + err.Error()}}, IsError: true}, nil, nil
		}
		if len(results) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "No embeddings found. Run 'persp embed' first."}},
				IsError: true,
			}, nil, nil
		}
		var filtered []store.VecSearchResult
		for _, r := range results {
			if r.Score >= minScore && (args.Topic == "" || r.Topic == args.Topic) {
				filtered = append(filtered, r)
				if len(filtered) >= limit {
					break
				}
			}
		}
		summary := formatHitSummary(len(filtered), args.Query)
		structured := make([]map[string]any, len(filtered))
		for i, r := range filtered {
			structured[i] = map[string]any{
				"docid": "#" + docid(r.Hash), "set": r.Name, "num": r.Num,
				"score": roundScore(r.Score), "stance": r.Stance, "reason": truncateSnippet(r.Reason, 300),
			}
			summary += "#" + docid(r.Hash) + " " + strconv.FormatFloat(r.Score*100, 'f', 0, 64) + "% " + r.Name + " [" + strconv.Itoa(r.Num) + "] - " + r.Stance + "\n"
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: summary}},
			StructuredContent: map[string]any{"results": structured},
		}, nil, nil
	}
}

type getArgs struct {
	Name string `json:"name" jsonschema:"required,description=Set name (approach_topic) or docid (#abc123)"`
}

func getTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, getArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args getArgs) (*mcp.CallToolResult, any, error) {
		o, err := resolveOutput(s, args.Name)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Output set not found: " + args.Name}},
				IsError: true,
			}, nil, nil
		}
		body, err := s.GetOutputBody(o.Approach, o.Topic)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Output set not found: " + args.Name}},
				IsError: true,
			}, nil, nil
		}
		set, err := perspective.ExtractJSON(body)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "Stored output is not valid JSON: " + err.Error()}},
				IsError: true,
			}, nil, nil
		}
		text := o.Name() + "\n" + perspective.FormatSet(set)
		if cfg, _ := config.LoadConfig(); cfg != nil {
			if note := config.FindNote(cfg, o.Topic, o.Approach); note != "" {
				text = "Note: " + note + "\n\n" + text
			}
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func scoresTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		scores, err := s.ListScores()
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Failed to list scores: " + err.Error()}}, IsError: true}, nil, nil
		}
		if len(scores) == 0 {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: "No scores stored. Run 'persp score' first."}},
			}, nil, nil
		}
		var b strings.Builder
		b.WriteString("Semantic diversity scores (mean pairwise cosine distance):\n\n")
		structured := make([]map[string]any, len(scores))
		for i, r := range scores {
			b.WriteString(r.Approach + "_" + r.Topic + ": " + strconv.FormatFloat(r.Score, 'f', 4, 64) + " (" + strconv.Itoa(r.Reasons) + " reasons)\n")
			structured[i] = map[string]any{
				"set": r.Approach + "_" + r.Topic, "approach": r.Approach, "topic": r.Topic,
				"score": r.Score, "reasons": r.Reasons, "model": r.Model,
			}
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: b.String()}},
			StructuredContent: map[string]any{"scores": structured},
		}, nil, nil
	}
}

func statusTool(s *store.Store) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
		st, err := s.GetStatus()
		if err != nil {
			return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: "Failed to get status: " + err.Error()}}, IsError: true}, nil, nil
		}
		lines := []string{
			"Persp Study Status:",
			"  Output sets: " + strconv.Itoa(st.OutputCount),
			"  Perspectives: " + strconv.Itoa(st.PerspectiveCount),
			"  Embeddings cached: " + strconv.Itoa(st.EmbeddingCount),
			"  Scores stored: " + strconv.Itoa(st.ScoreCount),
			"  Topics: " + strconv.Itoa(len(st.Topics)),
		}
		for _, t := range st.Topics {
			lines = append(lines, "    - "+t.Topic+" ("+strconv.Itoa(t.OutputCount)+" sets)")
		}
		structured := map[string]any{
			"outputSets":   st.OutputCount,
			"perspectives": st.PerspectiveCount,
			"embeddings":   st.EmbeddingCount,
			"scores":       st.ScoreCount,
			"topics":       st.Topics,
		}
		return &mcp.CallToolResult{
			Content:           []mcp.Content{&mcp.TextContent{Text: strings.Join(lines, "\n")}},
			StructuredContent: structured,
		}, nil, nil
	}
}

func formatHitSummary(n int, query string) string {
	if n == 0 {
		return "No results found for \"" + query + "\""
	}
	return "Found " + strconv.Itoa(n) + " result(s) for \"" + query + "\":\n\n"
}
