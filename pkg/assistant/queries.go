package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/feedscope/feedscope/models"
	"github.com/feedscope/feedscope/pkg/region"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const queryCount = 3

// Generator turns a cleaned window title into search queries.
type Generator interface {
	Queries(ctx context.Context, title string) ([]string, error)
}

const domesticPrompt = `基于以下窗口标题，生成3个不同的搜索关键词，用于在百度上搜索相关内容。

窗口标题：%s

要求：
1. 生成3个不同角度的搜索关键词
2. 关键词应该简洁（2-8个字）
3. 关键词应该多样化，涵盖不同方面
4. 只输出3个关键词，每行一个，不要添加任何序号、标点或其他内容

示例输出格式：
关键词1
关键词2
关键词3`

const internationalPrompt = `Based on the following window title, generate 3 different search keywords for Google search.

Window title: %s

Requirements:
1. Generate 3 keywords from different angles
2. Keywords should be concise (2-6 words each)
3. Keywords should be diverse, covering different aspects
4. Output only 3 keywords, one per line, without any numbers, punctuation, or other content

Example output format:
keyword one
keyword two
keyword three`

var queryNoiseRe = regexp.MustCompile(`^[\d\.\-\*\)\]】]+\s*`)

// OpenAIGenerator asks a chat model for three diverse queries. The prompt
// language follows the active region, except that a title detected as
// Chinese always gets the Chinese prompt.
type OpenAIGenerator struct {
	client  openai.Client
	model   string
	region  models.Region
	timeout time.Duration
	log     *slog.Logger
}

func NewOpenAIGenerator(cfg models.Assistant, activeRegion models.Region, log *slog.Logger) (*OpenAIGenerator, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("assistant API key env %s is not set", cfg.APIKeyEnv)
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenAIGenerator{
		client:  openai.NewClient(opts...),
		model:   cfg.Model,
		region:  activeRegion,
		timeout: timeout,
		log:     log,
	}, nil
}

func (g *OpenAIGenerator) Queries(ctx context.Context, title string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := internationalPrompt
	if g.region == models.RegionDomestic || region.DetectText(title) == models.RegionDomestic {
		prompt = domesticPrompt
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       g.model,
		Temperature: openai.Float(1.0),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(prompt, title)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("query generation returned no choices")
	}

	queries := ParseQueryLines(resp.Choices[0].Message.Content)
	if len(queries) == 0 {
		return nil, fmt.Errorf("query generation produced no usable lines")
	}
	g.log.Info("generated search queries", "count", len(queries))
	return queries, nil
}

// ParseQueryLines extracts up to three usable queries from model output:
// one per line, leading numbering and surrounding punctuation stripped,
// lines shorter than 2 characters dropped.
func ParseQueryLines(content string) []string {
	var queries []string
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		line = queryNoiseRe.ReplaceAllString(line, "")
		line = strings.Trim(line, ".,;:，。；：")
		if len([]rune(line)) >= 2 {
			queries = append(queries, line)
			if len(queries) >= queryCount {
				break
			}
		}
	}
	return queries
}

// PadQueries tops the list up to exactly three entries using the fallback
// (normally the cleaned title). An empty fallback leaves the list short.
func PadQueries(queries []string, fallback string) []string {
	for len(queries) < queryCount && fallback != "" {
		queries = append(queries, fallback)
	}
	if len(queries) > queryCount {
		queries = queries[:queryCount]
	}
	return queries
}
