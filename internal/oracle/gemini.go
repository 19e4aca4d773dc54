package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/derece-app/derece-api/internal/dto"
	"github.com/derece-app/derece-api/internal/service"
)

// Gemini talks to Google's Generative Language API and implements
// service.Oracle.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGemini constructs a provider client. timeout bounds each round
// trip, not the whole conversation.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout, logger: logger}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// StartChat opens a session seeded with the system prompt and prior
// turns. withTools registers the schedule-mutation declarations.
func (g *Gemini) StartChat(system string, history []dto.ChatTurn, withTools bool) service.OracleChat {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	if withTools {
		model.Tools = scheduleTools()
	}

	session := model.StartChat()
	session.History = toGeminiHistory(history)

	return &chat{session: session, timeout: g.timeout, logger: g.logger}
}

type chat struct {
	session *genai.ChatSession
	timeout time.Duration
	logger  *zap.Logger
}

// Send delivers the user's message and splits the response into free
// text and structured tool calls.
func (c *chat) Send(ctx context.Context, message string) (dto.OracleReply, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return dto.OracleReply{}, fmt.Errorf("gemini: send message: %w", err)
	}

	var reply dto.OracleReply
	for _, part := range candidateParts(resp) {
		switch p := part.(type) {
		case genai.Text:
			reply.Text += string(p)
		case genai.FunctionCall:
			reply.Calls = append(reply.Calls, dto.ToolCall{Name: p.Name, Args: p.Args})
		default:
			c.logger.Debug("ignoring response part", zap.String("type", fmt.Sprintf("%T", part)))
		}
	}
	reply.Text = strings.TrimSpace(reply.Text)
	return reply, nil
}

// SendToolResults hands the execution outcomes back so the model can
// phrase the final reply.
func (c *chat) SendToolResults(ctx context.Context, results []dto.ToolResult) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	parts := make([]genai.Part, 0, len(results))
	for _, result := range results {
		parts = append(parts, genai.FunctionResponse{
			Name: result.Name,
			Response: map[string]any{
				"content": result.Message,
				"success": result.Success,
			},
		})
	}

	resp, err := c.session.SendMessage(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: send tool results: %w", err)
	}

	var text strings.Builder
	for _, part := range candidateParts(resp) {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return strings.TrimSpace(text.String()), nil
}

func candidateParts(resp *genai.GenerateContentResponse) []genai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}

func toGeminiHistory(history []dto.ChatTurn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role != "user" {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}
