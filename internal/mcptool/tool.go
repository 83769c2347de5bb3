// Package mcptool exposes the chat operation as an MCP tool over the
// streamable HTTP transport.
package mcptool

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
)

const ToolName = "chat"

// Chatter is the operation the tool delegates to.
type Chatter interface {
	SubmitChat(ctx context.Context, prompt string) (string, error)
}

type ChatInput struct {
	Prompt string `json:"prompt" jsonschema:"the prompt forwarded to the completion provider as a single user message"`
}

type ChatOutput struct {
	Reply string `json:"reply"`
}

// NewServer returns an MCP server with the chat tool registered.
func NewServer(chat Chatter, logger *slog.Logger, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "secretai-gateway", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Send a prompt to the completion provider and return the first reply",
	}, chatHandler(chat, logger))

	return server
}

// NewHTTPHandler serves server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

func chatHandler(chat Chatter, logger *slog.Logger) mcp.ToolHandlerFor[ChatInput, ChatOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
		reply, err := chat.SubmitChat(ctx, in.Prompt)
		if err != nil {
			logger.WarnContext(ctx, "mcp chat tool failed", "error", err)
			return toolError(err), ChatOutput{}, nil
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: reply}},
		}, ChatOutput{Reply: reply}, nil
	}
}

func toolError(err error) *mcp.CallToolResult {
	msg := "Error processing chat request"
	var vErr *apperr.ValidationError
	if errors.As(err, &vErr) {
		msg = vErr.Message
	}
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}
