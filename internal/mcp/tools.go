package mcp

import "github.com/mark3labs/mcp-go/mcp"

var projectListToolDef = mcp.NewTool("project_list",
	mcp.WithDescription("List portfolio projects, featured first. Raw markdown is omitted."),
	mcp.WithBoolean("featured_only", mcp.Description("Only return featured projects")),
	mcp.WithString("category", mcp.Description("Filter by category (case-insensitive)")),
	mcp.WithString("status", mcp.Description("Filter by status (case-insensitive)")),
	mcp.WithString("type", mcp.Description("Filter by project type (case-insensitive)")),
)

var projectGetToolDef = mcp.NewTool("project_get",
	mcp.WithDescription("Get one project by slug, with its markdown rendered to HTML."),
	mcp.WithString("slug", mcp.Required(), mcp.Description("Project slug, e.g. portfolio-chatbot")),
)

var contentGetToolDef = mcp.NewTool("content_get",
	mcp.WithDescription("Read a markdown file from the private documents directory."),
	mcp.WithString("file_name", mcp.Required(), mcp.Description("File name ending in .md")),
)

var chatAskToolDef = mcp.NewTool("chat_ask",
	mcp.WithDescription("Ask the portfolio assistant a question, optionally continuing a conversation."),
	mcp.WithString("message", mcp.Required(), mcp.Description("The visitor's message")),
	mcp.WithArray("conversation_history",
		mcp.Description("Earlier turns as {role, content} objects, oldest first"),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"role":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
		}),
	),
	mcp.WithString("collected_email", mcp.Description("Address already collected from this visitor, if any")),
)
