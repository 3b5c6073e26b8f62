package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/solution-insight/internal/mapping"
	mcputils "github.com/mvp-joe/solution-insight/internal/mcp-utils"
	"github.com/mvp-joe/solution-insight/internal/service"
)

// ProjectMappingArgs are the arguments of the project_mapping tool. Nil
// flags fall back to the configuration.
type ProjectMappingArgs struct {
	Path                  string `json:"path"`
	IncludeTypeComments   *bool  `json:"include_type_comments,omitempty"`
	IncludeMemberComments *bool  `json:"include_member_comments,omitempty"`
}

// FullCodeExtractArgs are the arguments of the full_code_extract tool.
type FullCodeExtractArgs struct {
	Path                  string `json:"path"`
	IncludeSubdirectories *bool  `json:"include_subdirectories,omitempty"`
}

// AddProjectMappingTool registers the project_mapping tool.
func AddProjectMappingTool(s *server.MCPServer, handler server.ToolHandlerFunc) {
	tool := mcp.NewTool(
		"project_mapping",
		mcp.WithDescription(`Map a C# solution: every file under path with the classes, interfaces, structs and records it declares and their methods, as JSON (schema darwin/project-mapping 1.2). Each member carries a one-line signature and, optionally, its cleaned XML doc summary. Non-C# web assets (.cshtml, .js, .css, .html) are listed without members.`),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the solution or project folder to map")),
		mcp.WithBoolean("include_type_comments",
			mcp.Description("Include summary comments of types (default: true)")),
		mcp.WithBoolean("include_member_comments",
			mcp.Description("Include summary comments of methods (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, handler)
}

// AddFullCodeExtractTool registers the full_code_extract tool.
func AddFullCodeExtractTool(s *server.MCPServer, handler server.ToolHandlerFunc) {
	tool := mcp.NewTool(
		"full_code_extract",
		mcp.WithDescription(`Return the exact contents of every .cs and .cshtml file under path, each wrapped in "-----8<----- [FILE START] <absolute path> -----" and "[FILE END]" markers. Use it to give a model complete source for one feature folder.`),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Absolute path of the folder to extract")),
		mcp.WithBoolean("include_subdirectories",
			mcp.Description("Also extract files in subfolders (default: true)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, handler)
}

func (s *Server) handleProjectMapping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ProjectMappingArgs
	if err := mcputils.CoerceBindArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	cfg := *s.cfg
	if args.IncludeTypeComments != nil {
		cfg.Mapping.IncludeTypeComments = *args.IncludeTypeComments
	}
	if args.IncludeMemberComments != nil {
		cfg.Mapping.IncludeMemberComments = *args.IncludeMemberComments
	}

	doc, err := service.MapProject(ctx, &cfg, args.Path, service.MapOptions{Cache: s.cache})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := mapping.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleFullCodeExtract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args FullCodeExtractArgs
	if err := mcputils.CoerceBindArguments(request, &args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if args.Path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	cfg := *s.cfg
	if args.IncludeSubdirectories != nil {
		cfg.Extract.IncludeSubdirectories = *args.IncludeSubdirectories
	}

	data, err := service.ExtractCode(&cfg, args.Path, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
