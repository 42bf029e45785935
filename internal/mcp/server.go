// Package mcp exposes the form engine as Model Context Protocol tools over
// stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdffill/pdffill/internal/config"
	"github.com/pdffill/pdffill/internal/descriptions"
	"github.com/pdffill/pdffill/internal/form"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	mcpServer *server.MCPServer
	logger    *log.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		mcpServer: mcpServer,
		logger:    log.New(io.Discard, "", 0),
	}
	if cfg.IsDebug() {
		// Diagnostics go to stderr; stdout carries the MCP protocol.
		s.logger = log.New(os.Stderr, "pdffill: ", log.LstdFlags)
	}

	s.registerTools()
	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formSchemaTool := mcp.NewTool(
		"form_schema",
		mcp.WithDescription(descriptions.FormSchemaDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(formSchemaTool, s.handleFormSchema)

	formFillTool := mcp.NewTool(
		"form_fill",
		mcp.WithDescription(descriptions.FormFillDescription),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the source PDF file"),
		),
		mcp.WithString("output",
			mcp.Required(),
			mcp.Description("Full path the filled PDF is written to"),
		),
		mcp.WithString("data",
			mcp.Required(),
			mcp.Description("JSON object mapping field names to string, number or boolean values"),
		),
		mcp.WithBoolean("flatten",
			mcp.Description("Mark every form field read-only in the output"),
		),
	)
	s.mcpServer.AddTool(formFillTool, s.handleFormFill)
}

func (s *Server) handleFormSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.checkFile(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p := form.Open(path, form.WithAdobeMode(s.config.AdobeMode), form.WithLogger(s.logger))
	schema := p.Schema()
	if len(schema) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No form fields found in %s", path)), nil
	}

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	responseText := fmt.Sprintf("Found %d form field(s) in %s\n%s", len(schema), path, b)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFormFill(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawData, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flatten := false
	if f, ok := request.GetArguments()["flatten"].(bool); ok {
		flatten = f
	}

	if err := s.checkFile(path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := form.ParseJSON([]byte(rawData))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	p := form.Open(path, form.WithAdobeMode(s.config.AdobeMode), form.WithLogger(s.logger))
	if p.Len() == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no form fields found in %s", path)), nil
	}
	if _, err := p.FillFile(path, output, data, flatten); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	filled := 0
	for name := range data {
		if _, ok := p.Widget(name); ok {
			filled++
		}
	}
	responseText := fmt.Sprintf("Filled %d of %d supplied field(s) in %s\n", filled, len(data), path)
	responseText += fmt.Sprintf("Output: %s\n", output)
	responseText += fmt.Sprintf("Flattened: %t\n", flatten)
	return mcp.NewToolResultText(responseText), nil
}

// checkFile guards tool input paths: the file must exist and respect the
// configured size cap.
func (s *Server) checkFile(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > s.config.MaxFileSize {
		return fmt.Errorf("%s exceeds the maximum file size (%d bytes)", path, s.config.MaxFileSize)
	}
	return nil
}

// Run starts the MCP server on stdio. The parent process controls the
// lifecycle; Run returns when stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Printf("starting MCP server, directory %s", s.config.PDFDirectory)
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
