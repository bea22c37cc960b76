package main

import (
	"encoding/json"
	"log"

	"github.com/funvibe/funxy/internal/config"
)

func (s *LanguageServer) handleInitialize(id interface{}, params InitializeParams) error {
	log.Printf("Handling initialize request with ID: %v", id)

	if params.RootURI != nil && *params.RootURI != "" {
		s.rootPath = s.uriToPath(*params.RootURI)
	} else if params.RootPath != nil && *params.RootPath != "" {
		s.rootPath = *params.RootPath
	}

	if cfg, err := config.LoadChain(s.rootPath); err == nil {
		s.config = cfg
	} else {
		log.Printf("config.LoadChain: %v (keeping defaults)", err)
	}

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:           1, // Full sync
			HoverProvider:              true,
			DefinitionProvider:         true,
			CompletionProvider:         &CompletionOptions{TriggerCharacters: []string{"."}},
			DocumentFormattingProvider: true,
		},
	}

	response := ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result:  result,
	}

	log.Printf("Sending initialize response")
	return s.sendResponse(response)
}

// handleDidChangeConfiguration merges an LSP-pushed partial config over
// the existing chain result (spec.md §6, highest-precedence source).
// Settings may be a raw `.emmyrc.json`-shaped document or wrapped under
// an "emmyrc" key, matching how clients typically forward workspace
// settings.
func (s *LanguageServer) handleDidChangeConfiguration(params DidChangeConfigurationParams) error {
	if len(params.Settings) == 0 {
		return nil
	}
	var wrapped struct {
		Emmyrc *config.Config `json:"emmyrc"`
	}
	if err := json.Unmarshal(params.Settings, &wrapped); err == nil && wrapped.Emmyrc != nil {
		s.config = config.Merge(s.config, wrapped.Emmyrc)
		return nil
	}
	overlay, err := config.Parse(params.Settings, "<didChangeConfiguration>")
	if err != nil {
		log.Printf("didChangeConfiguration: %v", err)
		return nil
	}
	s.config = config.Merge(s.config, overlay)
	return nil
}

func (s *LanguageServer) handleShutdown(id interface{}) error {
	response := ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result:  nil,
	}

	return s.sendResponse(response)
}
