package main

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/funvibe/funxy/internal/diagnostics"
	"github.com/funvibe/funxy/internal/semantic"
)

// DocumentState stores the state of a single open document. The db.Index
// backing Model is owned per-document rather than per-workspace:
// cross-file member/signature resolution is out of spec.md's CORE scope
// (it assumes a pre-populated snapshot), so each open document gets its
// own isolated Index rebuilt on every edit, grounded on the teacher's
// per-file PipelineContext cache replacing its workspace-wide module
// graph.
type DocumentState struct {
	Content string
	Model   *semantic.Model
	Errors  []*diagnostics.DiagnosticError
	Mu      sync.RWMutex
}

func (s *LanguageServer) handleDidOpen(params DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	content := params.TextDocument.Text

	docState := &DocumentState{Content: content}
	docState.Model, docState.Errors = s.analyzeDocument(content, uri)

	s.mu.Lock()
	s.documents[uri] = docState
	s.mu.Unlock()

	log.Printf("Opened file: %s", uri)
	return s.publishDiagnostics(uri, docState.Errors)
}

func (s *LanguageServer) handleDidChange(params DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := params.TextDocument.URI
	newContent := params.ContentChanges[0].Text

	s.mu.RLock()
	docState, exists := s.documents[uri]
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("document %s not found", uri)
	}

	model, errs := s.analyzeDocument(newContent, uri)
	docState.Mu.Lock()
	docState.Content = newContent
	docState.Model = model
	docState.Errors = errs
	docState.Mu.Unlock()

	log.Printf("Changed file: %s", uri)
	return s.publishDiagnostics(uri, errs)
}

func (s *LanguageServer) handleDidClose(params DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()
	log.Printf("Closed file: %s", params.TextDocument.URI)
	return nil
}

func (s *LanguageServer) uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return strings.TrimPrefix(uri, "file://")
	}
	return uri
}
