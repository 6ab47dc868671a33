package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Document struct {
	ID       string
	Title    string
	Content  string
	FilePath string
}

type Parser struct {
}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) ParseFile(path string) (*Document, error) {
	path = strings.TrimSpace(path)

	// Check file extension
	ext := filepath.Ext(path)
	if ext != ".txt" {
		return nil, fmt.Errorf("unsupported file type %s (expected .txt)", ext)
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	if len(bytes) == 0 {
		return nil, fmt.Errorf("file %s is empty", path)
	}

	filename := filepath.Base(path)

	return &Document{
		ID:       uuid.New().String(),
		Title:    strings.TrimSuffix(filename, ext),
		Content:  string(bytes),
		FilePath: path,
	}, nil
}
