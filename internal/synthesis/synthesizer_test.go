package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quillsearch/search-agent/internal/llm"
	"github.com/quillsearch/search-agent/internal/models"
	"github.com/rs/zerolog"
)

type MockLLMClient struct {
	// What the mock should return when InvokeModel is called
	ResponseToReturn *llm.LLMResponse
	ErrorToReturn    error

	// Track if the mock was called (useful for verification)
	WasCalled   bool
	LastRequest *llm.LLMRequest
}

// InvokeModel implements the LLMClient interface
func (m *MockLLMClient) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	m.LastRequest = &request
	return m.ResponseToReturn, m.ErrorToReturn
}

func (m *MockLLMClient) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	m.WasCalled = true
	m.LastRequest = &request
	return m.ResponseToReturn, m.ErrorToReturn
}

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestSynthesize_HappyPath(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "Go is a programming language.", StopReason: "end_turn"},
	}
	s := NewSynthesizer(mockClient, 512, 0.1, 5*time.Second, testLogger())

	sctx := models.SynthesisContext{
		Query: "what is go",
		Results: []models.SearchResult{
			{Title: "Go", URL: "http://go.dev/doc", Snippet: "Go is open source.", Domain: "go.dev"},
		},
	}

	answer, err := s.Synthesize(context.Background(), sctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Go is a programming language." {
		t.Errorf("unexpected answer: %q", answer)
	}

	if !mockClient.WasCalled {
		t.Fatal("expected the LLM client to be invoked")
	}
	if mockClient.LastRequest.MaxTokens != 512 {
		t.Errorf("expected MaxTokens=512, got %d", mockClient.LastRequest.MaxTokens)
	}
	if !strings.Contains(mockClient.LastRequest.Prompt, "what is go") {
		t.Error("expected the query rendered into the prompt")
	}
	if !strings.Contains(mockClient.LastRequest.Prompt, "Go is open source.") {
		t.Error("expected the result snippet rendered into the prompt")
	}
}

func TestSynthesize_ClientError(t *testing.T) {
	mockClient := &MockLLMClient{
		ErrorToReturn: errors.New("throttled"),
	}
	s := NewSynthesizer(mockClient, 512, 0.1, 5*time.Second, testLogger())

	_, err := s.Synthesize(context.Background(), models.SynthesisContext{Query: "q"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestSynthesize_EmptyAnswer(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "   \n", StopReason: "end_turn"},
	}
	s := NewSynthesizer(mockClient, 512, 0.1, 5*time.Second, testLogger())

	_, err := s.Synthesize(context.Background(), models.SynthesisContext{Query: "q"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for empty answer, got %v", err)
	}
}

func TestSynthesize_TrimsAnswer(t *testing.T) {
	mockClient := &MockLLMClient{
		ResponseToReturn: &llm.LLMResponse{Content: "\n  the answer  \n", StopReason: "end_turn"},
	}
	s := NewSynthesizer(mockClient, 512, 0.1, 5*time.Second, testLogger())

	answer, err := s.Synthesize(context.Background(), models.SynthesisContext{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("expected trimmed answer, got %q", answer)
	}
}
