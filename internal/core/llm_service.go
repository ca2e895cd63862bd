package core

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultChatModelName = "gemini-2.5-flash"

type LLMService struct {
	client *genai.Client
}

func NewLLMService(apiKey string) *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

// GetChatResponse sends the full conversation to Gemini with the assistant
// tools declared and returns the raw response, which may contain text parts,
// function call parts, or both.
func (s *LLMService) GetChatResponse(ctx context.Context, systemInstruction string, history []*genai.Content) (*genai.GenerateContentResponse, error) {
	model := s.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}
	model.Tools = assistantTools()
	model.SetTemperature(1.0)

	if len(history) == 0 {
		return nil, fmt.Errorf("prompt history is empty for chat completion")
	}

	lastUserMessage := history[len(history)-1]
	if lastUserMessage.Role != "user" {
		return nil, fmt.Errorf("last message in history is not from 'user', cannot proceed with chat completion")
	}

	chatSession := model.StartChat()
	chatSession.History = history[:len(history)-1]

	resp, err := chatSession.SendMessage(ctx, lastUserMessage.Parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	return resp, nil
}
