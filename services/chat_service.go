package services

import (
	"context"
	"log"
)

// chatPersona is prepended to every chat message so the assistant stays
// in character regardless of what the user types after it.
const chatPersona = `You are EcoBuddy, a friendly household resource conservation assistant. You help people reduce their electricity, water and waste footprint. Keep answers short, encouraging and practical, and stay on the topic of home resource usage.

User message: `

// chatApology is returned verbatim whenever the backend cannot answer.
const chatApology = "I'm sorry, I couldn't process that request right now."

type ChatService struct {
	backend InsightBackend
}

func NewChatService(backend InsightBackend) *ChatService {
	return &ChatService{backend: backend}
}

// Reply forwards the user's message, behind the fixed persona preamble,
// to the generative backend. Failures never propagate: the caller gets a
// canned apology instead.
func (s *ChatService) Reply(ctx context.Context, message string) string {
	if s.backend == nil {
		return chatApology
	}
	text, err := s.backend.Generate(ctx, chatPersona+message)
	if err != nil {
		log.Printf("chat generation failed: %v", err)
		return chatApology
	}
	return text
}
