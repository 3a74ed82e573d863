package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var ErrNoClients = errors.New("no Gemini clients available")

// GeminiClientSelector manages round-robin selection and failover across multiple Gemini clients
type GeminiClientSelector struct {
	clients      []Generator
	currentIndex int
	mutex        sync.Mutex
}

func NewGeminiClientSelector(clients []Generator) *GeminiClientSelector {
	return &GeminiClientSelector{clients: clients}
}

// GetNextClient returns the next client in round-robin order
func (s *GeminiClientSelector) GetNextClient() (Generator, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(s.clients) == 0 {
		return nil, -1
	}

	client := s.clients[s.currentIndex]
	index := s.currentIndex
	s.currentIndex = (s.currentIndex + 1) % len(s.clients)

	return client, index
}

func (s *GeminiClientSelector) GetClientCount() int {
	return len(s.clients)
}

// TryAllClients attempts the operation with all clients until one succeeds
func (s *GeminiClientSelector) TryAllClients(operation func(Generator, int) error) error {
	clientCount := s.GetClientCount()
	if clientCount == 0 {
		return ErrNoClients
	}

	var lastErr error
	errorsCollected := make([]string, 0, clientCount)

	for attempt := 0; attempt < clientCount; attempt++ {
		client, clientIdx := s.GetNextClient()

		slog.Info("Attempting Gemini API request",
			"client_index", clientIdx,
			"attempt", attempt+1,
			"total_clients", clientCount)

		err := operation(client, clientIdx)
		if err == nil {
			return nil
		}

		lastErr = err
		errorsCollected = append(errorsCollected, fmt.Sprintf("client[%d]: %v", clientIdx, err))

		slog.Warn("Gemini API request failed, trying next client",
			"client_index", clientIdx,
			"attempt", attempt+1,
			"error", err)

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}

	slog.Error("All Gemini clients exhausted",
		"total_attempts", clientCount,
		"errors", errorsCollected)

	return fmt.Errorf("all %d Gemini clients failed, last error: %w", clientCount, lastErr)
}

// GenerateJSON runs the request with failover across every client.
func (s *GeminiClientSelector) GenerateJSON(ctx context.Context, prompt string, images []ImagePart) (map[string]any, error) {
	var result map[string]any
	err := s.TryAllClients(func(client Generator, _ int) error {
		resp, err := client.GenerateJSON(ctx, prompt, images)
		if err != nil {
			return err
		}
		result = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
