package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/healthmate/healthmate-api/internal/model"
	"github.com/healthmate/healthmate-api/pkg/circuitbreaker"
	apperrors "github.com/healthmate/healthmate-api/pkg/errors"
	"github.com/healthmate/healthmate-api/pkg/metrics"
)

const (
	// MaxMessageLength is the hard cap on a single user message, counted in
	// characters rather than bytes so non-Latin scripts get the full budget.
	MaxMessageLength = 1000
	// HistoryWindow bounds the conversation context sent upstream.
	HistoryWindow = 10
)

// Answer is the post-processed reply from the completion endpoint.
type Answer struct {
	Text     string
	Verified bool
	Sources  []string
}

// Gateway validates and sanitizes user messages, wraps them in the medical
// system prompt, forwards the bounded conversation window to the completion
// endpoint, and inspects the reply for a recognized citation.
type Gateway struct {
	completer Completer
	breaker   *circuitbreaker.CircuitBreaker
	metrics   *metrics.Metrics
}

func NewGateway(completer Completer, m *metrics.Metrics) *Gateway {
	return &Gateway{
		completer: completer,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "llm-gateway",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
	}
}

// AnswerQuestion answers a general health question. Validation happens
// before any network call; upstream failures are mapped to the application
// error taxonomy and never retried here.
func (g *Gateway) AnswerQuestion(ctx context.Context, message string, history []model.ChatMessage, language string) (*Answer, error) {
	if err := validateInput(message, history, language); err != nil {
		return nil, err
	}

	sanitized := sanitizeMessage(message)
	messages := buildMessages(sanitized, history, language)

	var reply string
	start := time.Now()
	err := g.breaker.Execute(func() error {
		var completeErr error
		reply, completeErr = g.completer.Complete(ctx, messages)
		return completeErr
	})
	if g.metrics != nil {
		g.metrics.LLMLatency.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		g.countRequest(outcomeFor(err))
		if apperrors.Is(err, apperrors.ErrRateLimited) || apperrors.Is(err, apperrors.ErrQuotaExhausted) || apperrors.Is(err, apperrors.ErrUpstream) {
			return nil, err
		}
		return nil, apperrors.Upstream("assistant", err)
	}
	g.countRequest("success")

	answer := &Answer{Text: reply}
	if sources := detectCitations(reply); len(sources) > 0 {
		answer.Verified = true
		answer.Sources = sources
		if g.metrics != nil {
			g.metrics.LLMVerified.Inc()
		}
	}
	return answer, nil
}

func validateInput(message string, history []model.ChatMessage, language string) error {
	if strings.TrimSpace(message) == "" {
		return apperrors.Validation("message is required", nil)
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return apperrors.Validation(fmt.Sprintf("message too long, please keep messages under %d characters", MaxMessageLength), nil)
	}
	if _, ok := SupportedLanguages[language]; !ok {
		return apperrors.Validation("unsupported language selection", nil)
	}
	for i := 1; i < len(history); i++ {
		if history[i].CreatedAt.Before(history[i-1].CreatedAt) {
			return apperrors.Validation("conversation history is out of order", nil)
		}
	}
	return nil
}

// sanitizeMessage strips angle brackets to reduce markup injection into
// downstream rendering.
func sanitizeMessage(message string) string {
	replacer := strings.NewReplacer("<", "", ">", "")
	return replacer.Replace(strings.TrimSpace(message))
}

func buildMessages(message string, history []model.ChatMessage, language string) []Message {
	messages := make([]Message, 0, HistoryWindow+2)
	messages = append(messages, Message{Role: "system", Content: buildSystemPrompt(language)})

	window := history
	if len(window) > HistoryWindow {
		window = window[len(window)-HistoryWindow:]
	}
	for _, msg := range window {
		role := "user"
		if msg.Author == model.MessageAuthorAssistant {
			role = "assistant"
		}
		messages = append(messages, Message{Role: role, Content: msg.Text})
	}

	messages = append(messages, Message{Role: "user", Content: message})
	return messages
}

func buildSystemPrompt(language string) string {
	knowledge, _ := json.MarshalIndent(medicalKnowledgeGraph, "", "  ")

	var b strings.Builder
	b.WriteString("You are HealthMate, a multilingual AI health assistant.\n\n")
	b.WriteString("Key Guidelines:\n")
	fmt.Fprintf(&b, "- Respond in %s\n", SupportedLanguages[language])
	b.WriteString("- Provide accurate, personalized health information based on medical knowledge\n")
	b.WriteString("- Always recommend consulting a doctor for serious symptoms\n")
	b.WriteString("- Include relevant precautions and preventive measures\n")
	b.WriteString("- Be empathetic and supportive\n")
	b.WriteString("- Use the medical knowledge graph data when relevant\n")
	b.WriteString("- Structure answers with short headed sections and markdown bullet lists\n")
	b.WriteString("- Use bold for medicine names\n")
	b.WriteString("- Keep responses concise but informative\n")
	b.WriteString("- Focus on preventive care and wellness\n\n")
	b.WriteString("Medical Knowledge Available:\n")
	b.Write(knowledge)
	b.WriteString("\n\nCRITICAL: Always end serious health concerns with \"Please consult a qualified doctor for proper diagnosis and treatment.\"\n\n")
	fmt.Fprintf(&b, "Current conversation language: %s", language)
	return b.String()
}

// citationMarkers are health-authority references whose presence in a reply
// flags it as verified. A content heuristic, not a fact check.
var citationMarkers = map[string]string{
	"world health organization": "World Health Organization",
	"who":                       "World Health Organization",
}

func detectCitations(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]struct{})
	for marker, source := range citationMarkers {
		if containsWord(lower, marker) {
			found[source] = struct{}{}
		}
	}
	sources := make([]string, 0, len(found))
	for source := range found {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	return sources
}

// containsWord matches the marker on word boundaries so that e.g. "whole"
// does not count as a WHO citation.
func containsWord(text, marker string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], marker)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(marker)
		beforeOK := start == 0 || !isAlnum(text[start-1])
		afterOK := end == len(text) || !isAlnum(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

func outcomeFor(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return "rate_limited"
	case apperrors.Is(err, apperrors.ErrQuotaExhausted):
		return "quota_exhausted"
	default:
		return "upstream_error"
	}
}

func (g *Gateway) countRequest(outcome string) {
	if g.metrics != nil {
		g.metrics.LLMRequests.WithLabelValues(outcome).Inc()
	}
}
