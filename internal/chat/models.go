package chat

import (
	"time"

	"github.com/google/uuid"
)

// WelcomeText opens every new conversation.
const WelcomeText = "Hello! I'm your Smart Health Assistant. I can analyze your metrics. **Remember, I am not a doctor.**"

type QuickLink struct {
	Label string `json:"label"`
	Query string `json:"query"`
}

// QuickLinks are canned questions offered to the client.
var QuickLinks = []QuickLink{
	{Label: "Water Status", Query: "what is my water status"},
	{Label: "View My Plan", Query: "tell me about my plan"},
	{Label: "My Health Report", Query: "my health report"},
	{Label: "Medical Disclaimer", Query: "what is the medical disclaimer"},
	{Label: "Cardio Health Risks", Query: "what are the risks of high blood pressure?"},
}

type ChatMessageDTO struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Rule      string    `json:"rule,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	UserMessage      ChatMessageDTO `json:"user_message"`
	AssistantMessage ChatMessageDTO `json:"assistant_message"`
}

type ListMessagesResponse struct {
	Messages []ChatMessageDTO `json:"messages"`
}

type SuggestionsResponse struct {
	Welcome    string      `json:"welcome"`
	QuickLinks []QuickLink `json:"quick_links"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func turnToDTO(t Turn) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        t.ID,
		Role:      t.Role,
		Content:   t.Text,
		Rule:      t.Rule,
		CreatedAt: t.CreatedAt,
	}
}
