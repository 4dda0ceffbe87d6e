package assistant

import (
	"github.com/tripweaver/go-trip-planner/internal/types"
	"google.golang.org/genai"
)

// chatSystemPrompt is the fixed persona prepended to every assistant request.
const chatSystemPrompt = `You are a friendly and knowledgeable travel assistant.
Answer travel questions helpfully and concisely.
Format your responses as structured markdown with headings and bullet lists where it helps readability.
You may include external search links (e.g. Google Maps or booking sites) when they would be useful.
Emoji are allowed where they make the answer friendlier.`

// buildChatContents maps the transcript window into provider turns, order
// preserved. The user speaks as "user", the assistant as "model".
func buildChatContents(messages []types.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == types.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}
