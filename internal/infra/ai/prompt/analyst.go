package prompt

import "github.com/bryanwahyu/company-insight/internal/domain/analysis"

// FallbackPrompt is used for any topic outside the fixed set.
const FallbackPrompt = "Tell me about Kuaishou."

const systemInstruction = "You are a senior business analyst specializing in the Chinese tech sector. Your output should be professional, insightful, and formatted in clean Markdown. Use bolding for key terms."

var topicPrompts = map[analysis.Topic]string{
	analysis.TopicHistory: "Analyze the development history of Kuaishou (快手). Focus on its transition from 'GIF Kuaishou' to a short video platform, and its IPO. " +
		"Structure the response with clear milestones.",
	analysis.TopicBusinessModel: "Analyze Kuaishou's business model. Explain its revenue streams: Live Streaming (virtual gifting), Online Marketing Services (Ads), and E-commerce. " +
		"Provide insights on the shift in revenue composition over recent years.",
	analysis.TopicCompetition: "Compare Kuaishou with its main competitor, Douyin (TikTok China). " +
		"Analyze their differences in user demographics, algorithm philosophy (traffic distribution), and community culture (Laotie culture).",
	analysis.TopicFuture: "Provide a future outlook for Kuaishou. " +
		"Discuss challenges (user growth saturation) and opportunities (AI integration, overseas expansion, local services).",
}

// SystemInstruction is the persona and formatting directive shared by all topics.
func SystemInstruction() string {
	return systemInstruction
}

// UserPrompt returns the instruction for a topic, or FallbackPrompt.
func UserPrompt(topic analysis.Topic) string {
	if p, ok := topicPrompts[topic]; ok {
		return p
	}
	return FallbackPrompt
}

// Resolve builds the generation request for a topic. It never fails.
func Resolve(topic analysis.Topic) analysis.Request {
	return analysis.Request{
		Topic:             topic,
		Prompt:            UserPrompt(topic),
		SystemInstruction: SystemInstruction(),
	}
}
