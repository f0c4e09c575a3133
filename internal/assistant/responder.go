package assistant

import "strings"

// Responder turns a user submission into a reply. KeywordResponder is
// the built-in implementation; an inference backend can replace it
// without touching the state machine.
type Responder interface {
	Classify(input string) Category
	Respond(input string) string
}

type keywordRule struct {
	keywords []string
	category Category
}

// Evaluated in order; the first rule with a matching keyword wins.
var keywordRules = []keywordRule{
	{keywords: []string{"flashcard"}, category: CategoryFlashcard},
	{keywords: []string{"summary", "summarize"}, category: CategorySummary},
	{keywords: []string{"explain"}, category: CategoryExplanation},
}

var replyTemplates = map[Category]string{
	CategoryFlashcard: "I'll help you create flashcards! Here are some key concepts from your Advanced Mathematics course:\n\n" +
		"**Front:** What is the derivative of sin(x)?\n**Back:** cos(x)\n\n" +
		"**Front:** Define a limit in calculus\n**Back:** The value that a function approaches as the input approaches some value\n\n" +
		"Would you like me to create more flashcards for a specific topic?",
	CategorySummary: "Here's a summary of Chapter 5: Derivatives\n\n" +
		"🔹 **Key Points:**\n" +
		"• Derivatives measure the rate of change\n" +
		"• The derivative of x^n is nx^(n-1)\n" +
		"• Chain rule: d/dx[f(g(x))] = f'(g(x)) × g'(x)\n" +
		"• Product rule: d/dx[f(x)g(x)] = f'(x)g(x) + f(x)g'(x)\n\n" +
		"📊 **Applications:**\n" +
		"• Finding maximum and minimum values\n" +
		"• Analyzing motion and velocity\n" +
		"• Optimization problems",
	CategoryExplanation: "I'd be happy to explain any concept! For example, let me explain **derivatives**:\n\n" +
		"Think of a derivative as the 'instantaneous rate of change' - like how fast your car is going at exactly 3:00 PM, not your average speed for the whole trip.\n\n" +
		"🚗 **Real-world analogy:**\n" +
		"• Position = where you are\n" +
		"• Velocity = derivative of position\n" +
		"• Acceleration = derivative of velocity\n\n" +
		"Mathematically, it's the slope of the tangent line to a curve at any given point. What specific concept would you like me to explain?",
	CategoryText: "That's a great question! I can help you understand this better. Could you provide more context about which course or topic this relates to? I have access to your course materials and can give you personalized explanations based on what you're currently studying.",
}

// KeywordResponder classifies by case-insensitive substring match and
// answers with a fixed template per category.
type KeywordResponder struct{}

func (KeywordResponder) Classify(input string) Category {
	lower := strings.ToLower(input)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return CategoryText
}

func (r KeywordResponder) Respond(input string) string {
	return replyTemplates[r.Classify(input)]
}
