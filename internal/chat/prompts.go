package chat

const (
	// generalSystemPrompt frames free-form conversation.
	generalSystemPrompt = "You are a helpful AI assistant for an e-commerce website. Be friendly and helpful."

	// textKeywordPrompt extracts search keywords from a product request.
	textKeywordPrompt = `Extract 3-5 search keywords from the user's product request.
Return only the keywords separated by commas, no other text.`

	// imageKeywordPrompt extracts search keywords from a picture.
	imageKeywordPrompt = `Analyze this image and extract 3-5 product search keywords that describe what you see.
Return only the keywords separated by commas, no other text.`

	// imageMaxOutputTokens caps the keyword answer for image prompts.
	imageMaxOutputTokens = 300
)

const (
	unknownTypeMsg = "I don't understand that request type."
	errorMsgFormat = "Sorry, I had an error: %s"
)
