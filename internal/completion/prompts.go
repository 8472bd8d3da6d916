package completion

// TagGenerationPrompt asks the model for catalog tags of one product.
// The format string expects the product title and description.
const TagGenerationPrompt = `Generate 5-7 search tags for this product. Return only the tags separated by commas, no other text.

Product: %s
Description: %s

Example format: red,athletic,t-shirt,sports,nike,clothing`
