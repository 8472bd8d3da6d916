// Package chat routes chat requests to the completion backend and the
// keyword matcher and assembles the responses.
package chat

import "github.com/edgard/commerce-agent/internal/catalog"

// RequestType selects how a chat request is handled.
type RequestType string

// Supported request types
const (
	TypeGeneralConversation       RequestType = "general_conversation"
	TypeProductRecommendationText RequestType = "product_recommendation_text"
	TypeProductSearchImage        RequestType = "product_search_image"
)

// Request is an incoming chat request. Message and Type may be empty: an
// image search needs no text and an empty type is an unknown type. Image is
// an absolute URL or a base64 payload and is only used by
// product_search_image requests.
type Request struct {
	Message string      `json:"message"`
	Type    RequestType `json:"type"`
	Image   *string     `json:"image,omitempty"`
}

// Response is the reply to a chat request. Products holds at most three
// entries, best match first.
type Response struct {
	Response string            `json:"response"`
	Products []catalog.Product `json:"products"`
}
