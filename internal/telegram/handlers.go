package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/commerce-agent/internal/chat"
	"github.com/edgard/commerce-agent/internal/database"
)

const (
	photoDownloadTimeout = 30 * time.Second
	maxPhotoSize         = 10 << 20
)

// newTextHandler replies with a fixed text.
func newTextHandler(deps HandlerDeps, name, text string) bot.HandlerFunc {
	log := deps.Logger.With("handler", name)

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		log.InfoContext(ctx, "Handling command", "chat_id", update.Message.Chat.ID)
		reply(ctx, b, deps, update.Message, text)
	}
}

// NewRecommendHandler returns the /recommend handler, which runs a text
// product recommendation for the command argument.
func NewRecommendHandler(deps HandlerDeps) bot.HandlerFunc {
	deps = deps.withDefaults()

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil {
			return
		}

		query := commandArgument(msg.Text)
		if query == "" {
			reply(ctx, b, deps, msg, deps.Messages.ProvideMessage)
			return
		}

		process(ctx, b, deps, msg, chat.Request{Message: query, Type: chat.TypeProductRecommendationText})
	}
}

// NewDefaultHandler handles every update no command matched: photos run an
// image product search, other text is general conversation.
func NewDefaultHandler(deps HandlerDeps) bot.HandlerFunc {
	deps = deps.withDefaults()
	log := deps.Logger.With("handler", "default")

	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msg := update.Message
		if msg == nil {
			return
		}

		if len(msg.Photo) > 0 {
			image, err := downloadPhoto(ctx, b, deps.HTTPClient, msg.Photo)
			if err != nil {
				log.ErrorContext(ctx, "Failed to download photo", "chat_id", msg.Chat.ID, "error", err)
				reply(ctx, b, deps, msg, deps.Messages.GeneralError)
				return
			}
			caption := strings.TrimSpace(msg.Caption)
			if caption == "" {
				caption = "Find products like this"
			}
			process(ctx, b, deps, msg, chat.Request{Message: caption, Type: chat.TypeProductSearchImage, Image: &image})
			return
		}

		text := strings.TrimSpace(msg.Text)
		if text == "" {
			log.DebugContext(ctx, "Ignoring message without text or photo", "chat_id", msg.Chat.ID)
			return
		}
		process(ctx, b, deps, msg, chat.Request{Message: text, Type: chat.TypeGeneralConversation})
	}
}

func process(ctx context.Context, b *bot.Bot, deps HandlerDeps, msg *models.Message, req chat.Request) {
	_, _ = b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: msg.Chat.ID, Action: models.ChatActionTyping})

	resp := deps.Processor.Process(ctx, req)
	deps.Recorder.Record(ctx, database.SourceTelegram, req, resp)

	reply(ctx, b, deps, msg, FormatResponse(resp))
}

func reply(ctx context.Context, b *bot.Bot, deps HandlerDeps, msg *models.Message, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          msg.Chat.ID,
		Text:            text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
}

// FormatResponse renders a chat response as a Telegram message listing the
// matched products.
func FormatResponse(resp chat.Response) string {
	if len(resp.Products) == 0 {
		return resp.Response
	}

	var sb strings.Builder
	sb.WriteString(resp.Response)
	sb.WriteString("\n")
	for i, p := range resp.Products {
		fmt.Fprintf(&sb, "\n%d. %s - $%.2f", i+1, p.Title, p.Price)
	}
	return sb.String()
}

// commandArgument returns the text following the leading command.
func commandArgument(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, arg, _ := strings.Cut(text, " ")
	return strings.TrimSpace(arg)
}

// downloadPhoto fetches the largest photo size and returns it base64-encoded.
func downloadPhoto(ctx context.Context, b *bot.Bot, client *http.Client, sizes []models.PhotoSize) (string, error) {
	largest := sizes[len(sizes)-1]

	ctx, cancel := context.WithTimeout(ctx, photoDownloadTimeout)
	defer cancel()

	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: largest.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file: %w", err)
	}
	if file.FilePath == "" {
		return "", errors.New("empty file path returned from Telegram")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
