package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-upwork-opener/internal/runner"
)

// links listed in one message; the rest are only counted
const maxListedLinks = 20

type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

// FormatSummary renders a run summary as MarkdownV2.
func FormatSummary(sum runner.Summary) string {
	var b strings.Builder
	b.WriteString("🧭 *Upwork run*\n")
	b.WriteString(escapeMarkdown(sum.Status))
	b.WriteString("\n")

	for i, u := range sum.OpenedURLs {
		if i == maxListedLinks {
			b.WriteString(escapeMarkdown(fmt.Sprintf("… and %d more", len(sum.OpenedURLs)-maxListedLinks)))
			b.WriteString("\n")
			break
		}
		//inside (...) only ) and \ need escaping
		link := strings.NewReplacer(`\`, `\\`, ")", `\)`).Replace(u)
		b.WriteString(fmt.Sprintf("🔗 [Job %d](%s)\n", i+1, link))
	}
	return b.String()
}

func (b *Bot) SendSummary(sum runner.Summary) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatSummary(sum))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}
