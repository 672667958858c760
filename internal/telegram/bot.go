package telegram

import (
	"fmt"
	"net/url"
	"strings"

	"go-linkedin-jobs/internal/scraper/linkedin"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const searchURL = "https://www.linkedin.com/jobs/search"

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot posts run summaries to a single chat.
type Bot struct {
	api    sender
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

// markdownV2 escapes every character Telegram reserves in MarkdownV2 text.
var markdownV2 = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
	")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
	"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
	"}", "\\}", ".", "\\.", "!", "\\!",
)

// codeSpan escapes text for use inside `...`.
var codeSpan = strings.NewReplacer("`", "\\`", "\\", "\\\\")

func escapeMarkdown(text string) string {
	return markdownV2.Replace(text)
}

// SearchURL is the public results page for the query in report.
func SearchURL(report *linkedin.Report) string {
	q := url.Values{}
	q.Set("keywords", report.Query.Title)
	if report.Query.Location != "" {
		q.Set("location", report.Query.Location)
	}
	return searchURL + "?" + q.Encode()
}

// FormatReport renders report as a MarkdownV2 message. runErr is the error returned by the run, if any.
func FormatReport(report *linkedin.Report, runErr error) string {
	var b strings.Builder

	if runErr != nil {
		fmt.Fprintf(&b, "❌ *LinkedIn search failed*\n")
	} else {
		fmt.Fprintf(&b, "✅ *LinkedIn search finished*\n")
	}
	fmt.Fprintf(&b, "💼 %s\n", escapeMarkdown(report.Query.Title))

	loc := report.Query.Location
	if loc == "" {
		loc = "N/A"
	}
	fmt.Fprintf(&b, "📍 %s\n", escapeMarkdown(loc))
	fmt.Fprintf(&b, "📋 Jobs: %d\n", report.Records)

	if n := len(report.Incomplete); n > 0 {
		fmt.Fprintf(&b, "⚠️ Missing fields: %d\n", n)
	}
	if report.Expand.Reason != "" {
		fmt.Fprintf(&b, "📜 %s\n", escapeMarkdown(fmt.Sprintf("%s after %d scrolls, %d clicks",
			report.Expand.Reason, report.Expand.Iterations, report.Expand.Clicks)))
	}
	if report.Output != "" {
		fmt.Fprintf(&b, "💾 `%s`\n", codeSpan.Replace(report.Output))
	}
	if runErr != nil {
		fmt.Fprintf(&b, "🔖 %s\n", escapeMarkdown(runErr.Error()))
	}
	return b.String()
}

// SendReport posts the run summary with a button that opens the same search on LinkedIn.
func (b *Bot) SendReport(report *linkedin.Report, runErr error) error {
	msg := tgbotapi.NewMessage(b.chatID, FormatReport(report, runErr))
	msg.ParseMode = "MarkdownV2"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🔗 View Jobs", SearchURL(report)),
		),
	)

	_, err := b.api.Send(msg)
	return err
}
