package bot

import (
	"context"
	"regexp"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/karrtopelka/drill-bot/log"
)

var linkPattern = regexp.MustCompile(`https?://(?:(?:www|vm|vt|m)\.)?tiktok\.com/[^\s]+`)

// FindLinks extracts every platform link from a message text.
func FindLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("update handler panicked: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleReaction(update.CallbackQuery)
	case update.PollAnswer != nil:
		b.handlePollAnswer(update.PollAnswer)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	for _, link := range FindLinks(msg.Text) {
		b.deliver(ctx, msg.Chat.ID, msg.MessageID, link)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg, "Send me a TikTok link and I'll fetch the media.\n"+
			"/poll <topic> makes a two-option poll.\n"+
			"/translate (as a reply) translates the replied-to message.")
	case "poll":
		b.handlePoll(ctx, msg)
	case "translate":
		b.handleTranslate(ctx, msg)
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID

	if _, err := b.api.Send(out); err != nil {
		log.Errorf("reply: %s", err)
	}
}

func (b *Bot) handleTranslate(ctx context.Context, msg *tgbotapi.Message) {
	if msg.ReplyToMessage == nil || strings.TrimSpace(msg.ReplyToMessage.Text) == "" {
		b.reply(msg, "Reply to a text message with /translate.")
		return
	}

	target := b.translateTo
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		target = arg
	}

	translated, err := b.translateText(ctx, msg.ReplyToMessage.Text, target)
	if err != nil {
		log.Errorf("translate: %s", err)
		b.notifyError(msg.Chat.ID, "Couldn't translate that, sorry.")
		return
	}

	b.reply(msg.ReplyToMessage, translated)
}
