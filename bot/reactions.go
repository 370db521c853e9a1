package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/karrtopelka/drill-bot/store"
)

const reactionPrefix = "react:"

// reactionKeyboard builds the like/dislike row shown under delivered media.
func reactionKeyboard(likes, dislikes int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(reactionLabel("👍", likes), reactionPrefix+store.Like),
			tgbotapi.NewInlineKeyboardButtonData(reactionLabel("👎", dislikes), reactionPrefix+store.Dislike),
		),
	)
}

func reactionLabel(icon string, count int) string {
	if count == 0 {
		return icon
	}
	return fmt.Sprintf("%s %d", icon, count)
}

func (b *Bot) handleReaction(query *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			log.Errorf("callback ack: %s", err)
		}
	}()

	if query.Message == nil || !strings.HasPrefix(query.Data, reactionPrefix) {
		return
	}

	var (
		kind      = strings.TrimPrefix(query.Data, reactionPrefix)
		chatID    = query.Message.Chat.ID
		messageID = query.Message.MessageID
	)

	if _, err := b.store.React(chatID, messageID, query.From.ID, kind); err != nil {
		log.Errorf("reaction: %s", err)
		return
	}

	likes, dislikes, err := b.store.Counts(chatID, messageID)
	if err != nil {
		log.Errorf("reaction counts: %s", err)
		return
	}

	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, reactionKeyboard(likes, dislikes))
	if _, err = b.api.Request(edit); err != nil {
		log.Errorf("reaction keyboard: %s", err)
	}
}
