package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/karrtopelka/drill-bot/log"
)

func (b *Bot) handlePoll(ctx context.Context, msg *tgbotapi.Message) {
	topic := strings.TrimSpace(msg.CommandArguments())

	generated, err := b.llm.GeneratePoll(ctx, topic)
	if err != nil {
		log.Errorf("poll generation: %s", err)
		b.notifyError(msg.Chat.ID, "Couldn't come up with a poll, sorry.")
		return
	}

	poll := tgbotapi.NewPoll(msg.Chat.ID, generated.Question, generated.Options...)
	poll.IsAnonymous = false
	poll.ReplyToMessageID = msg.MessageID

	sent, err := b.api.Send(poll)
	if err != nil {
		log.Errorf("poll send: %s", err)
		b.notifyError(msg.Chat.ID, "Couldn't come up with a poll, sorry.")
		return
	}

	if sent.Poll == nil {
		return
	}

	err = b.store.SavePoll(sent.Poll.ID, msg.Chat.ID, generated.Question, generated.Options[0], generated.Options[1])
	if err != nil {
		log.Errorf("poll save: %s", err)
	}
}

func (b *Bot) handlePollAnswer(answer *tgbotapi.PollAnswer) {
	// A retracted vote arrives with no options, nothing to record.
	if len(answer.OptionIDs) == 0 {
		return
	}

	if err := b.store.Vote(answer.PollID, answer.User.ID, answer.OptionIDs[0]); err != nil {
		log.Errorf("poll vote: %s", err)
	}
}
