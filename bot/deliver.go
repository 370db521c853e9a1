package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/karrtopelka/drill-bot/fetch"
	"github.com/karrtopelka/drill-bot/log"
	"github.com/karrtopelka/drill-bot/media"
	"github.com/karrtopelka/drill-bot/translate"
	"github.com/karrtopelka/drill-bot/util"
	"github.com/sirupsen/logrus"
)

const genericFailureNotice = "Couldn't extract media from that link, sorry."

// deliver runs one link through the full pipeline and sends the outcome
// back to the chat. Every exit path removes the progress placeholder.
func (b *Bot) deliver(ctx context.Context, chatID int64, replyTo int, link string) {
	logger := log.WithFields(map[string]any{
		"task": uuid.NewString(),
		"link": link,
	})

	placeholder, err := b.api.Send(tgbotapi.NewMessage(chatID, "Working on it..."))
	if err != nil {
		logger.Errorf("placeholder: %s", err)
	} else {
		defer b.deleteMessage(chatID, placeholder.MessageID)
	}

	set := b.resolver.Resolve(ctx, link)
	if !set.OK() {
		logger.Warnf("resolution failed: %s", set.Err)
		b.notifyError(chatID, genericFailureNotice)
		return
	}

	plan, err := media.BuildPlan(set, b.albumCap)
	if err != nil {
		logger.Warnf("selection failed: %s", err)
		b.notifyError(chatID, genericFailureNotice)
		return
	}

	caption := b.caption(ctx, set, logger)

	switch {
	case len(plan.Album) > 0:
		err = b.sendAlbum(ctx, chatID, replyTo, plan, caption, logger)
	case plan.Video.IsPresent():
		err = b.sendVideo(ctx, chatID, replyTo, set, plan.Video.MustGet(), caption, logger)
	default:
		err = b.sendAudio(ctx, chatID, replyTo, set, plan.Audio.MustGet(), caption, logger)
	}

	if err != nil {
		logger.Errorf("delivery failed: %s", err)
		b.notifyError(chatID, genericFailureNotice)
		return
	}

	logger.Info("delivered")
}

// caption builds the outgoing caption, translating it when a target
// language is configured. Translation failures fall back to the original.
func (b *Bot) caption(ctx context.Context, set *media.Set, logger *logrus.Entry) string {
	caption := media.Caption(set)

	if b.translateTo == "" {
		return caption
	}

	translated, err := b.translateText(ctx, caption, b.translateTo)
	if err != nil {
		logger.Warnf("caption translation: %s", err)
		return caption
	}
	return translated
}

func (b *Bot) translateText(ctx context.Context, text, target string) (string, error) {
	return translate.Text(ctx, b.llm, text, target)
}

func (b *Bot) sendVideo(ctx context.Context, chatID int64, replyTo int, set *media.Set, item media.Item, caption string, logger *logrus.Entry) error {
	result, err := b.fetcher.Fetch(ctx, item.SourceURL)
	if err != nil {
		return err
	}
	logger.Debugf("video fetched via %s strategy", result.Strategy)

	video := tgbotapi.NewVideo(chatID, tgbotapi.FileBytes{
		Name:  filename(set.Title, item.Extension),
		Bytes: result.Data,
	})
	video.Caption = caption
	video.ReplyToMessageID = replyTo
	video.ReplyMarkup = reactionKeyboard(0, 0)
	if set.Duration > 0 {
		video.Duration = set.Duration
	}

	_, err = b.api.Send(video)
	return err
}

func (b *Bot) sendAudio(ctx context.Context, chatID int64, replyTo int, set *media.Set, item media.Item, caption string, logger *logrus.Entry) error {
	result, err := b.fetcher.Fetch(ctx, item.SourceURL)
	if err != nil {
		return err
	}
	logger.Debugf("audio fetched via %s strategy", result.Strategy)

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{
		Name:  filename(set.Title, item.Extension),
		Bytes: result.Data,
	})
	audio.Caption = caption
	audio.ReplyToMessageID = replyTo
	audio.ReplyMarkup = reactionKeyboard(0, 0)

	_, err = b.api.Send(audio)
	return err
}

// sendAlbum fetches every image concurrently and reassembles the group
// in the original slideshow order. A single failed image aborts the
// whole album, partial albums are never sent.
func (b *Bot) sendAlbum(ctx context.Context, chatID int64, replyTo int, plan *media.Plan, caption string, logger *logrus.Entry) error {
	fetched := make([]*fetch.Result, len(plan.Album))
	errs := make([]error, len(plan.Album))

	var wg sync.WaitGroup
	for i, item := range plan.Album {
		wg.Add(1)
		go func(i int, item media.Item) {
			defer wg.Done()
			fetched[i], errs[i] = b.fetcher.Fetch(ctx, item.SourceURL)
		}(i, item)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("album image %d: %w", i+1, err)
		}
	}
	logger.Debugf("%s fetched for the album", util.Quantify(len(plan.Album), "image", "images"))

	group := make([]interface{}, 0, len(plan.Album))
	for i, item := range plan.Album {
		photo := tgbotapi.NewInputMediaPhoto(tgbotapi.FileBytes{
			Name:  filename(item.Quality, item.Extension),
			Bytes: fetched[i].Data,
		})
		if i == 0 {
			photo.Caption = caption
		}
		group = append(group, photo)
	}

	album := tgbotapi.NewMediaGroup(chatID, group)
	album.ReplyToMessageID = replyTo
	if _, err := b.api.SendMediaGroup(album); err != nil {
		return err
	}

	if plan.Audio.IsPresent() {
		item := plan.Audio.MustGet()
		result, err := b.fetcher.Fetch(ctx, item.SourceURL)
		if err != nil {
			// The album already went out, a missing soundtrack is not fatal.
			logger.Warnf("album audio: %s", err)
			return nil
		}

		audio := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{
			Name:  filename("soundtrack", item.Extension),
			Bytes: result.Data,
		})
		if _, err = b.api.Send(audio); err != nil {
			logger.Warnf("album audio: %s", err)
		}
	}

	return nil
}

func filename(stem, extension string) string {
	stem = util.SanitizeFilename(stem)
	if stem == "" {
		stem = "media"
	}
	return stem + "." + extension
}

// notifyError sends a short notice and schedules its removal so failed
// links don't pile up in the chat.
func (b *Bot) notifyError(chatID int64, text string) {
	notice, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		log.Errorf("error notice: %s", err)
		return
	}

	if b.errorNoticeTTL <= 0 {
		return
	}

	go func() {
		time.Sleep(b.errorNoticeTTL)
		b.deleteMessage(chatID, notice.MessageID)
	}()
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Errorf("delete message %d: %s", messageID, err)
	}
}
