// Package translate renders captions into the configured target language.
package translate

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/karrtopelka/drill-bot/filesystem"
	"github.com/karrtopelka/drill-bot/llm"
	"github.com/karrtopelka/drill-bot/where"
	"github.com/metafates/gache"
)

var cacher = gache.New[map[string]string](&gache.Options{
	Path:       where.Translations(),
	Lifetime:   time.Hour * 24 * 30,
	FileSystem: &filesystem.GacheFs{},
})

// Completer is the slice of the llm client that translation needs.
type Completer interface {
	Complete(ctx context.Context, r llm.Request) (*llm.Result, error)
}

func cacheKey(text, target string) string {
	sum := sha1.Sum([]byte(target + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

const translatePrompt = "You translate short social media captions. " +
	"Reply with the translation only, no quotes, no commentary. " +
	"Keep hashtags and emoji as they are."

// Text translates the given text into the target language, consulting
// the on-disk cache first. Empty input is returned untouched.
func Text(ctx context.Context, client Completer, text, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	key := cacheKey(text, target)

	cached, expired, err := cacher.Get()
	if err == nil && !expired {
		if translated, ok := cached[key]; ok {
			return translated, nil
		}
	}

	result, err := client.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: translatePrompt},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Translate into %s:\n%s", target, text)},
		},
	})
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(result.Text)
	if translated == "" {
		return "", fmt.Errorf("empty translation for %q", text)
	}

	if cached == nil {
		cached = make(map[string]string)
	}
	cached[key] = translated
	_ = cacher.Set(cached)

	return translated, nil
}
