package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/dmorgan81/imagebot/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

var ErrNoPrompts = errors.New("no prompts configured")

type Randomizer struct {
	prompts []string
}

func NewRandomizer(i *do.Injector) (*Randomizer, error) {
	return &Randomizer{prompts: do.MustInvokeNamed[[]string](i, "prompts")}, nil
}

// Randomize picks one of the configured prompts, skipping blank entries.
func (r *Randomizer) Randomize(ctx context.Context) (string, error) {
	log.FromContextOrDiscard(ctx).WithGroup("randomizer").Info("getting random prompt", "choices", len(r.prompts))

	prompts := lo.Filter(r.prompts, func(p string, _ int) bool {
		return strings.TrimSpace(p) != ""
	})
	if len(prompts) == 0 {
		return "", ErrNoPrompts
	}
	return lo.Sample(prompts), nil
}
