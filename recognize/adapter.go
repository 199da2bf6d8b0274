package recognize

import (
	"context"
	"log/slog"
	"os"

	"github.com/shuntapp/shunt/config"
	"github.com/shuntapp/shunt/screenshot"
)

// Adapter is the recognition boundary consumed by the detector loop.
// Implementations must be safe to call repeatedly; latency may vary.
type Adapter interface {
	// BattleStarted probes the dialogue region for an encounter announcement.
	BattleStarted(ctx context.Context) (bool, error)
	// Names probes the headline region and returns canonical creature names,
	// empty when nothing is recognized.
	Names(ctx context.Context) ([]string, error)
}

// ScreenAdapter recognizes encounters from live screen captures.
type ScreenAdapter struct {
	dialogue config.Region
	headline config.Region
	debug    bool
}

// NewScreenAdapter builds the production adapter from configuration.
func NewScreenAdapter(cfg *config.Config) *ScreenAdapter {
	return &ScreenAdapter{
		dialogue: cfg.DialogueRegion,
		headline: cfg.HeadlineRegion,
		debug:    cfg.Debug,
	}
}

// BattleStarted probes the dialogue region for an encounter announcement.
func (a *ScreenAdapter) BattleStarted(ctx context.Context) (bool, error) {
	lines, err := a.capture(ctx, a.dialogue)
	if err != nil {
		return false, err
	}
	return ParseBattleStart(lines), nil
}

// Names probes the headline region and returns canonical creature names.
func (a *ScreenAdapter) Names(ctx context.Context) ([]string, error) {
	lines, err := a.capture(ctx, a.headline)
	if err != nil {
		return nil, err
	}
	return CanonicalAll(ParseNames(lines)), nil
}

func (a *ScreenAdapter) capture(ctx context.Context, region config.Region) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := screenshot.CaptureRegion(region)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	if a.debug {
		slog.Debug("kept capture for inspection", "path", path)
	} else {
		defer os.Remove(path)
	}

	return Lines(path)
}
