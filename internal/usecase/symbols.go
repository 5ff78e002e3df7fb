package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	domrepo "EquiScreen/internal/domain/repository"
	svccache "EquiScreen/internal/service/cache"
	applogger "EquiScreen/pkg/logger"
)

const symbolListTTL = 24 * time.Hour

// universes the resolver expands; anything else is treated as a ticker.
var knownUniverses = map[string]bool{
	"all":    true,
	"sp500":  true,
	"nasdaq": true,
	"nyse":   true,
	"amex":   true,
}

// SymbolsUseCase expands universe names ("all", "sp500", exchange names)
// into concrete ticker sets. Lists are cached so repeated runs over the
// same universe do not hammer the provider.
type SymbolsUseCase struct {
	source domrepo.SymbolSource
	cache  svccache.BytesCache
	l      *applogger.Logger
}

func NewSymbolsUseCase(source domrepo.SymbolSource, cache svccache.BytesCache, l *applogger.Logger) *SymbolsUseCase {
	if cache == nil {
		cache = svccache.NewTTLCache()
	}
	return &SymbolsUseCase{source: source, cache: cache, l: l}
}

// Resolve expands universes and dedupes, preserving first-seen order.
// Tickers are normalized to upper case.
func (uc *SymbolsUseCase) Resolve(ctx context.Context, symbols []string) ([]string, error) {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))

	add := func(sym string) {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" || seen[sym] {
			return
		}
		seen[sym] = true
		out = append(out, sym)
	}

	for _, raw := range symbols {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !knownUniverses[name] {
			add(raw)
			continue
		}
		list, err := uc.universe(ctx, name)
		if err != nil {
			return nil, err
		}
		for _, sym := range list {
			add(sym)
		}
	}
	return out, nil
}

func (uc *SymbolsUseCase) universe(ctx context.Context, name string) ([]string, error) {
	key := "symbols_" + name
	if b, ok, err := uc.cache.GetBytes(key); err == nil && ok {
		var cached []string
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	list, err := uc.source.Symbols(ctx, name)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(list); err == nil {
		if err := uc.cache.SetBytes(key, b, symbolListTTL); err != nil && uc.l != nil {
			uc.l.Warn("caching symbol list failed",
				applogger.String("universe", name),
				applogger.Error(err),
			)
		}
	}
	return list, nil
}
