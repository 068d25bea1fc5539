package handlers

import (
	"time"

	"xanddash/config"
	"xanddash/models"
	"xanddash/services"
)

// NodeSource is the live node list the node endpoints read from. The poller
// satisfies it in production; tests inject a fixed list.
type NodeSource interface {
	Nodes() []*models.Node
	LastPoll() time.Time
	LastResult() models.FetchResult
	Refresh()
}

type Handler struct {
	Cfg        *config.Config
	Cache      *services.CacheService
	Source     NodeSource
	Aggregator *services.DataAggregator
	Backend    *services.BackendClient
	Credits    *services.CreditsService
	History    *services.HistoryService
	Alerts     *services.AlertService
	Insight    *services.InsightService
	Swap       *services.SwapService
	Settings   *services.SettingsStore
	Calculator *services.CalculatorService

	startTime time.Time
}

func NewHandler(
	cfg *config.Config,
	cache *services.CacheService,
	source NodeSource,
	aggregator *services.DataAggregator,
	backend *services.BackendClient,
	credits *services.CreditsService,
	history *services.HistoryService,
	alerts *services.AlertService,
	insight *services.InsightService,
	swap *services.SwapService,
	settings *services.SettingsStore,
	calculator *services.CalculatorService,
) *Handler {
	return &Handler{
		Cfg:        cfg,
		Cache:      cache,
		Source:     source,
		Aggregator: aggregator,
		Backend:    backend,
		Credits:    credits,
		History:    history,
		Alerts:     alerts,
		Insight:    insight,
		Swap:       swap,
		Settings:   settings,
		Calculator: calculator,
		startTime:  time.Now(),
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

type NodesResponse struct {
	Nodes      []*models.Node `json:"nodes"`
	Pagination PaginationMeta `json:"pagination"`
}
