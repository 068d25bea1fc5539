package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"xanddash/config"
	"xanddash/models"
	"xanddash/pipeline"
)

// CreditsService polls the external pod-credits feed and keeps the latest
// snapshot keyed by normalized node id. When the feed is unavailable the last
// good snapshot keeps serving (or all-zero credits before the first success)
// so the node pipeline degrades instead of failing.
type CreditsService struct {
	cfg        *config.Config
	httpClient *http.Client

	mu      sync.RWMutex
	credits map[string]*models.PodCredits

	stopChan chan struct{}
}

func NewCreditsService(cfg *config.Config) *CreditsService {
	return &CreditsService{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		credits:  make(map[string]*models.PodCredits),
		stopChan: make(chan struct{}),
	}
}

func (cs *CreditsService) Start() {
	interval := cs.cfg.CreditsIntervalDuration()
	if interval <= 0 {
		interval = 30 * time.Second
	}
	log.Printf("Starting Credits Service (updates every %s)...", interval)

	cs.fetchCredits() // Initial fetch

	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ticker.C:
				cs.fetchCredits()
			case <-cs.stopChan:
				ticker.Stop()
				log.Println("Credits Service stopped")
				return
			}
		}
	}()
}

func (cs *CreditsService) Stop() {
	close(cs.stopChan)
}

func (cs *CreditsService) endpoint() string {
	return fmt.Sprintf("%s/api/pods-credits?network=%s",
		cs.cfg.Credits.BaseURL, url.QueryEscape(cs.cfg.Credits.Network))
}

func (cs *CreditsService) fetchCredits() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cs.endpoint(), nil)
	if err != nil {
		log.Printf("Error creating credits request: %v", err)
		return
	}

	resp, err := cs.httpClient.Do(req)
	if err != nil {
		log.Printf("Error fetching pod credits: %v (keeping last snapshot)", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Pod credits feed returned status %d (keeping last snapshot)", resp.StatusCode)
		return
	}

	var creditsResp models.PodCreditsResponse
	if err := json.NewDecoder(resp.Body).Decode(&creditsResp); err != nil {
		log.Printf("Error decoding credits response: %v", err)
		return
	}

	// Rank by credits descending; the feed is not guaranteed to be sorted
	entries := creditsResp.PodsCredits
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Credits > entries[j].Credits
	})

	cs.mu.Lock()
	defer cs.mu.Unlock()

	newCredits := make(map[string]*models.PodCredits, len(entries))
	for i, entry := range entries {
		key := pipeline.NormalizeID(entry.PodID)

		oldCredits := int64(0)
		if existing, exists := cs.credits[key]; exists {
			oldCredits = existing.Credits
		}

		// Duplicate pod ids: last entry wins, same as the merge stage
		newCredits[key] = &models.PodCredits{
			PodID:         entry.PodID,
			Credits:       entry.Credits,
			Rank:          i + 1,
			CreditsChange: entry.Credits - oldCredits,
			LastUpdated:   time.Now(),
		}
	}

	cs.credits = newCredits
	log.Printf("Updated pod credits: %d nodes tracked", len(cs.credits))
}

// Entries returns the current snapshot in the wire shape the merge stage
// consumes.
func (cs *CreditsService) Entries() []models.PodCreditsEntry {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]models.PodCreditsEntry, 0, len(cs.credits))
	for _, c := range cs.credits {
		out = append(out, models.PodCreditsEntry{PodID: c.PodID, Credits: c.Credits})
	}
	return out
}

// GetCredits returns credits for one node id (normalized match).
func (cs *CreditsService) GetCredits(id string) (*models.PodCredits, bool) {
	if id == "" {
		return nil, false
	}

	cs.mu.RLock()
	defer cs.mu.RUnlock()

	c, exists := cs.credits[pipeline.NormalizeID(id)]
	return c, exists
}

// GetAllCredits returns all tracked credits sorted by rank.
func (cs *CreditsService) GetAllCredits() []*models.PodCredits {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	result := make([]*models.PodCredits, 0, len(cs.credits))
	for _, c := range cs.credits {
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Rank < result[j].Rank
	})

	return result
}

// GetTopCredits returns the top N nodes by credits.
func (cs *CreditsService) GetTopCredits(limit int) []*models.PodCredits {
	all := cs.GetAllCredits()
	if limit > len(all) {
		limit = len(all)
	}
	if limit < 0 {
		limit = 0
	}
	return all[:limit]
}
