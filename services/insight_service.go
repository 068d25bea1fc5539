package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"xanddash/config"
	"xanddash/models"
)

// InsightService produces a per-node risk assessment through Gemini. Any
// failure, from a missing API key to an unparsable model reply, degrades to a
// fixed neutral assessment instead of surfacing an error.
type InsightService struct {
	cfg    *config.Config
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewInsightService(cfg *config.Config) *InsightService {
	svc := &InsightService{cfg: cfg}

	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️ Gemini API key not configured, insight endpoint serves fallback assessments")
		return svc
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.Gemini.APIKey))
	if err != nil {
		log.Printf("⚠️ Failed to create Gemini client: %v (insight endpoint serves fallback assessments)", err)
		return svc
	}

	svc.client = client
	svc.model = client.GenerativeModel(cfg.Gemini.Model)
	log.Printf("✓ Gemini insight service ready (model: %s)", cfg.Gemini.Model)
	return svc
}

// fallbackInsight is the fixed neutral assessment served whenever the model
// cannot be reached or its reply cannot be used.
func fallbackInsight() *models.InsightResult {
	return &models.InsightResult{
		RiskScore:   50,
		Explanation: "AI analysis is temporarily unavailable. This is a neutral baseline assessment.",
		Summary:     "Insight generation degraded, showing default risk estimate.",
		Recommendations: []string{
			"Retry the analysis in a few minutes",
			"Review the node's uptime and latency trends manually",
		},
		Degraded: true,
	}
}

// Analyze generates an insight for one node plus its recent history.
func (is *InsightService) Analyze(ctx context.Context, req *models.InsightRequest) *models.InsightResult {
	if is.model == nil || req == nil || req.PNodeData == nil {
		return fallbackInsight()
	}

	ctx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	resp, err := is.model.GenerateContent(ctx, genai.Text(is.buildPrompt(req)))
	if err != nil {
		log.Printf("Gemini request failed: %v (serving fallback insight)", err)
		return fallbackInsight()
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini returned no content (serving fallback insight)")
		return fallbackInsight()
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		log.Println("Unexpected Gemini response format (serving fallback insight)")
		return fallbackInsight()
	}

	result, err := parseInsightJSON(string(text))
	if err != nil {
		log.Printf("Could not parse Gemini reply: %v (serving fallback insight)", err)
		return fallbackInsight()
	}
	return result
}

func (is *InsightService) buildPrompt(req *models.InsightRequest) string {
	node := req.PNodeData

	var b strings.Builder
	b.WriteString("You are an analyst for the Xandeum decentralized storage network.\n")
	b.WriteString("Assess the operational risk of the following pNode.\n\n")
	b.WriteString("Node data:\n")
	fmt.Fprintf(&b, "Name: %s\n", node.Name)
	fmt.Fprintf(&b, "Status: %s\n", node.Status)
	fmt.Fprintf(&b, "Uptime: %d s\n", node.Uptime)
	fmt.Fprintf(&b, "Latency: %d ms\n", node.Latency)
	fmt.Fprintf(&b, "CPU: %.2f%%\n", node.CPUPercent)
	fmt.Fprintf(&b, "Storage: %d / %d bytes\n", node.StorageUsed, node.StorageCapacity)
	fmt.Fprintf(&b, "Credits: %d\n", node.Credits)
	fmt.Fprintf(&b, "XDN Score: %.2f\n", node.XDNScore)
	fmt.Fprintf(&b, "Version: %s (%s)\n", node.Version, node.VersionStatus)

	if len(req.History) > 0 {
		b.WriteString("\nRecent snapshots (oldest first):\n")
		for _, snap := range req.History {
			fmt.Fprintf(&b, "- %s status=%s latency=%dms cpu=%.1f%% credits=%d\n",
				snap.Timestamp.Format(time.RFC3339), snap.Status, snap.Latency, snap.CPUPercent, snap.Credits)
		}
	}

	b.WriteString(`
Reply with ONLY a JSON object, no markdown fences, with exactly these fields:
{"riskScore": <0-100 number>, "explanation": "<2-3 sentences>", "summary": "<one sentence>", "recommendations": ["<action>", "<action>"]}
`)
	return b.String()
}

// parseInsightJSON extracts the JSON object from a model reply, tolerating
// markdown code fences and surrounding prose.
func parseInsightJSON(text string) (*models.InsightResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in reply")
	}

	var result models.InsightResult
	if err := json.Unmarshal([]byte(text[start:end+1]), &result); err != nil {
		return nil, err
	}

	if result.RiskScore < 0 {
		result.RiskScore = 0
	}
	if result.RiskScore > 100 {
		result.RiskScore = 100
	}
	if result.Explanation == "" {
		return nil, fmt.Errorf("reply missing explanation")
	}
	return &result, nil
}

func (is *InsightService) Close() {
	if is.client != nil {
		is.client.Close()
	}
}
