package services

import (
	"context"
	"strings"
	"testing"

	"xanddash/config"
	"xanddash/models"
)

func TestAnalyzeWithoutModelServesFallback(t *testing.T) {
	// No API key configured, so no Gemini client exists
	is := NewInsightService(&config.Config{})

	req := &models.InsightRequest{PNodeData: &models.Node{ID: "n1", Name: "alpha"}}
	got := is.Analyze(context.Background(), req)

	if !got.Degraded {
		t.Error("expected degraded result without a configured model")
	}
	if got.RiskScore != 50 {
		t.Errorf("fallback RiskScore = %f, want 50", got.RiskScore)
	}
	if got.Explanation == "" || got.Summary == "" || len(got.Recommendations) == 0 {
		t.Errorf("fallback payload incomplete: %+v", got)
	}
}

func TestAnalyzeNilRequestServesFallback(t *testing.T) {
	is := NewInsightService(&config.Config{})

	for _, req := range []*models.InsightRequest{nil, {}} {
		got := is.Analyze(context.Background(), req)
		if !got.Degraded || got.RiskScore != 50 {
			t.Errorf("request %+v: got %+v, want the fixed degraded assessment", req, got)
		}
	}
}

func TestParseInsightJSON(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantErr  bool
		wantRisk float64
	}{
		{
			name:     "plain object",
			text:     `{"riskScore": 30, "explanation": "fine", "summary": "ok", "recommendations": ["a"]}`,
			wantRisk: 30,
		},
		{
			name:     "markdown fenced",
			text:     "```json\n{\"riskScore\": 72, \"explanation\": \"elevated latency\", \"summary\": \"s\"}\n```",
			wantRisk: 72,
		},
		{
			name:     "surrounded by prose",
			text:     "Here is the assessment you asked for:\n{\"riskScore\": 10, \"explanation\": \"healthy\", \"summary\": \"s\"}\nLet me know if you need more.",
			wantRisk: 10,
		},
		{
			name:     "risk score clamped high",
			text:     `{"riskScore": 250, "explanation": "x", "summary": "s"}`,
			wantRisk: 100,
		},
		{
			name:     "risk score clamped low",
			text:     `{"riskScore": -5, "explanation": "x", "summary": "s"}`,
			wantRisk: 0,
		},
		{
			name:    "missing explanation rejected",
			text:    `{"riskScore": 40, "summary": "s"}`,
			wantErr: true,
		},
		{
			name:    "no JSON object",
			text:    "the model refused to answer",
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			text:    `{"riskScore": 40, "explanation":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInsightJSON(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseInsightJSON: %v", err)
			}
			if got.RiskScore != tt.wantRisk {
				t.Errorf("RiskScore = %f, want %f", got.RiskScore, tt.wantRisk)
			}
			if got.Degraded {
				t.Error("parsed result must not be marked degraded")
			}
		})
	}
}

func TestBuildPromptIncludesNodeAndHistory(t *testing.T) {
	is := NewInsightService(&config.Config{})

	req := &models.InsightRequest{
		PNodeData: &models.Node{ID: "n1", Name: "alpha", Status: models.StatusActive, Latency: 42},
		History:   []models.NodeSnapshot{{NodeID: "n1", Status: models.StatusWarning, Latency: 900}},
	}

	prompt := is.buildPrompt(req)
	for _, want := range []string{"alpha", "42", "900", "riskScore"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
