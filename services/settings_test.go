package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestSettingsStoreRoundTrip(t *testing.T) {
	store := NewSettingsStore(NewMemorySettingsBackend())
	ctx := context.Background()

	theme := json.RawMessage(`{"mode":"dark"}`)
	if err := store.Set(ctx, SettingTheme, theme); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := store.Get(ctx, SettingTheme)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(theme) {
		t.Errorf("got %s, want %s", got, theme)
	}
}

func TestSettingsStoreMissingKey(t *testing.T) {
	store := NewSettingsStore(NewMemorySettingsBackend())

	_, err := store.Get(context.Background(), SettingWidgetLayout)
	if !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound, got %v", err)
	}
}

func TestSettingsStoreRejectsInvalidJSON(t *testing.T) {
	store := NewSettingsStore(NewMemorySettingsBackend())

	if err := store.Set(context.Background(), SettingTheme, json.RawMessage(`{"mode":`)); err == nil {
		t.Error("expected error for invalid JSON value")
	}
}

func TestSettingsStoreMigratesV1Bookmarks(t *testing.T) {
	backend := NewMemorySettingsBackend()
	store := NewSettingsStore(backend)
	ctx := context.Background()

	// Seed a v1 envelope: bookmarks were a bare id array
	v1, _ := json.Marshal(settingsEnvelope{Version: 1, Data: json.RawMessage(`["node-a","node-b"]`)})
	if err := backend.Set(ctx, SettingBookmarks, v1); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := store.Get(ctx, SettingBookmarks)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	var marks []struct {
		NodeID string `json:"nodeId"`
	}
	if err := json.Unmarshal(got, &marks); err != nil {
		t.Fatalf("migrated payload not object array: %v", err)
	}
	if len(marks) != 2 || marks[0].NodeID != "node-a" || marks[1].NodeID != "node-b" {
		t.Errorf("unexpected migrated bookmarks: %+v", marks)
	}

	// The migrated shape is written back at the current version
	raw, err := backend.Get(ctx, SettingBookmarks)
	if err != nil {
		t.Fatalf("backend read: %v", err)
	}
	var env settingsEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if env.Version != settingsVersion {
		t.Errorf("stored version = %d, want %d", env.Version, settingsVersion)
	}
}

func TestSettingsStoreIgnoresNewerVersions(t *testing.T) {
	backend := NewMemorySettingsBackend()
	store := NewSettingsStore(backend)
	ctx := context.Background()

	future, _ := json.Marshal(settingsEnvelope{Version: settingsVersion + 1, Data: json.RawMessage(`{}`)})
	if err := backend.Set(ctx, SettingTheme, future); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := store.Get(ctx, SettingTheme)
	if !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound for future version, got %v", err)
	}
}

func TestSettingsStoreDelete(t *testing.T) {
	store := NewSettingsStore(NewMemorySettingsBackend())
	ctx := context.Background()

	if err := store.Set(ctx, SettingDismissals, json.RawMessage(`["banner-1"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, SettingDismissals); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, SettingDismissals); !errors.Is(err, ErrSettingNotFound) {
		t.Errorf("expected ErrSettingNotFound after delete, got %v", err)
	}
}
