package config

import "testing"

func TestGetActionKey(t *testing.T) {
	kb := DefaultKeybindings()

	tests := []struct {
		action string
		want   string
	}{
		{"attach_image", "alt+a"},
		{"detach_image", "alt+A"},
		{"clear_conversation", "alt+l"},
		{"search_down", "down"},
		{"missing_action", ""},
	}

	for _, tt := range tests {
		if got := kb.GetActionKey(tt.action); got != tt.want {
			t.Errorf("GetActionKey(%q) = %q, want %q", tt.action, got, tt.want)
		}
	}
}

func TestGetActionKeyOverride(t *testing.T) {
	kb := DefaultKeybindings()
	kb.Actions = map[string]string{"attach_image": "ctrl+o"}

	if got := kb.GetActionKey("attach_image"); got != "ctrl+o" {
		t.Errorf("override ignored, got %q", got)
	}
}

func TestCtrlModifiers(t *testing.T) {
	kb := &KeyBindingsConfig{Modifiers: ModifierConfig{Primary: "ctrl", Secondary: "ctrl+shift"}}

	if got := kb.GetActionKey("help"); got != "ctrl+h" {
		t.Errorf("help = %q, want ctrl+h", got)
	}
	if got := kb.GetActionKey("half_page_down"); got != "ctrl+J" {
		t.Errorf("half_page_down = %q, want ctrl+J", got)
	}
}

func TestDisplayActionKey(t *testing.T) {
	kb := DefaultKeybindings()

	if got := kb.DisplayActionKey("attach_image"); got != "Alt+A" {
		t.Errorf("DisplayActionKey(attach_image) = %q, want Alt+A", got)
	}
	if got := kb.DisplayActionKey("detach_image"); got != "Alt+Shift+A" {
		t.Errorf("DisplayActionKey(detach_image) = %q, want Alt+Shift+A", got)
	}
}

func TestLoadKeybindingsFillsModifiers(t *testing.T) {
	dir := t.TempDir()
	if err := CreateDefaultKeybindings(dir); err != nil {
		t.Fatal(err)
	}

	kb, err := LoadKeybindings(dir)
	if err != nil {
		t.Fatalf("LoadKeybindings() error = %v", err)
	}
	if kb.Primary() != "alt" || kb.Secondary() != "alt+shift" {
		t.Errorf("modifiers = %q/%q", kb.Primary(), kb.Secondary())
	}
}
