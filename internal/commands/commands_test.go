package commands

import (
	"strings"
	"testing"
)

func TestParse_NonSlashCommand(t *testing.T) {
	tests := []string{
		"hello world",
		"",
		"   ",
		"help",
		"classify this sentence",
	}

	for _, input := range tests {
		result := Parse(input)
		if result != nil {
			t.Errorf("Parse(%q) = %v, want nil", input, result)
		}
	}
}

func TestParse_Help(t *testing.T) {
	tests := []string{
		"/help",
		"/HELP",
		"/Help",
		"  /help  ",
	}

	for _, input := range tests {
		result := Parse(input)
		if _, ok := result.(Help); !ok {
			t.Errorf("Parse(%q) = %T, want Help", input, result)
		}
	}
}

func TestParse_SetTask(t *testing.T) {
	result := Parse("/task Text-Generation")
	cmd, ok := result.(SetTask)
	if !ok {
		t.Fatalf("Parse(/task) = %T, want SetTask", result)
	}
	if cmd.Tag != "text-generation" {
		t.Errorf("expected lowercased tag, got %q", cmd.Tag)
	}

	if _, ok := Parse("/task").(ParseError); !ok {
		t.Error("/task without arg should be a ParseError")
	}
}

func TestParse_PickModel(t *testing.T) {
	result := Parse("/model meta-llama/Llama-3.2-3B-Instruct")
	cmd, ok := result.(PickModel)
	if !ok {
		t.Fatalf("Parse(/model) = %T, want PickModel", result)
	}
	if cmd.ID != "meta-llama/Llama-3.2-3B-Instruct" {
		t.Errorf("unexpected model ID %q", cmd.ID)
	}

	// Bare /model opens the picker
	cmd, ok = Parse("/model").(PickModel)
	if !ok || cmd.ID != "" {
		t.Error("bare /model should parse with empty ID")
	}
}

func TestParse_SetKey(t *testing.T) {
	result := Parse("/key hf_abc123")
	cmd, ok := result.(SetKey)
	if !ok {
		t.Fatalf("Parse(/key) = %T, want SetKey", result)
	}
	if cmd.Token != "hf_abc123" {
		t.Errorf("unexpected token %q", cmd.Token)
	}

	if _, ok := Parse("/key").(ParseError); !ok {
		t.Error("/key without arg should be a ParseError")
	}
}

func TestParse_AttachImage(t *testing.T) {
	result := Parse("/image /home/user/my photos/cat.png")
	cmd, ok := result.(AttachImage)
	if !ok {
		t.Fatalf("Parse(/image) = %T, want AttachImage", result)
	}
	if cmd.Path != "/home/user/my photos/cat.png" {
		t.Errorf("expected path with spaces preserved, got %q", cmd.Path)
	}
}

func TestParse_Simple(t *testing.T) {
	cases := map[string]string{
		"/verify":  "verify",
		"/refresh": "refresh",
		"/card":    "card",
		"/export":  "export",
		"/quit":    "quit",
		"/exit":    "quit",
	}
	for input, wantType := range cases {
		result := Parse(input)
		if result == nil || result.Type() != wantType {
			t.Errorf("Parse(%q) = %v, want type %q", input, result, wantType)
		}
	}
}

func TestParse_Unknown(t *testing.T) {
	result := Parse("/bogus")
	perr, ok := result.(ParseError)
	if !ok {
		t.Fatalf("Parse(/bogus) = %T, want ParseError", result)
	}
	if !strings.Contains(perr.Message, "/bogus") {
		t.Errorf("error should name the command, got %q", perr.Message)
	}
}
