package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
		wantErr   bool
	}{
		{name: "plain decimal", input: "25.50", wantCents: 2550},
		{name: "integer", input: "120", wantCents: 12000},
		{name: "single decimal place", input: "9.9", wantCents: 990},
		{name: "rounds half up", input: "1.005", wantCents: 101},
		{name: "rounds down", input: "1.004", wantCents: 100},
		{name: "smallest amount", input: "0.01", wantCents: 1},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-5.00", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) = %v, want error", tt.input, got)
				}
				if !IsValidation(err) {
					t.Errorf("ParseAmount(%q) error = %v, want ValidationError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			if got.Cents != tt.wantCents {
				t.Errorf("ParseAmount(%q) = %d cents, want %d", tt.input, got.Cents, tt.wantCents)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{2550, "25.50"},
		{100, "1.00"},
		{1, "0.01"},
		{123456, "1234.56"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyAdd(t *testing.T) {
	got := Money{Cents: 2550}.Add(Money{Cents: 450})
	if got.Cents != 3000 {
		t.Errorf("Add = %d cents, want 3000", got.Cents)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 2550})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "25.50" {
		t.Errorf("marshal = %s, want 25.50", b)
	}

	var fromNumber Money
	if err := json.Unmarshal([]byte("25.50"), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if fromNumber.Cents != 2550 {
		t.Errorf("unmarshal number = %d cents, want 2550", fromNumber.Cents)
	}

	var fromString Money
	if err := json.Unmarshal([]byte(`"12.34"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.Cents != 1234 {
		t.Errorf("unmarshal string = %d cents, want 1234", fromString.Cents)
	}

	var bad Money
	if err := json.Unmarshal([]byte(`"-1.00"`), &bad); err == nil {
		t.Error("unmarshal negative amount succeeded, want error")
	}
}
