package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateFrameCount(t *testing.T) {
	tests := []struct {
		frames  int
		wantErr bool
	}{
		{0, false},
		{1, false},
		{24, false},
		{-1, true},
	}

	for _, tt := range tests {
		err := ValidateFrameCount(tt.frames)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFrameCount(%d) error = %v, wantErr %v", tt.frames, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeConfiguration) {
			t.Errorf("ValidateFrameCount(%d) code = %v, want %v", tt.frames, GetCode(err), ErrCodeConfiguration)
		}
	}
}

func TestValidateFraction(t *testing.T) {
	tests := []struct {
		f       float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.0001, true},
		{1.0001, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateFraction(tt.f)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFraction(%v) error = %v, wantErr %v", tt.f, err, tt.wantErr)
		}
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{-1, true},
		{math.Inf(1), true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateThreshold(tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateThreshold(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestValidateOutputDir(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "output", false},
		{"absolute", "/data/blocks", false},
		{"empty", "", true},
		{"control char", "out\x01put", true},
		{"null byte", "out\x00", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputDir(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		prefix  string
		wantErr bool
	}{
		{"CLEVR", false},
		{"blocks-v2", false},
		{"", true},
		{"a/b", true},
		{"a\\b", true},
		{"with_underscore", true},
		{"-leading", true},
	}

	for _, tt := range tests {
		err := ValidatePrefix(tt.prefix)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePrefix(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
		}
	}
}
