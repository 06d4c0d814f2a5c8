package gateways

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChecksumVerifier(t *testing.T) {
	tmpDir := t.TempDir()
	manifest := filepath.Join(tmpDir, "lupuscare.yaml")
	if err := os.WriteFile(manifest, []byte("abc"), 0600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	verifier := NewChecksumVerifier()

	got, err := verifier.CalculateChecksum(manifest)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if got != want {
		t.Errorf("CalculateChecksum() = %s, want %s", got, want)
	}

	tests := map[string]struct {
		sum     string
		wantErr string
	}{
		"exact":        {sum: want},
		"prefixed":     {sum: "sha256:" + want},
		"upper case":   {sum: strings.ToUpper(want)},
		"mismatch":     {sum: strings.Repeat("0", 64), wantErr: "checksum mismatch"},
		"empty":        {sum: "", wantErr: "checksum mismatch"},
		"with newline": {sum: want + "\n"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := verifier.VerifyChecksum(context.Background(), manifest, tt.sum)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("VerifyChecksum() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("VerifyChecksum() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestChecksumVerifier_Errors(t *testing.T) {
	verifier := NewChecksumVerifier()

	if _, err := verifier.CalculateChecksum(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("CalculateChecksum() should fail for a missing file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := verifier.VerifyChecksum(ctx, "unused", "00"); err == nil {
		t.Error("VerifyChecksum() should fail for a canceled context")
	}
}
