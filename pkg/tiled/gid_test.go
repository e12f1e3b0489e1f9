package tiled_test

import (
	"testing"

	"github.com/Faultbox/tiledmap/pkg/tiled"
)

func TestGlobalTileIDFlags(t *testing.T) {
	tests := []struct {
		gid       tiled.GlobalTileID
		wantID    uint32
		wantFlags tiled.GlobalTileID
		wantStr   string
	}{
		{0, 0, 0, "0"},
		{5, 5, 0, "5"},
		{5 | tiled.FlipHorizontal, 5, tiled.FlipHorizontal, "5[H]"},
		{5 | tiled.FlipHorizontal | tiled.FlipVertical, 5, tiled.FlipHorizontal | tiled.FlipVertical, "5[HV]"},
		{7 | tiled.FlipDiagonal | tiled.RotateHex120, 7, tiled.FlipDiagonal | tiled.RotateHex120, "7[DR]"},
		{tiled.FlipMask, 0, tiled.FlipMask, "0[HVDR]"},
	}

	for _, tc := range tests {
		if got := tc.gid.ID(); got != tc.wantID {
			t.Errorf("%#x: expected id %d, got %d", uint32(tc.gid), tc.wantID, got)
		}
		if got := tc.gid.Flags(); got != tc.wantFlags {
			t.Errorf("%#x: expected flags %#x, got %#x", uint32(tc.gid), uint32(tc.wantFlags), uint32(got))
		}
		if got := tc.gid.String(); got != tc.wantStr {
			t.Errorf("%#x: expected %q, got %q", uint32(tc.gid), tc.wantStr, got)
		}
	}
}

func TestGlobalTileIDEmpty(t *testing.T) {
	if !tiled.GlobalTileID(0).IsEmpty() {
		t.Error("expected 0 to be empty")
	}
	// A flipped zero still draws nothing.
	if !(tiled.FlipHorizontal | tiled.FlipVertical).IsEmpty() {
		t.Error("expected flagged 0 to be empty")
	}
	if tiled.GlobalTileID(1).IsEmpty() {
		t.Error("expected 1 to be non-empty")
	}
}
