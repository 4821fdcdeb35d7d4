// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import "testing"

func TestShortIDCodec(t *testing.T) {
	tests := []struct {
		id   uint64
		code string
	}{
		{0, "1"},
		{1, "2"},
		{57, "Z"},
		{58, "21"},
		{123, "38"},
		{4325695128, "7Afjsu"},
		{16736042621, "ruUAoZ"},
		{23587640800, "BWmPQ5"},
	}

	for _, tt := range tests {
		if got, want := EncodeShortID(tt.id), tt.code; got != want {
			t.Errorf("EncodeShortID(%d) returned %q, want %q", tt.id, got, want)
		}
		id, err := DecodeShortID(tt.code)
		if err != nil {
			t.Errorf("DecodeShortID(%q) returned error: %v", tt.code, err)
			continue
		}
		if got, want := id, tt.id; got != want {
			t.Errorf("DecodeShortID(%q) returned %d, want %d", tt.code, got, want)
		}
	}
}

func TestDecodeShortID_Invalid(t *testing.T) {
	for _, code := range []string{"", "0", "O", "I", "l", "a-b"} {
		if _, err := DecodeShortID(code); err == nil {
			t.Errorf("DecodeShortID(%q) expected error", code)
		}
	}
}

func TestShortURL(t *testing.T) {
	if got, want := ShortURL(4325695128), "https://flic.kr/p/7Afjsu"; got != want {
		t.Errorf("ShortURL returned %q, want %q", got, want)
	}
}
