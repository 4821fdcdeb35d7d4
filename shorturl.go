// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

package flickrtag

import (
	"fmt"
	"strings"
)

// base58Alphabet is Flickr's base58 alphabet: the usual confusable
// characters 0, O, I and l are omitted.
const base58Alphabet = "123456789abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"

// ShortURLPrefix is the base of Flickr's photo short URLs.
const ShortURLPrefix = "https://flic.kr/p/"

// EncodeShortID encodes a numeric photo ID into its short-URL code.
func EncodeShortID(id uint64) string {
	if id == 0 {
		return string(base58Alphabet[0])
	}
	var b []byte
	for id > 0 {
		b = append([]byte{base58Alphabet[id%58]}, b...)
		id /= 58
	}
	return string(b)
}

// DecodeShortID decodes a short-URL code into the numeric photo ID.
func DecodeShortID(code string) (uint64, error) {
	if code == "" {
		return 0, fmt.Errorf("empty short URL code")
	}
	var id uint64
	for _, c := range code {
		i := strings.IndexRune(base58Alphabet, c)
		if i < 0 {
			return 0, fmt.Errorf("invalid character %q in short URL code %q", c, code)
		}
		id = id*58 + uint64(i)
	}
	return id, nil
}

// ShortURL returns the flic.kr short URL for a numeric photo ID.
func ShortURL(id uint64) string {
	return ShortURLPrefix + EncodeShortID(id)
}
