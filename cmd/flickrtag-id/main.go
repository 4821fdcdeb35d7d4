// Copyright 2026 The flickrtag authors.
// SPDX-License-Identifier: Apache-2.0

// The flickrtag-id tool resolves a photo short URL (or photo page URL) to
// the provider's photo ID, or with -encode turns a numeric photo ID back
// into its short URL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/flickrtag/flickrtag"
)

var encode = flag.Bool("encode", false, "treat the argument as a numeric photo ID and print its short URL")

func main() {
	flag.Parse()
	arg := flag.Arg(0)

	out, err := run(arg, *encode)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func run(arg string, encode bool) (string, error) {
	if arg == "" {
		return "", errors.New("flickrtag-id [-encode] url-or-id")
	}

	if encode {
		id, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid photo ID %q: %w", arg, err)
		}
		return flickrtag.ShortURL(id), nil
	}

	client := flickrtag.NewClient(nil, "", nil)
	id, err := client.ResolveID(context.Background(), arg)
	if err != nil {
		return "", err
	}
	return id, nil
}
