package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/Traves-Theberge/webform-cli"
)

// localFetcher reads targets that are not http(s) URLs from disk and hands
// everything else to next.
type localFetcher struct {
	next webform.Fetcher
}

func (f *localFetcher) Fetch(ctx context.Context, target string) (string, error) {
	if isURL(target) {
		return f.next.Fetch(ctx, target)
	}
	data, err := os.ReadFile(target)
	if errors.Is(err, os.ErrNotExist) {
		return "", webform.Errorf(webform.ENOTFOUND, "file %q not found", target)
	} else if err != nil {
		return "", err
	}
	return string(data), nil
}

func (f *localFetcher) Close() error {
	return f.next.Close()
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}
