package cast

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/internal/cache"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/network"
	"github.com/castsync/castsync/util"
)

// IsRemote reports whether source is fetched over HTTP rather than read from the filesystem.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

var asciinemaPage = regexp.MustCompile(`^https?://asciinema\.org/a/[A-Za-z0-9]+/?$`)

// ResolveURL maps an asciinema.org recording page to the raw recording it shows.
func ResolveURL(source string) string {
	if asciinemaPage.MatchString(source) {
		return strings.TrimSuffix(source, "/") + ".cast"
	}
	return source
}

// Load reads and parses the recording at source, a local path or an http(s) URL.
func Load(ctx context.Context, source string) (*Recording, error) {
	if IsRemote(source) {
		target := ResolveURL(source)
		body, ok := cache.Read(target)
		if !ok {
			var err error
			if body, err = network.Fetch(ctx, target); err != nil {
				return nil, err
			}
			if err := cache.Write(target, body); err != nil {
				log.Warnf("cache %s: %v", target, err)
			}
		}

		rec, err := Parse(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		return rec, nil
	}

	file, err := filesystem.API().Open(source)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer util.Ignore(file.Close)

	rec, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	return rec, nil
}
