package version

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/castsync/castsync/constant"
	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/network"
	"github.com/castsync/castsync/where"
	"github.com/metafates/gache"
)

// releasesURL is overridden in tests.
var releasesURL = "https://api.github.com/repos/" + constant.Repository + "/releases/latest"

var (
	cacherOnce    sync.Once
	versionCacher *gache.Cache[string]
)

func cacher() *gache.Cache[string] {
	cacherOnce.Do(func() {
		versionCacher = gache.New[string](&gache.Options{
			Path:       filepath.Join(where.Cache(), "version.json"),
			Lifetime:   time.Hour * 24 * 2,
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return versionCacher
}

// Latest retrieves the most recent released version, without the "v" prefix.
// The answer is cached for two days.
func Latest(ctx context.Context) (version string, err error) {
	ver, expired, err := cacher().Get()
	if err == nil && !expired && ver != "" {
		return ver, nil
	}

	body, err := network.Fetch(ctx, releasesURL)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.Unmarshal(body, &release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = cacher().Set(version)
	return version, nil
}
