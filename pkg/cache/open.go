package cache

import (
	"context"
	"strings"
)

// Open returns the cache a location string names:
//
//	redis://host:6379/0            Redis
//	rediss://host:6380             Redis over TLS
//	mongodb://host:27017/gobble    MongoDB
//	mongodb+srv://cluster/gobble   MongoDB (SRV lookup)
//	file:///var/cache/gobble       file cache
//	/var/cache/gobble              file cache
func Open(ctx context.Context, location string) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch {
	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		c, err = NewRedisCache(ctx, location)
	case strings.HasPrefix(location, "mongodb://"), strings.HasPrefix(location, "mongodb+srv://"):
		c, err = NewMongoCache(ctx, location)
	default:
		c, err = NewFileCache(strings.TrimPrefix(location, "file://"))
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
