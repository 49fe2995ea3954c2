package cache

import (
	"encoding/json"

	"github.com/pkg/errors"

	"go.uber.org/zap"
	"max.ks1230/income-planner/internal/entity/document"
	"max.ks1230/income-planner/internal/logger"

	"github.com/bradfitz/gomemcache/memcache"
)

const documentTTLSeconds = 60 * 60

type MemcacheClient struct {
	client *memcache.Client
}

type config interface {
	Hosts() []string
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{mc}, mc.Ping()
}

func formatKey(ownerID, key string) string {
	return ownerID + ":" + key
}

func (mc *MemcacheClient) CacheDocument(ownerID, key string, doc document.Document) error {
	logger.Debug("cache document", zap.String("owner", ownerID), zap.String("key", key))
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encode cached document")
	}
	return mc.client.Set(&memcache.Item{
		Key:        formatKey(ownerID, key),
		Value:      raw,
		Expiration: documentTTLSeconds,
	})
}

// GetDocument reports a cache miss as found=false without an error.
func (mc *MemcacheClient) GetDocument(ownerID, key string) (document.Document, bool, error) {
	item, err := mc.client.Get(formatKey(ownerID, key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return document.Document{}, false, nil
	}
	if err != nil {
		return document.Document{}, false, err
	}

	var doc document.Document
	if err = json.Unmarshal(item.Value, &doc); err != nil {
		return document.Document{}, false, errors.Wrap(err, "decode cached document")
	}
	return doc, true, nil
}

func (mc *MemcacheClient) InvalidateDocument(ownerID, key string) error {
	logger.Info("invalidate cache", zap.String("owner", ownerID), zap.String("key", key))

	err := mc.client.Delete(formatKey(ownerID, key))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}
