package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"conference-review-api/models"

	"gorm.io/gorm"
)

const roleCacheTTL = 5 * time.Minute

// roleCache maps role names to role IDs. Roles change rarely, so lookups are served from
// memory and refreshed after roleCacheTTL or when a name is missing.
type roleCache struct {
	mu        sync.RWMutex
	byName    map[string]uint
	fetchedAt time.Time
}

func (c *roleCache) load(ctx context.Context, db *gorm.DB, force bool) (map[string]uint, error) {
	c.mu.RLock()
	cached, fetchedAt := c.byName, c.fetchedAt
	c.mu.RUnlock()

	if cached != nil && !force && time.Since(fetchedAt) < roleCacheTTL {
		return cached, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.byName != nil && !force && time.Since(c.fetchedAt) < roleCacheTTL {
		return c.byName, nil
	}

	var rows []models.Role
	if err := db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	byName := make(map[string]uint, len(rows))
	for _, r := range rows {
		if name := strings.TrimSpace(r.Role); name != "" {
			byName[name] = r.RoleID
		}
	}
	c.byName = byName
	c.fetchedAt = time.Now()
	return byName, nil
}

// id resolves a role name, refreshing the cache once before reporting it missing.
func (c *roleCache) id(ctx context.Context, db *gorm.DB, name string) (uint, bool, error) {
	byName, err := c.load(ctx, db, false)
	if err != nil {
		return 0, false, err
	}
	if id, ok := byName[name]; ok {
		return id, true, nil
	}

	byName, err = c.load(ctx, db, true)
	if err != nil {
		return 0, false, err
	}
	id, ok := byName[name]
	return id, ok, nil
}
