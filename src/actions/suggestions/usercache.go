package suggestions

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jellydator/ttlcache/v3"
	"github.com/tlou-esports/te-suggestions/src/discord"
)

// userCache avoids a REST round trip per embed for authors and the bot itself.
type userCache struct {
	session discord.Session
	cache   *ttlcache.Cache[string, *discordgo.User]

	mu      sync.Mutex
	running bool
}

func newUserCache(session discord.Session, ttl time.Duration) *userCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &userCache{
		session: session,
		cache:   ttlcache.New(ttlcache.WithTTL[string, *discordgo.User](ttl)),
	}
}

func (c *userCache) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	go c.cache.Start()
}

// stop blocks until the cleanup loop exits, so it must only run after start.
func (c *userCache) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.cache.Stop()
}

// get returns the user, or a stub with only the id when Discord fails.
func (c *userCache) get(userID string) *discordgo.User {
	if item := c.cache.Get(userID); item != nil {
		return item.Value()
	}
	u, err := c.session.User(userID)
	if err != nil || u == nil {
		return &discordgo.User{ID: userID}
	}
	c.cache.Set(userID, u, ttlcache.DefaultTTL)
	return u
}
