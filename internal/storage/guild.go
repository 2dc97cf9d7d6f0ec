package storage

import "slices"

// GreetingKind names a greeting feature and its document field.
type GreetingKind string

const (
	Welcomer GreetingKind = "welcomer"
	Farewell GreetingKind = "farewell"
)

// IgnoreKind names one of the ignore sets and its document field.
type IgnoreKind string

const (
	IgnoreUsers    IgnoreKind = "users"
	IgnoreRoles    IgnoreKind = "roles"
	IgnoreChannels IgnoreKind = "channels"
)

// Greeting is the welcomer/farewell sub-document.
type Greeting struct {
	Enabled bool    `json:"enabled" bson:"enabled"`
	Channel *string `json:"channel" bson:"channel"`
	Message string  `json:"message" bson:"message"`
}

// Ignored holds ids that the router never dispatches commands for.
type Ignored struct {
	Roles    []string `json:"roles" bson:"roles"`
	Users    []string `json:"users" bson:"users"`
	Channels []string `json:"channels" bson:"channels"`
}

// AFKEntry marks a user as away with a status message.
type AFKEntry struct {
	ID      string `json:"id" bson:"id"`
	Message string `json:"message" bson:"message"`
}

// GuildConfig is the per-guild document.
type GuildConfig struct {
	GuildID  string     `json:"guildId" bson:"guildId"`
	Welcomer Greeting   `json:"welcomer" bson:"welcomer"`
	Farewell Greeting   `json:"farewell" bson:"farewell"`
	Ignored  Ignored    `json:"ignored" bson:"ignored"`
	Theme    int        `json:"theme" bson:"theme"`
	Prefix   string     `json:"prefix" bson:"prefix"`
	AFK      []AFKEntry `json:"afk" bson:"afk"`
}

// Defaults are the global values copied into newly created guild documents.
type Defaults struct {
	Prefix string
	Theme  int
}

const (
	defaultWelcome  = "Welcome, {user}, to {server}!"
	defaultFarewell = "Farewell, {user}."
)

// NewGuildConfig builds the document stored the first time a guild is seen.
func NewGuildConfig(guildID string, d Defaults) *GuildConfig {
	return &GuildConfig{
		GuildID:  guildID,
		Welcomer: Greeting{Message: defaultWelcome},
		Farewell: Greeting{Message: defaultFarewell},
		Ignored: Ignored{
			Roles:    []string{},
			Users:    []string{},
			Channels: []string{},
		},
		Theme:  d.Theme,
		Prefix: d.Prefix,
		AFK:    []AFKEntry{},
	}
}

// Greeting returns the sub-document for kind.
func (g *GuildConfig) Greeting(kind GreetingKind) Greeting {
	if kind == Farewell {
		return g.Farewell
	}
	return g.Welcomer
}

func (g *GuildConfig) setGreeting(kind GreetingKind, v Greeting) {
	if kind == Farewell {
		g.Farewell = v
		return
	}
	g.Welcomer = v
}

// FindAFK returns the AFK entry for userID, if any.
func (g *GuildConfig) FindAFK(userID string) (AFKEntry, bool) {
	for _, e := range g.AFK {
		if e.ID == userID {
			return e, true
		}
	}
	return AFKEntry{}, false
}

// List returns the ids held for kind.
func (i Ignored) List(kind IgnoreKind) []string {
	switch kind {
	case IgnoreUsers:
		return i.Users
	case IgnoreRoles:
		return i.Roles
	case IgnoreChannels:
		return i.Channels
	}
	return nil
}

func (i *Ignored) set(kind IgnoreKind, ids []string) {
	switch kind {
	case IgnoreUsers:
		i.Users = ids
	case IgnoreRoles:
		i.Roles = ids
	case IgnoreChannels:
		i.Channels = ids
	}
}

// Matches reports whether a message from userID with roles in channelID is ignored.
func (i Ignored) Matches(userID string, roles []string, channelID string) bool {
	if slices.Contains(i.Users, userID) {
		return true
	}
	for _, r := range roles {
		if slices.Contains(i.Roles, r) {
			return true
		}
	}
	return slices.Contains(i.Channels, channelID)
}

// Valid reports whether kind names a known ignore set.
func (k IgnoreKind) Valid() bool {
	return k == IgnoreUsers || k == IgnoreRoles || k == IgnoreChannels
}

// Clone returns a deep copy.
func (g *GuildConfig) Clone() *GuildConfig {
	c := *g
	c.Welcomer.Channel = cloneString(g.Welcomer.Channel)
	c.Farewell.Channel = cloneString(g.Farewell.Channel)
	c.Ignored = Ignored{
		Roles:    cloneIDs(g.Ignored.Roles),
		Users:    cloneIDs(g.Ignored.Users),
		Channels: cloneIDs(g.Ignored.Channels),
	}
	c.AFK = append([]AFKEntry{}, g.AFK...)
	return &c
}

// normalize fills nil collections left by older or hand-edited documents.
func (g *GuildConfig) normalize() {
	if g.Ignored.Roles == nil {
		g.Ignored.Roles = []string{}
	}
	if g.Ignored.Users == nil {
		g.Ignored.Users = []string{}
	}
	if g.Ignored.Channels == nil {
		g.Ignored.Channels = []string{}
	}
	if g.AFK == nil {
		g.AFK = []AFKEntry{}
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneIDs(ids []string) []string {
	return append([]string{}, ids...)
}
