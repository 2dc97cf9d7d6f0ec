package storage

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const guildCollection = "guild"

// Mongo keeps guild documents in the "guild" collection, keyed by guildId.
type Mongo struct {
	client   *mongo.Client
	coll     *mongo.Collection
	defaults Defaults
}

func NewMongo(ctx context.Context, uri, database string, d Defaults) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	m := newMongo(client.Database(database).Collection(guildCollection), d)
	m.client = client

	// The unique index is what keeps concurrent first lookups from
	// inserting two documents for one guild.
	_, err = m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "guildId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create guildId index: %w", err)
	}

	return m, nil
}

func newMongo(coll *mongo.Collection, d Defaults) *Mongo {
	return &Mongo{coll: coll, defaults: d}
}

func byGuild(guildID string) bson.M {
	return bson.M{"guildId": guildID}
}

// defaultFields is the $setOnInsert body; guildId comes from the filter.
func (m *Mongo) defaultFields(guildID string) bson.M {
	def := NewGuildConfig(guildID, m.defaults)
	return bson.M{
		"welcomer": def.Welcomer,
		"farewell": def.Farewell,
		"ignored":  def.Ignored,
		"theme":    def.Theme,
		"prefix":   def.Prefix,
		"afk":      def.AFK,
	}
}

func (m *Mongo) Get(ctx context.Context, guildID string) (*GuildConfig, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	update := bson.M{"$setOnInsert": m.defaultFields(guildID)}

	var cfg GuildConfig
	err := m.coll.FindOneAndUpdate(ctx, byGuild(guildID), update, opts).Decode(&cfg)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race to another writer; the document exists now.
		err = m.coll.FindOne(ctx, byGuild(guildID)).Decode(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guild %s: %w", guildID, err)
	}

	cfg.normalize()
	return &cfg, nil
}

func (m *Mongo) updateOne(ctx context.Context, filter, update bson.M) (*mongo.UpdateResult, error) {
	res, err := m.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update guild %v: %w", filter["guildId"], err)
	}
	return res, nil
}

func (m *Mongo) AddAFK(ctx context.Context, guildID string, entry AFKEntry) error {
	res, err := m.updateOne(ctx,
		bson.M{"guildId": guildID, "afk.id": entry.ID},
		bson.M{"$set": bson.M{"afk.$.message": entry.Message}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = m.updateOne(ctx,
		bson.M{"guildId": guildID, "afk.id": bson.M{"$ne": entry.ID}},
		bson.M{"$push": bson.M{"afk": entry}},
	)
	return err
}

func (m *Mongo) RemoveAFK(ctx context.Context, guildID, userID string) (bool, error) {
	res, err := m.updateOne(ctx,
		bson.M{"guildId": guildID, "afk.id": userID},
		bson.M{"$pull": bson.M{"afk": bson.M{"id": userID}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (m *Mongo) SetGreeting(ctx context.Context, guildID string, kind GreetingKind, g Greeting) error {
	_, err := m.updateOne(ctx, byGuild(guildID),
		bson.M{"$set": bson.M{string(kind): g}},
	)
	return err
}

func (m *Mongo) DisableGreeting(ctx context.Context, guildID string, kind GreetingKind) error {
	_, err := m.updateOne(ctx, byGuild(guildID),
		bson.M{"$set": bson.M{string(kind) + ".enabled": false}},
	)
	return err
}

func (m *Mongo) SetPrefix(ctx context.Context, guildID, prefix string) error {
	_, err := m.updateOne(ctx, byGuild(guildID), bson.M{"$set": bson.M{"prefix": prefix}})
	return err
}

func (m *Mongo) SetTheme(ctx context.Context, guildID string, theme int) error {
	_, err := m.updateOne(ctx, byGuild(guildID), bson.M{"$set": bson.M{"theme": theme}})
	return err
}

func (m *Mongo) SetIgnored(ctx context.Context, guildID string, kind IgnoreKind, id string, ignored bool) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown ignore kind %q", kind)
	}
	op := "$pull"
	if ignored {
		op = "$addToSet"
	}
	_, err := m.updateOne(ctx, byGuild(guildID),
		bson.M{op: bson.M{"ignored." + string(kind): id}},
	)
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	if err := m.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
