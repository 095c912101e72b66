package source

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/vibegraph/pkg/cache"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// Collection names.
const (
	CollectionSongs   = "songs"
	CollectionArtists = "artists"
	CollectionVibes   = "vibes"
)

// Mongo defaults.
const (
	DefaultMongoURI      = "mongodb://localhost:27017"
	DefaultMongoDatabase = "vibegraph"
)

// MongoConfig configures a MongoDB source.
type MongoConfig struct {
	URI      string
	Database string

	// Timeout bounds server selection and connection setup. Zero uses 10s.
	Timeout time.Duration
}

// MongoSource reads the catalogue from three MongoDB collections. Songs store
// their artist id and vibe ids; names are filled in on load.
type MongoSource struct {
	client *mongo.Client
	db     *mongo.Database
	name   string
}

// NewMongoSource connects to MongoDB and pings the primary.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.URI == "" {
		cfg.URI = DefaultMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout).
		SetConnectTimeout(cfg.Timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, verrors.Wrap(verrors.ErrCodeSourceUnavailable, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, verrors.Wrap(verrors.ErrCodeSourceUnavailable, err, "ping mongo")
	}
	return &MongoSource{
		client: client,
		db:     client.Database(cfg.Database),
		name:   KindMongo + ":" + cfg.Database,
	}, nil
}

// Load reads all three collections in natural order.
func (s *MongoSource) Load(ctx context.Context) (catalog.Snapshot, error) {
	var snap catalog.Snapshot
	if err := s.findAll(ctx, CollectionSongs, &snap.Songs); err != nil {
		return catalog.Snapshot{}, err
	}
	if err := s.findAll(ctx, CollectionArtists, &snap.Artists); err != nil {
		return catalog.Snapshot{}, err
	}
	if err := s.findAll(ctx, CollectionVibes, &snap.Vibes); err != nil {
		return catalog.Snapshot{}, err
	}
	return snap.Denormalize(), nil
}

func (s *MongoSource) findAll(ctx context.Context, coll string, out any) error {
	cur, err := s.db.Collection(coll).Find(ctx, bson.D{})
	if err != nil {
		return mongoErr(err, "find %s", coll)
	}
	if err := cur.All(ctx, out); err != nil {
		return mongoErr(err, "decode %s", coll)
	}
	return nil
}

// Save replaces the contents of all three collections with snap.
func (s *MongoSource) Save(ctx context.Context, snap catalog.Snapshot) error {
	snap = normalized(snap)

	songs := make([]interface{}, len(snap.Songs))
	for i, v := range snap.Songs {
		songs[i] = v
	}
	artists := make([]interface{}, len(snap.Artists))
	for i, v := range snap.Artists {
		artists[i] = v
	}
	vibes := make([]interface{}, len(snap.Vibes))
	for i, v := range snap.Vibes {
		vibes[i] = v
	}

	for _, c := range []struct {
		name string
		docs []interface{}
	}{
		{CollectionVibes, vibes},
		{CollectionArtists, artists},
		{CollectionSongs, songs},
	} {
		coll := s.db.Collection(c.name)
		if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
			return mongoErr(err, "clear %s", c.name)
		}
		if len(c.docs) == 0 {
			continue
		}
		if _, err := coll.InsertMany(ctx, c.docs); err != nil {
			return mongoErr(err, "insert %s", c.name)
		}
	}
	return nil
}

// Name returns "mongo:<database>".
func (s *MongoSource) Name() string { return s.name }

// Close disconnects the client.
func (s *MongoSource) Close() error {
	return s.client.Disconnect(context.Background())
}

// mongoErr marks network failures and timeouts as retryable.
func mongoErr(err error, format string, args ...any) error {
	wrapped := verrors.Wrap(verrors.ErrCodeSourceUnavailable, err, format, args...)
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(wrapped)
	}
	return wrapped
}

// normalized strips embedded refs so only ids are stored.
func normalized(snap catalog.Snapshot) catalog.Snapshot {
	out := catalog.Snapshot{
		Songs:   make([]catalog.Song, len(snap.Songs)),
		Artists: make([]catalog.Artist, len(snap.Artists)),
		Vibes:   make([]catalog.Vibe, len(snap.Vibes)),
	}
	for i, s := range snap.Songs {
		refs := make([]catalog.VibeRef, len(s.Vibes))
		for j, v := range s.Vibes {
			refs[j] = catalog.VibeRef{ID: v.ID}
		}
		s.Artist = nil
		s.Vibes = refs
		out.Songs[i] = s
	}
	for i, a := range snap.Artists {
		a.Songs = nil
		out.Artists[i] = a
	}
	for i, v := range snap.Vibes {
		v.Songs = nil
		out.Vibes[i] = v
	}
	return out
}

var (
	_ Source = (*MongoSource)(nil)
	_ Writer = (*MongoSource)(nil)
)
