package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortdrop/internal/blob"
	"github.com/serroba/shortdrop/internal/cleanup"
	"github.com/serroba/shortdrop/internal/clipboard"
	"github.com/serroba/shortdrop/internal/files"
	"github.com/serroba/shortdrop/internal/handlers"
	"github.com/serroba/shortdrop/internal/health"
	"github.com/serroba/shortdrop/internal/messaging"
	"github.com/serroba/shortdrop/internal/middleware"
	"github.com/serroba/shortdrop/internal/sealer"
	"github.com/serroba/shortdrop/internal/sharing"
	"github.com/serroba/shortdrop/internal/shortener"
	"github.com/serroba/shortdrop/internal/store"
	"go.uber.org/zap"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	BlobS3          = "s3"
	EventsNone      = "none"

	// MemoryBlobPrefix is where the memory blob store serves signed URLs.
	MemoryBlobPrefix = "/blobs"

	reaperGroup = "reaper"
	connTimeout = 10 * time.Second
)

// Redis owns the shared client so the injector closes it on shutdown.
type Redis struct {
	*redis.Client
}

func (r *Redis) Shutdown() error {
	return r.Close()
}

// Postgres owns the pool so the injector closes it on shutdown.
type Postgres struct {
	Pool *pgxpool.Pool
}

func (p *Postgres) Shutdown() error {
	p.Pool.Close()
	return nil
}

func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage connects the pool and applies migrations.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
		defer cancel()

		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := store.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}

		logger.Info("postgres ready")

		return &Postgres{Pool: pool}, nil
	})
}

// RepositoryPackage provides the metadata repositories for the configured storage.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (clipboard.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch {
		case opts.ClipboardStore == StorageRedis:
			return store.NewRedisClipboardStore(do.MustInvoke[*Redis](i).Client, sharing.UTCNow), nil
		case opts.Storage == StorageMemory:
			return store.NewMemoryClipboardStore(), nil
		case opts.Storage == StoragePostgres:
			return store.NewPostgresClipboardStore(do.MustInvoke[*Postgres](i).Pool), nil
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}
	})

	do.Provide(injector, func(i *do.Injector) (files.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.Storage {
		case StorageMemory:
			return store.NewMemoryFileStore(), nil
		case StoragePostgres:
			return store.NewPostgresFileStore(do.MustInvoke[*Postgres](i).Pool), nil
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)

		var repo shortener.Repository

		switch opts.Storage {
		case StorageMemory:
			return store.NewMemoryURLStore(), nil
		case StoragePostgres:
			repo = store.NewPostgresURLStore(do.MustInvoke[*Postgres](i).Pool)
		default:
			return nil, fmt.Errorf("unknown storage %q", opts.Storage)
		}

		if opts.CacheTTLSeconds <= 0 {
			return repo, nil
		}

		ttl := time.Duration(opts.CacheTTLSeconds) * time.Second

		return store.NewRedisCacheRepository(repo, do.MustInvoke[*Redis](i).Client, ttl, sharing.UTCNow), nil
	})
}

func BlobPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (files.BlobStore, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.BlobStore {
		case StorageMemory:
			return blob.NewMemoryStore(opts.BaseURL() + MemoryBlobPrefix), nil
		case BlobS3:
			ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
			defer cancel()

			return blob.NewS3Store(ctx, blob.Config{
				Endpoint:  opts.S3Endpoint,
				Region:    opts.S3Region,
				AccessKey: opts.S3AccessKey,
				SecretKey: opts.S3SecretKey,
				Bucket:    opts.S3Bucket,
			})
		default:
			return nil, fmt.Errorf("unknown blob store %q", opts.BlobStore)
		}
	})
}

// SealerPackage provides the sealer. Without a configured key a random one is
// used, so system-sealed items do not survive a restart.
func SealerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*sealer.Sealer, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		encoded := opts.EncryptionKey
		if encoded == "" {
			logger.Warn("no encryption key configured, using an ephemeral key")

			generated, err := sealer.GenerateKey()
			if err != nil {
				return nil, err
			}

			encoded = generated
		}

		key, err := sealer.ParseKey(encoded)
		if err != nil {
			return nil, err
		}

		return sealer.New(key)
	})
}

// PublisherGroupPackage provides the typed publish function for expired blobs.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[cleanup.BlobExpiredEvent], error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Events == EventsNone {
			return messaging.Discard[cleanup.BlobExpiredEvent](), nil
		}

		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[cleanup.BlobExpiredEvent](group.Publisher(), cleanup.TopicBlobExpired), nil
	})
}

// ConsumerGroupPackage wires the reaper onto the blob expired topic.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*Redis](i)
		logger := do.MustInvoke[*zap.Logger](i)
		blobs := do.MustInvoke[files.BlobStore](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: reaperGroup,
		}, messaging.NewZapLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		reaper := cleanup.NewReaper(blobs, logger)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer[cleanup.BlobExpiredEvent](
			subscriber, cleanup.TopicBlobExpired, reaper.HandleBlobExpired, logger,
		))

		return group, nil
	})
}

// ServicePackage provides the clipboard, files and shortener services.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*clipboard.Service, error) {
		gen, err := sharing.NoLeadingZeroCodes()
		if err != nil {
			return nil, err
		}

		return clipboard.NewService(
			do.MustInvoke[clipboard.Repository](i),
			do.MustInvoke[*sealer.Sealer](i),
			sharing.NewRegistry(gen, sharing.DefaultAttempts),
			sharing.UTCNow,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*files.Service, error) {
		gen, err := sharing.NumericCodes()
		if err != nil {
			return nil, err
		}

		return files.NewService(
			do.MustInvoke[files.Repository](i),
			do.MustInvoke[files.BlobStore](i),
			sharing.NewRegistry(gen, sharing.DefaultAttempts),
			sharing.UTCNow,
			do.MustInvoke[messaging.Publish[cleanup.BlobExpiredEvent]](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		gen, err := sharing.TokenCodes(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(
			do.MustInvoke[shortener.Repository](i),
			sharing.NewRegistry(gen, sharing.DefaultAttempts),
			sharing.UTCNow,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// HTTPPackage provides the router and the API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Shortdrop", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api), middleware.RequestLogger(logger))

		handlers.RegisterRoutes(api,
			handlers.NewClipboardHandler(do.MustInvoke[*clipboard.Service](i), opts.BaseURL(), logger),
			handlers.NewFileHandler(do.MustInvoke[*files.Service](i), logger),
			handlers.NewURLHandler(do.MustInvoke[*shortener.Service](i), opts.BaseURL(), logger),
		)

		if mem, ok := do.MustInvoke[files.BlobStore](i).(*blob.MemoryStore); ok {
			router.Handle(MemoryBlobPrefix+"/*", http.StripPrefix(MemoryBlobPrefix+"/", mem))
		}

		var postgres health.Checker
		if opts.Storage == StoragePostgres {
			postgres = health.NewPostgresChecker(do.MustInvoke[*Postgres](i).Pool)
		}

		health.RegisterRoutes(api, health.NewHandler(health.NewRedisChecker(do.MustInvoke[*Redis](i).Client), postgres))

		return api, nil
	})
}
