package main

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sushihentaime/postbook/internal/blogservice"
	"github.com/sushihentaime/postbook/internal/common"
	"github.com/sushihentaime/postbook/internal/mailservice"
	"github.com/sushihentaime/postbook/internal/postservice"
)

type application struct {
	config      *Config
	logger      zerolog.Logger
	postService *postservice.PostService
	blogService *blogservice.BlogService
	producer    common.MessageProducer
	limiter     *rateLimiter
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Environment == "production" {
		logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	dialect, err := common.ParseDialect(cfg.DBDriver)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid database driver")
	}

	db, err := openDB(cfg, dialect)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", string(dialect)).Msg("failed to connect to the database")
	}
	defer common.CloseDB(db)

	if err := common.Migrate(db, dialect); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate the database")
	}

	store := common.NewStore(db, dialect)

	app := &application{
		config:      cfg,
		logger:      logger,
		postService: postservice.NewPostService(store),
		blogService: blogservice.NewBlogService(store, common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)),
		limiter:     newRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}

	if cfg.MQHost != "" {
		URI := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.MQUser, cfg.MQPassword, cfg.MQHost, cfg.MQPort)
		broker, err := common.NewMessageBroker(URI)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to the message broker")
		}
		defer broker.Close()

		err = common.SetupPostExchange(broker)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to setup the post exchange")
		}

		app.producer = broker

		if cfg.MailRecipient != "" {
			mailService := mailservice.NewMailService(broker, cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailRecipient, cfg.MailPort, mailservice.NewLogger(logger))
			defer mailService.Close()

			mailService.NotifyNewPosts()
		}
	} else {
		logger.Warn().Msg("RABBITMQ_HOST not set, post events are disabled")
	}

	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start the server")
		os.Exit(1)
	}
}

func openDB(cfg *Config, dialect common.Dialect) (*sql.DB, error) {
	if dialect == common.SQLite {
		return common.NewSQLiteDB(cfg.SQLiteDSN)
	}

	return common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBMaxIdleTime)
}
