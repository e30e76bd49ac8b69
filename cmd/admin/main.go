package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/atharvakonge/portfolio-admin/internal/apiclient"
	"github.com/atharvakonge/portfolio-admin/internal/audit"
	"github.com/atharvakonge/portfolio-admin/internal/auth"
	"github.com/atharvakonge/portfolio-admin/internal/config"
	"github.com/atharvakonge/portfolio-admin/internal/db"
	"github.com/atharvakonge/portfolio-admin/internal/forms"
	"github.com/atharvakonge/portfolio-admin/internal/handlers"
	"github.com/atharvakonge/portfolio-admin/internal/loader"
	"github.com/atharvakonge/portfolio-admin/internal/logger"
	"github.com/atharvakonge/portfolio-admin/internal/middleware"
	"github.com/atharvakonge/portfolio-admin/internal/web"
)

// gateTTL bounds how long a crashed submission can hold a Redis gate
const gateTTL = 30 * time.Second

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using defaults or environment variables")
	}

	cfg := config.Load()
	logger.Setup(cfg.LogLevel, os.Stdout)

	app := cli.NewApp()
	app.Name = "portfolio-admin"
	app.Usage = "Admin dashboard for the portfolio and AI advisory platform"
	app.Commands = []cli.Command{
		{
			Name:  "serve",
			Usage: "Run the dashboard web server",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "port,p", Value: cfg.Port, Usage: "listen port"},
			},
			Action: func(c *cli.Context) error {
				cfg.Port = c.String("port")
				return serve(cfg)
			},
		},
		{
			Name:  "notify",
			Usage: "Send a push notification through the admin API",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "token,t", EnvVar: "ADMIN_TOKEN", Usage: "admin bearer token"},
				cli.StringFlag{Name: "title"},
				cli.StringFlag{Name: "body"},
				cli.StringFlag{Name: "users,u", Usage: "comma separated user ids; all users when empty"},
			},
			Action: func(c *cli.Context) error {
				return notify(cfg, c)
			},
		},
	}
	app.Action = func(c *cli.Context) error {
		return serve(cfg)
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(cfg config.Config) error {
	ctx := context.Background()

	// Set Gin mode based on environment
	switch cfg.GinMode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	}

	gate, closeGate := newGate(ctx, cfg)
	defer closeGate()

	journal := newJournal(ctx, cfg)
	defer db.CloseDB()

	// Initialize fetch pool
	pool := loader.NewPool(cfg.NumWorkers)
	pool.Start()
	defer pool.Stop()

	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RouteGuard())

	if err := web.Load(router); err != nil {
		return errors.Wrap(err, "failed to load templates")
	}

	h := handlers.New(apiclient.New(cfg.APIURL), pool, gate, journal, handlers.Options{
		UserAppURL:     cfg.UserAppURL,
		CookieSecure:   cfg.CookieSecure,
		SearchDebounce: cfg.SearchDebounce,
		StatusInterval: cfg.StatusInterval,
	})
	h.RegisterRoutes(router)

	log.WithFields(log.Fields{
		"port":    cfg.Port,
		"api":     cfg.APIURL,
		"workers": cfg.NumWorkers,
	}).Info("Server starting on http://localhost:" + cfg.Port)

	return router.Run(":" + cfg.Port)
}

// newGate uses Redis when configured so that several dashboard instances
// share one set of in-flight submissions
func newGate(ctx context.Context, cfg config.Config) (forms.Gate, func()) {
	if cfg.RedisURL == "" {
		return forms.NewMemoryGate(), func() {}
	}
	client, err := forms.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, falling back to in-memory submit gate")
		return forms.NewMemoryGate(), func() {}
	}
	log.Info("submit gate backed by redis")
	return forms.NewRedisGate(client, gateTTL), func() { client.Close() }
}

// newJournal keeps admin actions in Postgres when enabled, in memory otherwise
func newJournal(ctx context.Context, cfg config.Config) audit.Journal {
	if cfg.Audit.Enabled {
		if err := db.InitDB(ctx, cfg.Audit); err != nil {
			log.WithError(err).Warn("audit database unavailable, journal kept in memory")
		} else {
			return audit.NewPostgres(db.DB)
		}
	}
	return audit.NewMemory(100)
}

func notify(cfg config.Config, c *cli.Context) error {
	token := c.String("token")
	if token == "" {
		return cli.NewExitError("an admin token is required (--token or ADMIN_TOKEN)", 1)
	}

	form := forms.NotificationForm{
		Title:  c.String("title"),
		Body:   c.String("body"),
		Target: forms.TargetAll,
	}
	if users := c.String("users"); users != "" {
		form.Target = forms.TargetSpecific
		form.UserIDs = users
	}

	req, err := form.Request()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := apiclient.New(cfg.APIURL).SendNotification(auth.WithToken(ctx, token), req)
	if err != nil {
		log.Debug(apiclient.Format(err))
		return cli.NewExitError(apiclient.Message(err, forms.MsgNotificationFailed), 1)
	}

	message := res.Message
	if message == "" {
		message = forms.MsgNotificationSent
	}
	fmt.Println(message)
	return nil
}
