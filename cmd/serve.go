package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/chrisdamba/foodsite/internal/booking"
	"github.com/chrisdamba/foodsite/internal/cart"
	"github.com/chrisdamba/foodsite/internal/cloudwriter"
	"github.com/chrisdamba/foodsite/internal/content"
	"github.com/chrisdamba/foodsite/internal/events"
	"github.com/chrisdamba/foodsite/internal/httpapi"
	"github.com/chrisdamba/foodsite/internal/models"
	"github.com/chrisdamba/foodsite/internal/payment"
	"github.com/chrisdamba/foodsite/internal/repositories"
	"github.com/chrisdamba/foodsite/internal/search"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	cobra.CheckErr(viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Database.URL == "" {
		if err := seedStore(ctx, store, cfg.Seed, nil); err != nil {
			return err
		}
	}

	dest, err := events.NewDestination(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating events sink: %w", err)
	}
	publisher := events.NewPublisher(dest, cfg.Events.TopicPrefix, logger)
	defer publisher.Close()

	site, err := loadContent(ctx)
	if err != nil {
		return err
	}

	var remote func(string) search.Remote
	if cfg.Search.RemoteURL != "" {
		hosted := search.NewHTTPRemote(cfg.Search.RemoteURL, cfg.Search.RemoteTimeout)
		remote = func(restaurantID string) search.Remote { return hosted.ForRestaurant(restaurantID) }
	}
	tenants := search.NewTenants(search.WeightsFromConfig(cfg.Search.Weights), remote, logger)

	carts := cart.NewRegistry(cfg.Cart.IdleTTL)
	bridge := payment.NewBridge(payment.HeadlessOpener{}, cfg.Payment.AllowedOrigins,
		payment.WithBridgeLogger(logger),
		payment.WithSessionTTL(cfg.Payment.SessionTTL),
		payment.OnResolve(func(_ payment.Attempt, o payment.Outcome) {
			publisher.Publish(context.Background(), events.PaymentEvent(events.TypePaymentResolved, events.PaymentData{
				Session: o.Session,
				Status:  o.Status,
				Origin:  o.Origin,
			}, o.ResolvedAt))
		}),
	)

	api := httpapi.New(httpapi.Deps{
		Store:   store,
		Search:  tenants,
		Content: site,
		Carts:   carts,
		Booking: booking.NewService(store, booking.Config{
			SlotInterval:    cfg.Reservation.SlotInterval,
			SittingDuration: cfg.Reservation.SittingDuration,
			Location:        cfg.Location(),
		}, publisher, logger),
		Payments:     bridge,
		Publisher:    publisher,
		AwaitTimeout: cfg.Payment.AwaitTimeout,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		menus, err := tenantMenus(gctx, store)
		if err != nil {
			return fmt.Errorf("loading menus for search: %w", err)
		}
		for _, id := range sortedKeys(menus) {
			items := menus[id]
			tenants.Build(gctx, id, items, func(percent int) {
				logger.Info().Str("restaurant_id", id).Int("percent", percent).Int("items", len(items)).Msg("building search index")
			})
		}
		return nil
	})
	g.Go(func() error {
		sweep(gctx, cfg.Server.SweepInterval, carts, bridge)
		return nil
	})
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// loadContent prefers object storage over a local file. No source means the
// content routes are disabled.
func loadContent(ctx context.Context) (*content.Store, error) {
	switch {
	case cfg.Content.S3Bucket != "":
		s3, err := cloudwriter.NewS3Store(ctx, cfg.Content.Region)
		if err != nil {
			return nil, err
		}
		return content.LoadObject(ctx, s3, cfg.Content.S3Bucket, cfg.Content.S3Key)
	case cfg.Content.Path != "":
		return content.LoadFile(cfg.Content.Path)
	default:
		logger.Warn().Msg("no site content configured")
		return nil, nil
	}
}

type sweeper interface {
	Sweep() int
}

// sweep evicts idle carts and stale payment sessions every interval until ctx
// is done.
func sweep(ctx context.Context, interval time.Duration, targets ...sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := 0
			for _, t := range targets {
				n += t.Sweep()
			}
			if n > 0 {
				logger.Debug().Int("evicted", n).Msg("swept idle carts and payment sessions")
			}
		}
	}
}

// tenantMenus returns the searchable items of each restaurant: a static menu
// file for menu.restaurant_id, that one restaurant's stored menu, or every
// restaurant's menu.
func tenantMenus(ctx context.Context, store *repositories.Store) (map[string][]models.MenuItem, error) {
	if cfg.Menu.Path != "" {
		if cfg.Menu.RestaurantID == "" {
			return nil, errors.New("menu.path requires menu.restaurant_id")
		}
		m, err := loadMenuFile(cfg.Menu.Path)
		if err != nil {
			return nil, err
		}
		return map[string][]models.MenuItem{cfg.Menu.RestaurantID: m.Items()}, nil
	}

	ids := []string{cfg.Menu.RestaurantID}
	if cfg.Menu.RestaurantID == "" {
		all, err := store.Restaurants.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		ids = ids[:0]
		for id := range all {
			ids = append(ids, id)
		}
	}

	menus := make(map[string][]models.MenuItem, len(ids))
	for _, id := range ids {
		ptrs, err := store.MenuItems.GetByRestaurantID(ctx, id)
		if err != nil {
			return nil, err
		}
		sortItems(ptrs)
		items := make([]models.MenuItem, len(ptrs))
		for i, it := range ptrs {
			items[i] = *it
		}
		menus[id] = items
	}
	return menus, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
