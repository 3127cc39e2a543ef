package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/m7one/storefront/internal/api"
	cartapp "github.com/m7one/storefront/internal/cart/app"
	"github.com/m7one/storefront/internal/cart/infra/localstore"
	"github.com/m7one/storefront/internal/cart/infra/memstore"
	"github.com/m7one/storefront/internal/cart/infra/redisstore"
	catalogapp "github.com/m7one/storefront/internal/catalog/app"
	catalogbaas "github.com/m7one/storefront/internal/catalog/infra/baas"
	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
	checkoutadapter "github.com/m7one/storefront/internal/checkout/infra/adapter"
	orderapp "github.com/m7one/storefront/internal/order/app"
	orderbaas "github.com/m7one/storefront/internal/order/infra/baas"
	orderkafka "github.com/m7one/storefront/internal/order/infra/kafka"
	"github.com/m7one/storefront/internal/pricing"
	"github.com/m7one/storefront/pkg/config"
	"github.com/m7one/storefront/pkg/logger"
	"github.com/m7one/storefront/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Service:   cfg.App.Name,
		Env:       cfg.App.Env,
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	pricingCfg, err := pricing.ParseConfig(
		cfg.Pricing.Currency,
		cfg.Pricing.CurrencySymbol,
		cfg.Pricing.TaxRate,
		cfg.Pricing.ShippingCost,
		cfg.Pricing.FreeShippingThreshold,
	)
	if err != nil {
		log.Error("pricing config invalid", slog.Any("err", err))
		os.Exit(1)
	}
	engine := pricing.NewEngine(pricingCfg)

	// Cart storage
	var (
		cartStore cartapp.Store
		theme     api.ThemeStore
		rdb       *redis.Client
	)
	switch cfg.Cart.Backend {
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		cartStore = redisstore.NewCartStore(rdb, cfg.Cart.StorageKey)
	case "memory":
		cartStore = memstore.New()
	default:
		kv, err := localstore.New(cfg.Cart.Path)
		if err != nil {
			log.Error("cart store open failed", slog.Any("err", err))
			os.Exit(1)
		}
		cartStore = localstore.NewCartStore(kv, cfg.Cart.StorageKey)
		theme = kv
	}

	cartSvc := cartapp.NewService(ctx, cartStore, engine, log)
	cartSvc.Subscribe(func(itemCount int64) {
		log.Debug("cart changed", slog.Int64("item_count", itemCount))
	})

	// Catalog
	catalogClient := catalogbaas.NewClient(cfg.BaaS.URL, cfg.BaaS.AnonKey, cfg.BaaS.Timeout)
	catalogSvc := catalogapp.NewService(catalogClient.Products(), catalogClient.Categories())

	// Orders
	var publisher orderapp.EventPublisher
	if cfg.Events.Enabled {
		kp := orderkafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		defer kp.Close()
		publisher = kp
	}
	submitter := orderbaas.NewSubmitter(cfg.BaaS.URL, cfg.BaaS.AnonKey, cfg.BaaS.Timeout, log)
	orderSvc := orderapp.NewService(submitter, publisher, log)

	// Checkout
	validator := checkoutapp.NewValidator(checkoutapp.DeliveryPolicy{
		RegionName:      cfg.Delivery.RegionName,
		RegionKeywords:  cfg.Delivery.RegionKeywords,
		AllowedPincodes: cfg.Delivery.AllowedPincodes,
	}, cfg.Payment.Methods)
	promos, err := promoRules(cfg.Promos)
	if err != nil {
		log.Error("promo config invalid", slog.Any("err", err))
		os.Exit(1)
	}
	checkoutMgr := checkoutapp.NewManager(validator, checkoutapp.NewPromoSet(promos),
		checkoutadapter.NewOrderPlacer(orderSvc), log)

	ready := func() error { return nil }
	if rdb != nil {
		ready = func() error {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return rdb.Ping(pingCtx).Err()
		}
	}

	srv := api.NewServer(api.Options{
		Catalog:          catalogSvc,
		Cart:             cartSvc,
		Checkout:         checkoutMgr,
		CartPort:         checkoutadapter.NewCart(cartSvc),
		Theme:            theme,
		Ready:            ready,
		Log:              log,
		RateLimitEnabled: cfg.Server.RateLimit.Enabled,
		RateLimit:        cfg.Server.RateLimit.Rate,
		RateBurst:        cfg.Server.RateLimit.Burst,
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer stopCancel()
		return httpServer.Shutdown(stopCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

func promoRules(configs []config.PromoConfig) ([]checkoutapp.PromoRule, error) {
	rules := make([]checkoutapp.PromoRule, 0, len(configs))
	for _, pc := range configs {
		rule := checkoutapp.PromoRule{Code: pc.Code}
		switch pc.Type {
		case "shipping":
			rule.Kind = checkoutapp.PromoShipping
		case "percentage":
			rule.Kind = checkoutapp.PromoPercentage
			pct, err := decimal.NewFromString(pc.Percent)
			if err != nil {
				return nil, fmt.Errorf("promo %s: parse percent %q: %w", pc.Code, pc.Percent, err)
			}
			rule.Percent = pct
		default:
			return nil, fmt.Errorf("promo %s: unknown type %q", pc.Code, pc.Type)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
