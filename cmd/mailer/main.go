package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tradetracker/internal/api/repository"
	"tradetracker/internal/email"
	"tradetracker/internal/mailer/config"
	"tradetracker/internal/mailer/service"
	"tradetracker/pkg/brevo"
	"tradetracker/pkg/logger"
	"tradetracker/pkg/postgres"
	"tradetracker/pkg/telegram"
	"tradetracker/pkg/utils"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
	testEmail  string
	limit      int

	reminderDays   int
	updateSubject  string
	updateHeadline string
	updateBody     string
)

// runtime bundles everything a campaign command needs.
type runtime struct {
	cfg      *config.Config
	logger   *logger.Logger
	svc      service.CampaignService
	shutdown func()
}

func setup() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	composer, err := email.NewComposer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	sender := brevo.NewClient(brevo.Config{
		APIKey:    cfg.Email.APIKey,
		BaseURL:   cfg.Email.BaseURL,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})

	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Warn("Telegram notifier unavailable", logger.ErrorField(err))
			notifier = telegram.NopNotifier{}
		}
	}

	svc := service.NewCampaignService(
		repository.NewUserRepository(db.DB),
		repository.NewTradeRepository(db.DB),
		repository.NewEmailLogRepository(db.DB),
		sender,
		composer,
		notifier,
		appLogger,
		cfg.Mailer.SendRate,
	)

	shutdown := func() {
		_ = appLogger.Sync()
		if sqlDB, err := db.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return &runtime{cfg: cfg, logger: appLogger, svc: svc, shutdown: shutdown}, nil
}

func campaignOptions() service.Options {
	return service.Options{DryRun: dryRun, TestEmail: testEmail, Limit: limit}
}

func runCampaign(run func(ctx context.Context, rt *runtime) error) {
	rt, err := setup()
	if err != nil {
		log.Fatal(err)
	}
	defer rt.shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rt); err != nil {
		rt.logger.Fatal("Campaign failed", logger.ErrorField(err))
	}
}

var weeklySummaryCmd = &cobra.Command{
	Use:   "weekly-summary",
	Short: "Send the weekly trading summary to active users",
	Run: func(cmd *cobra.Command, args []string) {
		runCampaign(func(ctx context.Context, rt *runtime) error {
			_, err := rt.svc.RunWeeklySummary(ctx, campaignOptions())
			return err
		})
	},
}

var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Send journaling reminders to inactive users",
	Run: func(cmd *cobra.Command, args []string) {
		runCampaign(func(ctx context.Context, rt *runtime) error {
			days := reminderDays
			if days <= 0 {
				days = rt.cfg.Mailer.ReminderAfterDays
			}
			_, err := rt.svc.RunReminders(ctx, days, campaignOptions())
			return err
		})
	},
}

var updateEmailsCmd = &cobra.Command{
	Use:   "update-emails",
	Short: "Send a product update announcement to all users",
	Run: func(cmd *cobra.Command, args []string) {
		runCampaign(func(ctx context.Context, rt *runtime) error {
			_, err := rt.svc.RunUpdateEmails(ctx, updateSubject, updateHeadline, updateBody, campaignOptions())
			return err
		})
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the weekly-summary and reminder campaigns on a schedule",
	Run: func(cmd *cobra.Command, args []string) {
		runCampaign(func(ctx context.Context, rt *runtime) error {
			c := cron.New()
			opts := campaignOptions()

			if _, err := c.AddFunc(rt.cfg.Mailer.WeeklyCron, func() {
				utils.GoSafe(func() {
					if _, err := rt.svc.RunWeeklySummary(ctx, opts); err != nil {
						rt.logger.Error("Weekly summary campaign failed", logger.ErrorField(err))
					}
				})
			}); err != nil {
				return fmt.Errorf("invalid weekly cron expression: %w", err)
			}

			if _, err := c.AddFunc(rt.cfg.Mailer.ReminderCron, func() {
				utils.GoSafe(func() {
					if _, err := rt.svc.RunReminders(ctx, rt.cfg.Mailer.ReminderAfterDays, opts); err != nil {
						rt.logger.Error("Reminder campaign failed", logger.ErrorField(err))
					}
				})
			}); err != nil {
				return fmt.Errorf("invalid reminder cron expression: %w", err)
			}

			rt.logger.Info("Mailer scheduler started",
				logger.Field("weekly_cron", rt.cfg.Mailer.WeeklyCron),
				logger.Field("reminder_cron", rt.cfg.Mailer.ReminderCron))
			c.Start()

			<-ctx.Done()
			rt.logger.Info("Shutting down mailer scheduler...")
			<-c.Stop().Done()
			return nil
		})
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "mailer"}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-mailer.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Resolve audience and render emails without sending")
	rootCmd.PersistentFlags().StringVar(&testEmail, "test-email", "", "Redirect all emails to this address")
	rootCmd.PersistentFlags().IntVar(&limit, "limit", 0, "Maximum number of users to process (0 = all)")

	remindersCmd.Flags().IntVar(&reminderDays, "days", 0, "Inactivity threshold in days (default from config)")
	updateEmailsCmd.Flags().StringVar(&updateSubject, "subject", "", "Email subject (required)")
	updateEmailsCmd.Flags().StringVar(&updateHeadline, "headline", "", "Headline shown in the email body")
	updateEmailsCmd.Flags().StringVar(&updateBody, "body", "", "Announcement text (required)")

	rootCmd.AddCommand(weeklySummaryCmd, remindersCmd, updateEmailsCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing mailer CLI: %s\n", err)
		os.Exit(1)
	}
}
