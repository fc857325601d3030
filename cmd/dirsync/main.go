package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crutcha/dirsync"
	log "github.com/sirupsen/logrus"
)

func main() {
	configFilePath := flag.String("configfile", "", "Configuration File Path")
	once := flag.Bool("once", false, "Run every configured sync once and exit, ignoring intervals")
	flag.Parse()

	if *configFilePath == "" {
		fmt.Fprintln(os.Stderr, "Required flag -configfile not set but required")
		os.Exit(2)
	}

	appConfig, configErr := dirsync.LoadConfig(*configFilePath)
	if configErr != nil {
		log.Fatal(configErr)
	}
	setupLogging(appConfig)

	log.Info("Loaded config:")
	for _, line := range appConfig.ConfigStringArray() {
		log.Info(line)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifier, notifierErr := appConfig.NewNotifier(ctx)
	if notifierErr != nil {
		log.Fatal(fmt.Sprintf("Error creating notifier: %s", notifierErr))
	}

	jobs := make([]dirsync.SyncJob, 0, len(appConfig.Sync))
	for _, syncConfig := range appConfig.Sync {
		// one connection per folder, scheduled jobs may run at the same time
		conn, connErr := appConfig.NewConnection(ctx)
		if connErr != nil {
			log.Fatal(connErr)
		}
		opts := []dirsync.SyncOption{dirsync.WithExclude(syncConfig.Exclude...)}
		if notifier != nil {
			opts = append(opts, dirsync.WithNotifier(notifier))
		}
		synchronizer, syncErr := dirsync.NewSynchronizer(conn, opts...)
		if syncErr != nil {
			log.Fatal(syncErr)
		}
		if *once {
			syncConfig.Interval = 0
		}
		jobs = append(jobs, dirsync.SyncJob{Synchronizer: synchronizer, Config: syncConfig})
	}

	os.Exit(run(ctx, jobs))
}

func run(ctx context.Context, jobs []dirsync.SyncJob) int {
	exitCode := 0
	scheduled := 0
	for _, job := range jobs {
		if job.Config.Interval > 0 {
			scheduled++
			continue
		}
		if err := job.Run(ctx); err != nil {
			log.Error(err)
			exitCode = 1
		}
	}
	if scheduled == 0 {
		return exitCode
	}

	scheduler, schedErr := dirsync.NewScheduler(ctx, jobs)
	if schedErr != nil {
		log.Error(schedErr)
		return 1
	}
	log.Info(fmt.Sprintf("Scheduled %d sync job(s)", scheduled))
	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()
	log.Info("Shutting down")

	return exitCode
}

func setupLogging(appConfig dirsync.AppConfig) {
	level, levelErr := log.ParseLevel(appConfig.LogLevel)
	if levelErr != nil {
		log.Warn(fmt.Sprintf("Unknown log level %q, using info", appConfig.LogLevel))
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if appConfig.LogJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
