package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/config"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/journal"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/model"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/proctor"
	"github.com/ShrinivasKarthik/techademy-assessments-sub002/internal/sysutil"
)

func main() {
	sysutil.InitLogger()
	defer sysutil.Log.Sync()

	configPath := flag.String("config", "", "TOML configuration file")
	dbPath := flag.String("db", "violations.db", "violation journal database")
	demo := flag.Bool("demo", true, "inject simulated violations")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		sysutil.Log.Fatal("Config load failed", zap.Error(err))
	}

	jrnl, err := journal.Open(*dbPath)
	if err != nil {
		sysutil.Log.Fatal("Journal init failed", zap.Error(err))
	}
	defer jrnl.Close()

	sysutil.Log.Info("🛡️ Proctoring Agent Starting...")

	host := newSimHost()
	session := proctor.NewSession(cfg, host.Host(), proctor.Callbacks{
		OnSecurityEvent: func(ev model.SecurityEvent) {
			sysutil.Log.Warn("🚨 Violation",
				zap.String("type", string(ev.Type)),
				zap.String("severity", string(ev.Severity)),
				zap.String("description", ev.Description),
			)
			if err := jrnl.Append(ev); err != nil {
				sysutil.Log.Error("Journal append failed", zap.Error(err))
			}
		},
		OnStatusChange: func(st model.SessionStatus) {
			sysutil.Log.Info("Session status", zap.String("status", string(st)))
		},
	}, sysutil.Log)
	defer session.Cleanup()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Honor auto_start: without it the controller waits for an explicit
	// begin signal before acquiring any device.
	if !cfg.AutoStart && !*demo {
		beginCh := make(chan os.Signal, 1)
		signal.Notify(beginCh, syscall.SIGUSR1)
		sysutil.Log.Info("Waiting for SIGUSR1 to begin the session (auto_start=false)")
		select {
		case <-beginCh:
		case <-sigCh:
			return
		}
	}

	if err := session.Start(context.Background()); err != nil {
		sysutil.Log.Fatal("Session start failed", zap.Error(err))
	}

	if *demo {
		go runDemo(host)
	}

	<-sigCh

	sysutil.Log.Info("Shutting down...")
	session.Cleanup()

	summary := session.IntegritySummary()
	sysutil.Log.Info("Integrity summary",
		zap.Int("score", summary.IntegrityScore),
		zap.Int("violations", summary.ViolationsCount),
		zap.Strings("technical_issues", summary.TechnicalIssues),
	)
	if recent, err := jrnl.Recent(5); err == nil {
		for _, ev := range recent {
			sysutil.Log.Info("Journaled violation",
				zap.Uint64("seq", ev.Seq),
				zap.String("type", string(ev.Type)),
				zap.String("severity", string(ev.Severity)),
			)
		}
	}
}

// runDemo drips adversarial signals through the simulated host so the
// engine has something to flag.
func runDemo(host *simHost) {
	time.Sleep(5 * time.Second)
	host.HidePage()

	time.Sleep(5 * time.Second)
	host.PressNewTab()

	time.Sleep(5 * time.Second)
	host.CoverCamera(true)
	time.Sleep(10 * time.Second)
	host.CoverCamera(false)

	time.Sleep(5 * time.Second)
	host.LeaveFullscreen()
}
