package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"backup-tool/style"
)

// runScheduled runs a backup on every tick of the --schedule expression
// until ctx is done. A tick is skipped while the previous backup runs.
func (a *app) runScheduled(ctx context.Context, target, source string) error {
	schedule, err := cron.ParseStandard(a.flags.schedule)
	if err != nil {
		return usageError{fmt.Errorf("invalid schedule %q: %w", a.flags.schedule, err)}
	}
	if err := a.validateSource(source); err != nil {
		return err
	}

	logger := cronLogger{a.log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(schedule, cron.FuncJob(func() {
		a.log.Info("Scheduled backup started at %s", a.opts.Now().Format(time.RFC822))
		if _, err := a.backup(target, source); err != nil {
			a.log.Error("Scheduled backup failed: %v", err)
		}
		a.log.Info("Next backup at %s", schedule.Next(a.opts.Now()).Format(time.RFC822))
	}))

	c.Start()
	a.log.Info("Backup scheduler started, next backup at %s. Press Ctrl+C to exit.",
		schedule.Next(a.opts.Now()).Format(time.RFC822))

	<-ctx.Done()
	<-c.Stop().Done()
	a.log.Info("Backup scheduler stopped.")
	return nil
}

// cronLogger adapts style.Logger to cron.Logger.
type cronLogger struct {
	log *style.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: %s%s", msg, formatKV(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error("cron: %s: %v%s", msg, err, formatKV(keysAndValues))
}

func formatKV(kv []interface{}) string {
	var b strings.Builder
	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v", kv[i])
		}
	}
	return b.String()
}
