package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/objectives/internal/cli"
	"github.com/julianstephens/objectives/internal/engine"
)

type SweepCmd struct {
	DryRun bool `help:"List the objectives that would be reminded without sending anything."`
}

func (c *SweepCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.DryRun {
		return c.dryRun(ctx)
	}

	lock, err := acquireSweepLock(ctx.Config.DataDir)
	if err != nil {
		return err
	}
	defer lock.Release()

	scanner, err := newScanner(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scanner.Sweep(sigCtx)
	if err != nil {
		return err
	}

	fmt.Printf("Scanned %d objective(s), %d due for a reminder.\n", report.Scanned, report.Eligible)
	fmt.Printf("  ✓ Delivered:      %d\n", report.Delivered)
	fmt.Printf("  ⊘ Undeliverable:  %d\n", report.Permanent)
	fmt.Printf("  ⚠ Will retry:     %d\n", report.Transient)
	if report.Errors > 0 {
		fmt.Printf("  ❌ Not recorded:   %d\n", report.Errors)
	}
	return nil
}

func (c *SweepCmd) dryRun(ctx *cli.Context) error {
	policy := cli.PolicyFor(ctx.Config)
	scanner := engine.NewScanner(ctx.Store, nil, engine.WithPolicy(policy))

	due, err := scanner.Due(context.Background())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		fmt.Println("No objectives are due for a reminder.")
		return nil
	}

	now := time.Now()
	fmt.Printf("Would remind %d objective(s):\n\n", len(due))
	for _, obj := range due {
		windowOpen := policy.NextAllowed(obj.Frequency, obj.LastSubmitted, now)
		fmt.Printf("  %s  %-24s %-8s open since %s\n", obj.OwnerID, obj.Name, obj.Frequency, humanize.Time(windowOpen))
	}
	return nil
}
