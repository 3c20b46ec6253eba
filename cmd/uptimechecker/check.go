package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/naestep/WebsiteUptimeChecker/internal/config"
	"github.com/naestep/WebsiteUptimeChecker/internal/probe"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a one-off availability check of all configured targets",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile, zap.NewNop())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return executeCheck(cmd.OutOrStdout(), cfg)
}

type checkRow struct {
	target config.Target
	result probe.CheckResult
	dns    string
}

// executeCheck probes every target once, concurrently, and prints a table.
// Targets that fail the HTTP check also get a DNS diagnosis so a dead name
// can be told apart from a dead server.
func executeCheck(out io.Writer, cfg *config.Config) error {
	checker := probe.NewHTTPChecker(cfg.Timeout)
	rows := make([]checkRow, len(cfg.Targets))
	var wg sync.WaitGroup

	for i, t := range cfg.Targets {
		wg.Add(1)
		go func(i int, t config.Target) {
			defer wg.Done()
			res := checker.Check(context.Background(), t.URL)
			row := checkRow{target: t, result: res}
			if !res.Success {
				rep := probe.DiagnoseDNS(context.Background(), extractHost(t.URL))
				row.dns = string(rep.Class)
			}
			rows[i] = row
		}(i, t)
	}
	wg.Wait()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tURL\tSTATUS\tHTTP\tLATENCY\tDNS\tERROR")
	allUp := true
	for _, r := range rows {
		status := "UP"
		errTxt := ""
		if !r.result.Success {
			status = "DOWN"
			errTxt = r.result.Reason
			allUp = false
		}
		httpTxt := "-"
		if r.result.StatusCode != 0 {
			httpTxt = fmt.Sprintf("%d", r.result.StatusCode)
		}
		dnsTxt := r.dns
		if dnsTxt == "" {
			dnsTxt = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.target.Name,
			r.target.URL,
			status,
			httpTxt,
			(time.Duration(r.result.LatencyMS * float64(time.Millisecond))).Round(time.Millisecond),
			dnsTxt,
			errTxt,
		)
	}
	w.Flush()

	if !allUp {
		return fmt.Errorf("one or more targets are down")
	}
	return nil
}

// extractHost pulls the hostname from a URL string.
func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
