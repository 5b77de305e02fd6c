package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"advohub/internal/bootstrap"
	"advohub/internal/directory"
	"advohub/internal/directory/models"
	jwttoken "advohub/internal/jwt_token"
	"advohub/internal/platform/config"
	"advohub/internal/platform/logger"
)

type rootOptions struct {
	demo   bool
	asJSON bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "dirctl",
		Short:         "Inspect the unified member directory",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVar(&opts.demo, "demo", false, "use seeded in-memory origins")
	cmd.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")

	cmd.AddCommand(newListCmd(opts), newStatsCmd(opts), newTokenCmd())
	return cmd
}

// loadDirectory fetches every origin once and aggregates the results.
func loadDirectory(cmd *cobra.Command, opts *rootOptions) ([]models.UnifiedRecord, []directory.OriginReport, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, nil, err
	}
	if opts.demo {
		cfg.Origins.Demo = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, "text")

	fetcher := directory.NewFetcher(bootstrap.Sources(cfg.Origins, log),
		directory.WithPageLimit(cfg.Origins.PageLimit),
		directory.WithMaxPages(cfg.Origins.MaxPages),
		directory.WithFetchTimeout(cfg.Origins.Timeout),
		directory.WithFetcherLogger(log),
	)
	records, reports := directory.AggregateReport(fetcher.FetchAll(cmd.Context()), log)
	degraded := fetcher.Degraded()
	for i := range reports {
		reports[i].Degraded = degraded[reports[i].Origin]
	}
	return records, reports, nil
}

func newListCmd(root *rootOptions) *cobra.Command {
	var (
		q     directory.Query
		sort  string
		desc  bool
		page  int
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List directory records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec := directory.SortSpec{Field: directory.SortByCreatedAt, Desc: desc}
			if sort != "" {
				field, ok := directory.ParseSortField(sort)
				if !ok {
					return fmt.Errorf("unknown sort field %q", sort)
				}
				spec.Field = field
			}

			records, reports, err := loadDirectory(cmd, root)
			if err != nil {
				return err
			}
			result := directory.Paginate(directory.Sort(directory.Filter(records, q), spec), page, limit)

			out := cmd.OutOrStdout()
			if root.asJSON {
				return writeJSON(out, result)
			}
			printReportWarnings(cmd.ErrOrStderr(), reports)
			return printRecords(out, result)
		},
	}
	cmd.Flags().StringVar(&q.Search, "search", "", "substring of name, email or mobile")
	cmd.Flags().StringVar(&q.Role, "role", "", "exact role, or all")
	cmd.Flags().StringVar(&q.Status, "status", "", "status, or all")
	cmd.Flags().StringVar(&sort, "sort", "", "name, email, createdAt, role, status or origin")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size, 0 for all")
	return cmd
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and per-origin fetch results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, reports, err := loadDirectory(cmd, root)
			if err != nil {
				return err
			}
			stats := directory.Summarize(records)

			out := cmd.OutOrStdout()
			if root.asJSON {
				return writeJSON(out, map[string]any{"stats": stats, "origins": reports})
			}
			return printStats(out, stats, reports)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		adminID string
		role    string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			jwt := jwttoken.NewJWTService(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.Audience)
			token, err := jwt.GenerateAccessToken(adminID, role, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&adminID, "admin-id", "", "admin id to embed")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "Admin or SubAdmin")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("admin-id")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecords(w io.Writer, page directory.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORIGIN\tID\tNAME\tEMAIL\tROLE\tSTATUS\tCREATED")
	for _, r := range page.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", r.Origin, r.ID, r.Name, r.Email, r.Role, r.Status, r.CreatedAt)
	}
	fmt.Fprintf(tw, "\npage %d/%d, %d records\n", page.Page, page.TotalPages, page.Total)
	return tw.Flush()
}

func printStats(w io.Writer, stats directory.Stats, reports []directory.OriginReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "TOTAL\t%d\n\n", stats.Total)
	fmt.Fprintln(tw, "ORIGIN\tFETCHED\tCOUNT\tTRUNCATED\tDEGRADED\tREASON")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%t\t%d\t%t\t%t\t%s\n", r.Origin, r.Fetched, r.Count, r.Truncated, r.Degraded, r.Reason)
	}
	fmt.Fprintln(tw, "\nROLE\tCOUNT")
	for role, n := range stats.ByRole {
		fmt.Fprintf(tw, "%s\t%d\n", role, n)
	}
	fmt.Fprintln(tw, "\nSTATUS\tCOUNT")
	for status, n := range stats.ByStatus {
		fmt.Fprintf(tw, "%s\t%d\n", status, n)
	}
	return tw.Flush()
}

func printReportWarnings(w io.Writer, reports []directory.OriginReport) {
	for _, r := range reports {
		if !r.Fetched {
			fmt.Fprintf(w, "warning: %s unavailable (%s)\n", r.Origin, r.Reason)
		}
	}
}
