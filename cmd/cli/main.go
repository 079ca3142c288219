package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	rootCmd   = &cobra.Command{
		Use:          "ytdlp-web",
		Short:        "ytdlp-web CLI - download videos through a ytdlp-web server",
		Long:         `A command-line client for a ytdlp-web server. Videos are fetched by the server and saved locally under their title.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Server URL")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)

	downloadCmd.Flags().StringP("output", "o", ".", "Directory to save the video in")
	historyCmd.Flags().IntP("limit", "n", 20, "Number of records to show")
}

var downloadCmd = &cobra.Command{
	Use:   "download [url]",
	Short: "Download a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("output")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for the server to fetch the video...")
		start := time.Now()
		path, size, err := newClient(serverURL).download(cmd.Context(), args[0], dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%s) in %s\n", path, formatBytes(size), time.Since(start).Round(time.Second))
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check if the server is running",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient(serverURL).health(cmd.Context()); err != nil {
			return fmt.Errorf("server at %s is not healthy: %w", serverURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Server at %s is healthy\n", serverURL)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent downloads",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		records, err := newClient(serverURL).history(cmd.Context(), limit)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				truncate(r.ID, 8),
				truncate(r.URL, 40),
				truncate(r.Title, 30),
				string(r.Status),
				formatBytes(r.BytesSent),
				r.CreatedAt.Local().Format(time.DateTime),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"ID", "URL", "TITLE", "STATUS", "SENT", "CREATED"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient(serverURL).stats(cmd.Context())
		if err != nil {
			return err
		}

		count := func(n int64) string { return strconv.FormatInt(n, 10) }
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(
			[]string{"METRIC", "VALUE"},
			[][]string{
				{"Total", count(stats.Total)},
				{"In progress", count(stats.InProgress)},
				{"Completed", count(stats.Completed)},
				{"Failed", count(stats.Failed)},
				{"Aborted", count(stats.Aborted)},
				{"Bytes sent", formatBytes(stats.BytesSent)},
			},
			[]columnAlignment{alignLeft, alignRight},
		))
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
