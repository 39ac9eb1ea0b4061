package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/bulktube-go/internal/domain"
)

var (
	serverURL   string
	noAutoStart bool
	rootCmd     = &cobra.Command{
		Use:   "bulktube",
		Short: "BulkTube CLI - Fetch video info and trigger downloads",
		Long:  `A command-line client for the BulkTube server: look up available qualities and download videos.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5001", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&noAutoStart, "no-auto-start", false, "Don't auto-start server if not running")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(healthCmd)

	downloadCmd.Flags().StringP("quality", "q", "best", `Quality: "best" or a height such as 720`)
	infoCmd.Flags().StringP("file", "f", "", `Read URLs from a file, "-" for stdin`)
	downloadCmd.Flags().StringP("file", "f", "", `Read URLs from a file, "-" for stdin`)
}

// ensureServer checks if server is running and starts it if needed (unless --no-auto-start)
func ensureServer() {
	if noAutoStart {
		return
	}
	if err := ensureServerRunning(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}

var infoCmd = &cobra.Command{
	Use:   "info [url...]",
	Short: "Show title, duration and available qualities for one or more URLs",
	Long: `Resolve each URL in turn. URLs may be separated by spaces, commas or
newlines, and --file reads more of them from a file ("-" for stdin).`,
	Run: func(cmd *cobra.Command, args []string) {
		urls := mustCollectURLs(cmd, args)
		ensureServer()

		c := newClient(serverURL)
		results := processURLs(cmd.Context(), urls, os.Stdout, func(url string) error {
			info, err := c.Info(url)
			if err != nil {
				return err
			}
			printInfo(os.Stdout, info)
			return nil
		})
		exitOnFailures(results, len(urls))
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download [url...]",
	Short: "Download one or more videos in sequence",
	Long: `Download each URL in turn at the requested quality, continuing past
failures. Ctrl-C stops before the next URL and the download in flight
still completes on the server. Press Ctrl-C again to quit immediately.`,
	Run: func(cmd *cobra.Command, args []string) {
		urls := mustCollectURLs(cmd, args)
		ensureServer()
		quality, _ := cmd.Flags().GetString("quality")

		c := newClient(serverURL)
		results := processURLs(cmd.Context(), urls, os.Stdout, func(url string) error {
			fmt.Printf("Downloading %s (%s)...\n", url, quality)
			result, err := c.Download(url, quality)
			if err != nil {
				return err
			}
			fmt.Printf("  %s: %s\n", result.Status, result.Message)
			return nil
		})
		exitOnFailures(results, len(urls))
	},
}

func mustCollectURLs(cmd *cobra.Command, args []string) []string {
	file, _ := cmd.Flags().GetString("file")
	urls, err := collectURLs(args, file, os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return urls
}

func printInfo(w io.Writer, info *domain.VideoInfo) {
	fmt.Fprintf(w, "Title:    %s\n", info.Title)
	if info.Duration != nil {
		fmt.Fprintf(w, "Duration: %s\n", *info.Duration)
	}
	if info.Thumbnail != nil {
		fmt.Fprintf(w, "Thumb:    %s\n", *info.Thumbnail)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUALITY\tLABEL")
	for _, q := range info.Qualities {
		fmt.Fprintf(tw, "%s\t%s\n", q.ID, q.Label)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// exitOnFailures prints a batch summary and exits non-zero if anything failed
func exitOnFailures(results []urlResult, total int) {
	failed := countFailures(results)
	if total > 1 {
		fmt.Printf("Done: %d succeeded, %d failed, %d skipped\n",
			len(results)-failed, failed, total-len(results))
	}
	if failed > 0 || len(results) < total {
		os.Exit(1)
	}
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server and yt-dlp availability",
	Run: func(cmd *cobra.Command, args []string) {
		c := newClient(serverURL)

		health, err := c.Health()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Server unreachable: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Server:  %s (version %s)\n", health.Status, health.Version)

		ready, err := c.Ready()
		if err != nil {
			fmt.Fprintf(os.Stderr, "yt-dlp:  not ready (%v)\n", err)
			os.Exit(1)
		}
		fmt.Printf("yt-dlp:  %s\n", ready)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// A second Ctrl-C falls back to the default and quits at once
		<-ctx.Done()
		stop()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
