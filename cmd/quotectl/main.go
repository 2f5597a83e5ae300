package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"quote-backend/internal/pricing"
	"quote-backend/internal/quoteapi"
	"quote-backend/internal/workflow"
)

var serverURL string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "quotectl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotectl",
		Short: "Document quote client",
		Long: `quotectl talks to a running quote server: it shows the price table,
analyzes documents and submits orders.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("QUOTE_SERVER_URL", "http://localhost:8080"), "Quote server base URL")
	cmd.AddCommand(
		newPricingCmd(),
		newAnalyzeCmd(),
		newOrderCmd(),
	)
	return cmd
}

func newPricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Show per-page rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := quoteapi.NewClient(serverURL).Pricing(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Words per page: %d\n", table.WordsPerPage())
			for _, svc := range pricing.Services {
				fmt.Fprintf(out, "%s:\n", table.ServiceLabel(svc))
				for _, speed := range pricing.Speeds {
					fmt.Fprintf(out, "  %s: %s per page\n", table.SpeedLabel(speed), table.Format(table.Rate(svc, speed)))
				}
			}
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Count the words and pages of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			res, err := quoteapi.NewClient(serverURL).Analyze(cmd.Context(), filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Words: %d\nPages: %d\n", res.WordCount, res.PageCount)
			return nil
		},
	}
}

func newOrderCmd() *cobra.Command {
	var (
		serviceNames []string
		delivery     string
		email        string
		yes          bool
	)
	cmd := &cobra.Command{
		Use:   "order <file>",
		Short: "Analyze a document, show the quote and submit the order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			speed, err := pricing.ParseSpeed(delivery)
			if err != nil {
				return err
			}
			selected := make([]pricing.Service, 0, len(serviceNames))
			for _, name := range serviceNames {
				svc, err := pricing.ParseService(name)
				if err != nil {
					return err
				}
				selected = append(selected, svc)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			client := quoteapi.NewClient(serverURL)
			table, err := client.Pricing(ctx)
			if err != nil {
				return err
			}

			var confirmer workflow.Confirmer = workflow.AlwaysConfirm
			if !yes {
				confirmer = promptConfirmer(cmd.InOrStdin(), out)
			}
			wf := workflow.New(client, table,
				workflow.WithConfirmer(confirmer),
				workflow.WithObserver(func(s workflow.Snapshot) {
					if s.State == workflow.Analyzing || s.State == workflow.Submitting || s.State == workflow.AnalysisFailed || s.State == workflow.SubmitFailed {
						fmt.Fprintln(out, s.Message)
					}
				}),
			)

			if err := wf.SelectFile(ctx, filepath.Base(args[0]), data); err != nil {
				return err
			}
			for _, svc := range selected {
				if err := wf.SetService(svc, true); err != nil {
					return err
				}
			}
			if err := wf.SetDelivery(speed); err != nil {
				return err
			}
			if err := wf.SetEmail(email); err != nil {
				return err
			}

			printQuote(out, wf.Snapshot())
			if err := wf.Submit(ctx); err != nil {
				return err
			}
			snap := wf.Snapshot()
			fmt.Fprintln(out, snap.Message)
			if snap.Reference != "" {
				fmt.Fprintf(out, "Reference: %s\n", snap.Reference)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&serviceNames, "service", nil, "Service to order: rephrasing, translation (repeatable)")
	cmd.Flags().StringVar(&delivery, "delivery", string(pricing.Normal), "Delivery speed: normal or fast")
	cmd.Flags().StringVar(&email, "email", "", "Contact email")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Submit without asking for confirmation")
	return cmd
}

func printQuote(w io.Writer, s workflow.Snapshot) {
	fmt.Fprintf(w, "File: %s\nWords: %d\nPages: %d\n", s.FileName, s.WordCount, s.PageCount)
	fmt.Fprintf(w, "Services: %s\n", strings.Join(s.Services, ", "))
	for _, opt := range s.DeliveryOptions {
		if opt.Selected {
			fmt.Fprintf(w, "Delivery: %s\n", opt.Label)
		}
	}
	fmt.Fprintf(w, "Total: %s\n", s.Quote.TotalDisplay)
}

func promptConfirmer(in io.Reader, out io.Writer) workflow.Confirmer {
	reader := bufio.NewReader(in)
	return workflow.ConfirmFunc(func(_ context.Context, s workflow.Snapshot) (bool, error) {
		fmt.Fprintf(out, "Submit %s for %s? Please make sure your choices are correct. [y/N] ", s.FileName, s.Quote.TotalDisplay)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
