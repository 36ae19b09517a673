package cli

import (
	"context"
	"fmt"

	"github.com/andy/jobtrack/internal/domain"
	"github.com/andy/jobtrack/internal/service"
	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
	Long:  `List, show, and delete jobs. Use the TUI to create and edit jobs.`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var clientID *string
		if cmd.Flags().Changed("client") {
			cid, _ := cmd.Flags().GetString("client")
			clientID = &cid
		}

		jobs, err := appInstance.JobService.ListJobs(ctx, clientID)
		if err != nil {
			return fmt.Errorf("failed to list jobs: %w", err)
		}

		if len(jobs) == 0 {
			fmt.Println("No jobs found")
			return nil
		}

		fmt.Printf("%-38s %-12s %-20s %-30s %10s\n", "ID", "Date", "Client", "Description", "Total")
		fmt.Println("--------------------------------------------------------------------------------------------------------------")

		for _, job := range jobs {
			clientName := ""
			if job.Client != nil {
				clientName = job.Client.Name
			}
			totals := service.ComputeTotals(job.Items)
			fmt.Printf("%-38s %-12s %-20s %-30s %10.2f\n",
				job.ID,
				job.Date,
				truncate(clientName, 20),
				truncate(job.Description, 30),
				totals.Total,
			)
		}

		fmt.Printf("\nTotal: %d job(s)\n", len(jobs))
		return nil
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a job with its items and totals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		job, err := appInstance.JobService.GetJob(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}

		clientName := "(unknown)"
		if job.Client != nil {
			clientName = job.Client.Name
		}

		fmt.Printf("Job:         %s\n", job.ID)
		fmt.Printf("Client:      %s\n", clientName)
		fmt.Printf("Date:        %s\n", job.Date)
		fmt.Printf("Description: %s\n", job.Description)
		if job.Notes != "" {
			fmt.Printf("Notes:       %s\n", job.Notes)
		}
		fmt.Println()

		printItemSection(job.Items, domain.ItemTypePart, "Parts")
		printItemSection(job.Items, domain.ItemTypeLabour, "Labour")

		totals := service.ComputeTotals(job.Items)
		fmt.Printf("Parts total:  %10.2f\n", totals.PartTotal)
		fmt.Printf("Labour total: %10.2f\n", totals.LabourTotal)
		fmt.Printf("Job total:    %10.2f\n", totals.Total)
		return nil
	},
}

func printItemSection(items []*domain.JobItem, itemType domain.ItemType, heading string) {
	var rows []*domain.JobItem
	for _, item := range items {
		if item.ItemType == itemType {
			rows = append(rows, item)
		}
	}
	if len(rows) == 0 {
		return
	}

	fmt.Printf("%s:\n", heading)
	for _, item := range rows {
		fmt.Printf("  %-30s x%-4d @ %-8s = %10.2f\n",
			truncate(item.Name, 30),
			item.Quantity,
			item.UnitPrice,
			item.Amount(),
		)
	}
	fmt.Println()
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a job and its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		job, err := appInstance.JobService.GetJob(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get job: %w", err)
		}

		if !confirmPrompt(fmt.Sprintf("Delete job %q and its %d item(s)?", job.Description, len(job.Items))) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.JobService.DeleteJob(ctx, job.ID); err != nil {
			return fmt.Errorf("failed to delete job: %w", err)
		}

		fmt.Println("✓ Job deleted")
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	jobsCmd.AddCommand(jobsDeleteCmd)

	jobsListCmd.Flags().String("client", "", "Only list jobs for this client ID")
}
