package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/foxzi/campaignmock/internal/client"
	"github.com/foxzi/campaignmock/internal/config"
)

var (
	apiURL   string
	apiToken string

	listAutomation string
	listOrderSend  string
	listOrderLast  string
	listLimit      int
	listOffset     int
	listAll        bool
)

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Query a running mock server",
}

var campaignsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List campaigns",
	RunE:  runCampaignsList,
}

var campaignsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a campaign",
	Args:  cobra.ExactArgs(1),
	RunE:  runCampaignsGet,
}

func init() {
	defaultToken := os.Getenv("MOCK_API_TOKEN")
	if defaultToken == "" {
		defaultToken = config.DefaultToken
	}

	campaignsCmd.PersistentFlags().StringVar(&apiURL, "url", "http://localhost:3100", "API base URL")
	campaignsCmd.PersistentFlags().StringVar(&apiToken, "token", defaultToken, "Api-Token header value")

	campaignsListCmd.Flags().StringVar(&listAutomation, "automation", "", "filter by automation membership (true|false)")
	campaignsListCmd.Flags().StringVar(&listOrderSend, "order-sdate", "", "sort by send date (asc|desc)")
	campaignsListCmd.Flags().StringVar(&listOrderLast, "order-ldate", "", "sort by last send date (asc|desc)")
	campaignsListCmd.Flags().IntVar(&listLimit, "limit", 0, "page size")
	campaignsListCmd.Flags().IntVar(&listOffset, "offset", 0, "page offset")
	campaignsListCmd.Flags().BoolVar(&listAll, "all", false, "fetch every page")

	campaignsCmd.AddCommand(campaignsListCmd, campaignsGetCmd)
}

func runCampaignsList(cmd *cobra.Command, args []string) error {
	opts := client.ListOptions{
		OrderBySendDate:     listOrderSend,
		OrderByLastSendDate: listOrderLast,
		Limit:               listLimit,
		Offset:              listOffset,
	}
	if listAutomation != "" {
		automation, err := strconv.ParseBool(listAutomation)
		if err != nil {
			return fmt.Errorf("invalid --automation value: %q", listAutomation)
		}
		opts.Automation = &automation
	}

	c := client.NewClient(apiURL, apiToken)

	var result any
	if listAll {
		all, err := c.AllCampaigns(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to list campaigns: %w", err)
		}
		result = all
	} else {
		page, err := c.ListCampaigns(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to list campaigns: %w", err)
		}
		result = page
	}

	return printJSON(cmd, result)
}

func runCampaignsGet(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid campaign id: %q", args[0])
	}

	campaign, err := client.NewClient(apiURL, apiToken).GetCampaign(cmd.Context(), id)
	if err != nil {
		return err
	}
	return printJSON(cmd, campaign)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
