package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxzi/campaignmock/internal/api"
	"github.com/foxzi/campaignmock/internal/campaign"
)

var (
	generateSeed      int64
	generateCount     int
	generateReference string
	generatePretty    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the generated campaign corpus as JSON",
	Long: `Generate the campaign corpus without starting a server and print it in
the same wire format the API serves. Flags override the generator section of
the config file.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "generator seed (default from config)")
	generateCmd.Flags().IntVar(&generateCount, "count", 0, "number of campaigns (default from config)")
	generateCmd.Flags().StringVar(&generateReference, "reference-date", "", "reference date, RFC 3339 (default from config)")
	generateCmd.Flags().BoolVar(&generatePretty, "pretty", true, "indent output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gen := cfg.Generator
	if cmd.Flags().Changed("seed") {
		if generateSeed == 0 {
			return fmt.Errorf("seed must not be 0")
		}
		gen.Seed = generateSeed
	}
	if cmd.Flags().Changed("count") {
		gen.Count = generateCount
	}
	if generateReference != "" {
		ref, err := time.Parse(time.RFC3339, generateReference)
		if err != nil {
			return fmt.Errorf("invalid reference date: %w", err)
		}
		gen.ReferenceDate = ref.UTC()
	}

	corpus, err := campaign.Build(gen.Seed, gen.ReferenceDate, gen.Count)
	if err != nil {
		return fmt.Errorf("failed to build corpus: %w", err)
	}

	return writeCorpus(cmd.OutOrStdout(), corpus, generatePretty)
}

func writeCorpus(w io.Writer, corpus *campaign.Corpus, pretty bool) error {
	all := corpus.All()
	out := struct {
		Campaigns []api.CampaignResource `json:"campaigns"`
	}{Campaigns: make([]api.CampaignResource, len(all))}
	for i, c := range all {
		out.Campaigns[i] = api.NewCampaignResource(c)
	}

	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}
