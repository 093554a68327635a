// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/sentiment-engine/internal/store"
	"github.com/pdiddy/sentiment-engine/pkg/types"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Import and inspect the scored record history",
	Long: `Records manages the historical fact table the trend detectors run over.
Use import to load scored records from a JSON or YAML file, and list to
inspect what is stored.`,
}

var recordsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import scored records from a JSON or YAML file",
	RunE:  runRecordsImport,
}

func runRecordsImport(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	if inputPath == "" {
		return fmt.Errorf("--input is required")
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	var records []types.ScoredRecord
	if strings.HasSuffix(inputPath, ".yaml") || strings.HasSuffix(inputPath, ".yml") {
		err = yaml.Unmarshal(data, &records)
	} else {
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return fmt.Errorf("parsing records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s", inputPath)
	}

	st, err := store.Open(loadConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.ImportRecords(context.Background(), records)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d records\n", n)
	return nil
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records",
	RunE:  runRecordsList,
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	sinceDays, _ := cmd.Flags().GetInt("since-days")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := store.Open(loadConfig().Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var since time.Time
	if sinceDays > 0 {
		since = time.Now().AddDate(0, 0, -sinceDays)
	}
	records, err := st.Records(context.Background(), since)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No records found.")
		return nil
	}
	fmt.Printf("%-25s  %-25s  %6s  %-10s  %s\n", "Timestamp", "Topic", "Score", "Source", "Group")
	fmt.Println(strings.Repeat("-", 90))
	for _, rec := range records {
		topic := rec.Topic
		if len(topic) > 25 {
			topic = topic[:22] + "..."
		}
		fmt.Printf("%-25s  %-25s  %6.2f  %-10s  %s\n",
			rec.Timestamp.Format(time.RFC3339), topic, rec.Score, rec.Source, rec.DemographicGroup())
	}
	fmt.Printf("\n%d records\n", len(records))
	return nil
}

func init() {
	recordsImportCmd.Flags().String("input", "", "records file (.json, .yaml)")

	recordsListCmd.Flags().Int("since-days", 0, "only records from the last N days (0 = all)")
	recordsListCmd.Flags().Bool("json", false, "output records as JSON")

	recordsCmd.AddCommand(recordsImportCmd)
	recordsCmd.AddCommand(recordsListCmd)

	rootCmd.AddCommand(recordsCmd)
}
