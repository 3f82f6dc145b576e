package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Acurioustractor/act-placemat-sub007/internal/intel"
	"github.com/Acurioustractor/act-placemat-sub007/internal/model"
)

var scoreFlags struct {
	name         string
	email        string
	organization string
	position     string
	location     string
	referredBy   string
}

// scoreCmd scores a single hand-entered contact, useful for checking what
// the analyzer makes of someone before a full run.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single contact from flags and print its profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scoreFlags.name == "" {
			return eris.New("cmd: --name is required")
		}

		vocab := intel.DefaultVocab()
		if cfg.Analyzer.VocabOverlay != "" {
			merged, err := intel.LoadVocabOverlay(vocab, cfg.Analyzer.VocabOverlay)
			if err != nil {
				return err
			}
			vocab = merged
		}

		contact := model.CanonicalContact{
			Source:       model.SourceEmailImport,
			FullName:     scoreFlags.name,
			Email:        scoreFlags.email,
			Organization: scoreFlags.organization,
			Position:     scoreFlags.position,
			Location:     scoreFlags.location,
			ReferredBy:   scoreFlags.referredBy,
		}

		profile := intel.Analyze(vocab, contact, time.Now())
		data, err := json.MarshalIndent(profile, "", "  ")
		if err != nil {
			return eris.Wrap(err, "cmd: marshal profile")
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFlags.name, "name", "", "contact full name (required)")
	scoreCmd.Flags().StringVar(&scoreFlags.email, "email", "", "contact email")
	scoreCmd.Flags().StringVar(&scoreFlags.organization, "org", "", "organisation")
	scoreCmd.Flags().StringVar(&scoreFlags.position, "position", "", "role or title")
	scoreCmd.Flags().StringVar(&scoreFlags.location, "location", "", "location")
	scoreCmd.Flags().StringVar(&scoreFlags.referredBy, "referred-by", "", "provenance note")
	rootCmd.AddCommand(scoreCmd)
}
