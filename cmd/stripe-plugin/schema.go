package main

import (
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
)

type schemaOutput struct {
	Code         string                            `json:"code"`
	Args         []stripeapp.ArgDefinition         `json:"args"`
	CustomFields []stripeapp.CustomFieldDefinition `json:"customFields"`
	EventTypes   []string                          `json:"eventTypes"`
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the payment method args schema and custom fields as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := go_json.MarshalIndent(schemaOutput{
				Code:         config.PaymentMethodCode,
				Args:         stripeapp.ArgDefinitions(),
				CustomFields: stripeapp.CustomerFields(),
				EventTypes:   stripeapp.SupportedEventTypes(),
			}, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}
