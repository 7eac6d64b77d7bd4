package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	config "github.com/tbeaudouin05/stripe-plugin/api/config"
	database "github.com/tbeaudouin05/stripe-plugin/api/database"
	stripeapp "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/app"
	stripedb "github.com/tbeaudouin05/stripe-plugin/api/services/stripe/db"
)

func configureCmd() *cobra.Command {
	var pairs []string
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Create or update the stripe payment method's config args",
		Example: "  stripe-plugin configure --arg stripeTestMode=true --arg testSecretKey=sk_test_...\n" +
			"  stripe-plugin configure --arg enableStripeWebhooks=true --arg testWebhookSecretKey=whsec_...",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := parseArgFlags(pairs)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			conn, err := database.Open(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() {
				_ = conn.Close()
			}()

			if err := stripedb.New(conn).SavePaymentMethodArgs(cmd.Context(), config.PaymentMethodCode, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d args for payment method %q\n", len(args), config.PaymentMethodCode)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pairs, "arg", nil, "config arg as name=value (repeatable)")
	_ = cmd.MarkFlagRequired("arg")
	return cmd
}

// parseArgFlags turns name=value pairs into config args, rejecting names the
// payment method does not define and booleans that do not parse.
func parseArgFlags(pairs []string) ([]stripeapp.ConfigArg, error) {
	defs := stripeapp.ArgDefinitions()
	args := make([]stripeapp.ConfigArg, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q: want name=value", p)
		}
		if !slices.ContainsFunc(defs, func(d stripeapp.ArgDefinition) bool { return d.Name == name }) {
			return nil, fmt.Errorf("unknown arg %q", name)
		}
		args = append(args, stripeapp.ConfigArg{Name: name, Value: value})
	}
	if _, err := stripeapp.ParseArgs(args); err != nil {
		return nil, err
	}
	return args, nil
}
