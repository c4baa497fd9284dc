package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cadenza/internal/core"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Insert records directly, mainly for seeding and testing",
}

var (
	defOwner     int64
	defTitle     string
	defAmount    string
	defDirection string
	defEvery     string
	defStart     string
	defEnd       string

	oblOwner   int64
	oblName    string
	oblIssuer  string
	oblMasked  string
	oblAmount  string
	oblDue     string
	oblContact string
)

func init() {
	addDefinitionCmd.Flags().Int64Var(&defOwner, "owner", 1, "owner id")
	addDefinitionCmd.Flags().StringVar(&defTitle, "title", "", "transaction title")
	addDefinitionCmd.Flags().StringVar(&defAmount, "amount", "", "amount, e.g. 12.34")
	addDefinitionCmd.Flags().StringVar(&defDirection, "direction", "expense", "income or expense")
	addDefinitionCmd.Flags().StringVar(&defEvery, "every", "monthly", "daily, weekly, monthly or yearly")
	addDefinitionCmd.Flags().StringVar(&defStart, "start", "", "start date YYYY-MM-DD")
	addDefinitionCmd.Flags().StringVar(&defEnd, "end", "", "optional end date YYYY-MM-DD")

	addObligationCmd.Flags().Int64Var(&oblOwner, "owner", 1, "owner id")
	addObligationCmd.Flags().StringVar(&oblName, "name", "", "card name")
	addObligationCmd.Flags().StringVar(&oblIssuer, "issuer", "", "issuer name")
	addObligationCmd.Flags().StringVar(&oblMasked, "masked", "", "masked card number, e.g. **** 1234")
	addObligationCmd.Flags().StringVar(&oblAmount, "amount", "", "due amount, e.g. 250.00")
	addObligationCmd.Flags().StringVar(&oblDue, "due", "", "due date YYYY-MM-DD")
	addObligationCmd.Flags().StringVar(&oblContact, "contact", "", "contact address to notify")

	addCmd.AddCommand(addDefinitionCmd, addObligationCmd)
}

var addDefinitionCmd = &cobra.Command{
	Use:   "definition",
	Short: "Add a recurring transaction definition",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cents, err := core.ParseDecimalToCents(defAmount)
		if err != nil {
			return fmt.Errorf("amount %q: %w", defAmount, err)
		}

		start, err := core.ParseDate(defStart)
		if err != nil {
			return err
		}

		var end core.Date
		if defEnd != "" {
			if end, err = core.ParseDate(defEnd); err != nil {
				return err
			}
		}

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		id, err := repo.CreateDefinition(context.Background(), core.RecurringDefinition{
			OwnerID:   defOwner,
			Title:     defTitle,
			Amount:    core.Money{Cents: cents},
			Direction: core.FlowDirection(defDirection),
			Every:     core.Frequency(defEvery),
			StartDate: start,
			EndDate:   end,
			Active:    true,
		})
		if err != nil {
			return err
		}

		fmt.Printf("definition id=%d\n", id)
		return nil
	},
}

var addObligationCmd = &cobra.Command{
	Use:   "obligation",
	Short: "Add a credit-card obligation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cents, err := core.ParseDecimalToCents(oblAmount)
		if err != nil {
			return fmt.Errorf("amount %q: %w", oblAmount, err)
		}

		due, err := core.ParseDate(oblDue)
		if err != nil {
			return err
		}

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		id, err := repo.CreateObligation(context.Background(), core.CreditObligation{
			OwnerID:        oblOwner,
			Name:           oblName,
			Issuer:         oblIssuer,
			MaskedNumber:   oblMasked,
			Amount:         core.Money{Cents: cents},
			DueDate:        due,
			ContactAddress: oblContact,
		})
		if err != nil {
			return err
		}

		fmt.Printf("obligation id=%d\n", id)
		return nil
	},
}
