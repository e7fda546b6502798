package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/ledger-flow/internal/cli"
	"github.com/Veraticus/ledger-flow/internal/common"
	"github.com/Veraticus/ledger-flow/internal/ledger"
	"github.com/Veraticus/ledger-flow/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage transaction categories",
		Long:    `List, add and delete the categories used to classify transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var catType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			cats, err := s.ledger.GetCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			rows := make([][]string, 0, len(cats))
			for _, c := range cats {
				if catType != "" && c.Type != model.CategoryType(catType) {
					continue
				}
				origin := "built-in"
				if c.IsCustom {
					origin = "custom"
				}
				rows = append(rows, []string{c.ID, c.Label, string(c.Type), origin})
			}

			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No categories found."))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"ID", "Label", "Type", "Origin"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&catType, "type", "", "Only list income, expense or both")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		catType string
		color   string
		icon    string
	)

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			item, err := s.ledger.AddCategory(cmd.Context(), model.CategoryItem{
				Label:    args[0],
				Type:     model.CategoryType(catType),
				Color:    color,
				IconName: icon,
			})
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %q (ID: %s)", item.Label, item.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&catType, "type", string(model.CategoryTypeExpense), "Category type (income, expense, both)")
	cmd.Flags().StringVar(&color, "color", "#4b5563", "Display color")
	cmd.Flags().StringVar(&icon, "icon", "", "Icon name")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|label>",
		Short: "Delete a custom category",
		Long: `Delete a custom category. Its transactions move to "other" and budgets stop
counting it. Built-in categories cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			id, err := resolveCategory(ctx, s.ledger, args[0])
			if err != nil {
				return err
			}

			if err := s.ledger.DeleteCategory(ctx, id); err != nil {
				if errors.Is(err, ledger.ErrBuiltinCategory) {
					return common.NewUserError(fmt.Sprintf("%q is a built-in category", id), err)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted category %s", id)))
			return nil
		},
	}
}
