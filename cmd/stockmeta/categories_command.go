package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stockmeta/internal/metadata"
)

func newCategoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "categories",
		Short:       "List the stock category table",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			categories := metadata.Categories()
			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				rows = append(rows, []string{strconv.Itoa(c.ID), c.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				Headers: []string{"ID", "Category"},
				Rows:    rows,
				Aligns:  []columnAlignment{alignRight, alignLeft},
			}))
			return nil
		},
	}
}
