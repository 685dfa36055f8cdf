package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/matzehuels/panelgrid/pkg/templates"
)

// templatesCommand creates the templates command group.
func (c *CLI) templatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tmpl"},
		Short:   "Browse figure layout templates",
	}

	cmd.AddCommand(c.templatesListCommand())
	cmd.AddCommand(c.templatesShowCommand())

	return cmd
}

func (c *CLI) templatesListCommand() *cobra.Command {
	var f templates.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates, optionally filtered by panel count or category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Panels < 0 {
				return fmt.Errorf("--panels must not be negative")
			}
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			list := reg.List(f)
			w := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(w, StyleDim.Render("No templates match"))
				return nil
			}
			fmt.Fprintln(w, templateTable(list))
			fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("%d templates", len(list))))
			return nil
		},
	}

	cmd.Flags().IntVarP(&f.Panels, "panels", "n", 0, "only templates with this many panels")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "only templates in this category (basic, grid, complex, specialized)")

	return cmd
}

func (c *CLI) templatesShowCommand() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a template and its resolved grid",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeTemplateNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			t, out, err := reg.Parse(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if asYAML {
				data, err := yaml.Marshal(struct {
					Template templates.Template `yaml:"template"`
					Outcome  any                `yaml:"outcome"`
				}{t, out})
				if err != nil {
					return err
				}
				_, err = w.Write(data)
				return err
			}

			fmt.Fprintln(w, StyleTitle.Render(t.Name))
			writeKeyValue(w, "Code", t.Code)
			writeKeyValue(w, "Panels", fmt.Sprint(t.Panels))
			writeKeyValue(w, "Category", t.Category)
			writeKeyValue(w, "Size", t.Size)
			if t.Description != "" {
				writeKeyValue(w, "About", t.Description)
			}
			if t.Use != "" {
				writeKeyValue(w, "Use", t.Use)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, asciiGrid(out.Grid, 6, 3))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the template and outcome as YAML")

	return cmd
}
