package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/document"
	"github.com/matzehuels/ievis/pkg/store"
)

// modelsCommand manages the configured model library.
func (c *CLI) modelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the model library",
		Long: `Manage the model library.

The library is a SQLite file by default or a MongoDB collection when
[store] backend = "mongo" is configured.`,
	}
	cmd.AddCommand(c.modelsListCommand())
	cmd.AddCommand(c.modelsImportCommand())
	cmd.AddCommand(c.modelsGetCommand())
	cmd.AddCommand(c.modelsDeleteCommand())
	cmd.AddCommand(c.modelsPickCommand())
	return cmd
}

func (c *CLI) modelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored models with element counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			models, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if len(models) == 0 {
				printInfo("No models stored")
				printNextStep("Import one", appName+" models import model.json")
				return nil
			}
			fmt.Println(modelTable(models))
			return nil
		},
	}
}

func modelTable(models []store.ModelSummary) string {
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{m.ID, m.Name, orDash(m.Population), fmt.Sprint(m.Elements), fmt.Sprint(m.Relationships), m.Date})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Model", "Population", "Elements", "Rels", "Date").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) modelsImportCommand() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "import [model.json|model.yaml]",
		Short: "Store a document in the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := document.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res, err := document.Parse(doc)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			s, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			stored, err := s.Put(cmd.Context(), id, doc)
			if err != nil {
				return fmt.Errorf("store model: %w", err)
			}
			printSuccess("Imported %s", StyleTitle.Render(doc.Name))
			printKeyValue("id", stored)
			printDrops(res.Dropped)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "store under this id (default: new id)")
	return cmd
}

func (c *CLI) modelsGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Write a stored document to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return document.Write(doc, os.Stdout)
			}
			if err := document.WriteFile(doc, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, .yaml for YAML (default: stdout)")
	return cmd
}

func (c *CLI) modelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Remove a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// modelsPickCommand picks a model interactively and exports it.
func (c *CLI) modelsPickCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose a stored model interactively and export it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options(cmd, c.Config)
			s, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			models, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models: %w", err)
			}
			if len(models) == 0 {
				printInfo("No models stored")
				return nil
			}

			final, err := tea.NewProgram(NewModelListModel(models), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return fmt.Errorf("model picker: %w", err)
			}
			picked := final.(ModelListModel).Selected
			if picked == nil {
				return nil
			}

			doc, err := s.Get(cmd.Context(), picked.ID)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts.Document = doc
			_, err = c.runExport(cmd.Context(), runner, picked.ID, output, opts)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: <id>)")
	flags.bind(cmd, true)
	return cmd
}
