package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/notebake/internal/bake"
	"github.com/dgallion1/notebake/internal/pipeline"
	"github.com/dgallion1/notebake/internal/vault"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "notebake [note]",
	Short: "Bake a vault note into a standalone document",
	Long: `Recursively inlines linked and embedded notes into a single
self-contained markdown document.

By default the baked note is written to stdout:

  notebake --vault ~/notes projects/plan.md`,
	Args: cobra.ExactArgs(1),
	RunE: runBake,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Bake every note in the vault into an output directory",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(exportCmd)

	rootCmd.PersistentFlags().String("vault", ".", "Vault root directory")
	rootCmd.PersistentFlags().Bool("links", true, "Bake regular links")
	rootCmd.PersistentFlags().Bool("embeds", true, "Bake embeds")
	rootCmd.PersistentFlags().Bool("in-list", true, "Bake references inside list items")
	rootCmd.PersistentFlags().Bool("keep-hidden", false, "Keep hidden sections in the output")
	rootCmd.PersistentFlags().Bool("file-links", false, "Convert unbakeable targets to file:// links")
	rootCmd.PersistentFlags().Bool("extract-assets", false, "Inline text extracted from txt/csv/html/pdf/docx targets")

	rootCmd.Flags().StringP("subpath", "s", "", "Bake only a heading section (#Heading) or block (#^id)")
	rootCmd.Flags().StringP("out", "o", "", "Write the baked note to a file instead of stdout")

	exportCmd.Flags().String("out-dir", "baked", "Output directory for the baked vault")

	viper.BindPFlag("vault", rootCmd.PersistentFlags().Lookup("vault"))
	viper.BindPFlag("links", rootCmd.PersistentFlags().Lookup("links"))
	viper.BindPFlag("embeds", rootCmd.PersistentFlags().Lookup("embeds"))
	viper.BindPFlag("in_list", rootCmd.PersistentFlags().Lookup("in-list"))
	viper.BindPFlag("keep_hidden", rootCmd.PersistentFlags().Lookup("keep-hidden"))
	viper.BindPFlag("file_links", rootCmd.PersistentFlags().Lookup("file-links"))
	viper.BindPFlag("extract_assets", rootCmd.PersistentFlags().Lookup("extract-assets"))
}

func initConfig() {
	viper.SetConfigName("notebake")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "notebake"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("NOTEBAKE")
	viper.AutomaticEnv()

	// Missing or malformed config files are not fatal; flags and env cover it.
	_ = viper.ReadInConfig()
}

func settings() bake.Settings {
	return bake.Settings{
		BakeHidden:       viper.GetBool("keep_hidden"),
		BakeLinks:        viper.GetBool("links"),
		BakeEmbeds:       viper.GetBool("embeds"),
		BakeInList:       viper.GetBool("in_list"),
		ConvertFileLinks: viper.GetBool("file_links"),
	}
}

func openVault() (*vault.Vault, error) {
	return vault.Open(viper.GetString("vault"), vault.Options{
		ExtractAssets:     viper.GetBool("extract_assets"),
		FallbackPdftotext: true,
	})
}

func runBake(cmd *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}

	note := args[0]
	doc, ok := v.Lookup(note)
	if !ok {
		if resolved := v.Resolve(note, nil); resolved != nil {
			doc, _ = resolved.(*vault.File)
		}
	}
	if doc == nil {
		return fmt.Errorf("note not found: %s", note)
	}

	subpath, _ := cmd.Flags().GetString("subpath")
	baked, err := bake.Bake(cmd.Context(), v, doc, subpath, settings())
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		return os.WriteFile(out, []byte(baked), 0o644)
	}
	fmt.Print(baked)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	v, err := openVault()
	if err != nil {
		return err
	}

	notes, err := v.Notes()
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return fmt.Errorf("no notes found in %s", v.Root())
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var failed int
	baked := pipeline.ExportNotes(cmd.Context(), v, notes, outDir, settings(), func(note string, err error) {
		failed++
		log.Warn("note failed", "note", note, "error", err)
	}, nil)

	fmt.Fprintf(os.Stderr, "baked %d/%d notes into %s\n", baked, len(notes), outDir)
	if failed > 0 {
		return fmt.Errorf("%d notes failed", failed)
	}
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
