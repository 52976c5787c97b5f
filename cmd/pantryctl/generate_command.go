package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pantry-chef/internal/core/recipe"
	"pantry-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	mode        string
	servings    int
	diet        string
	allergies   []string
	cuisine     string
	extra       string
	query       string
	items       []string
	usePantry   bool
	outputText  bool
	requestPath string
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [query]",
		Short: "Generate a recipe from the pantry or a free-text query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.query = args[0]
			}
			return runGenerate(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.mode, "mode", string(recipe.ModeAutomatic), "Cooking mode (automatic, simple, traditional, meal-prep)")
	flags.IntVar(&opts.servings, "servings", recipe.DefaultServings, "Number of servings")
	flags.StringVar(&opts.diet, "diet", "", "Diet preference (vegan, vegetarian, gluten-free, ...)")
	flags.StringSliceVar(&opts.allergies, "allergy", nil, "Allergen to avoid (repeatable)")
	flags.StringVar(&opts.cuisine, "cuisine", recipe.CuisineAuto, "Cuisine to pin, or auto")
	flags.StringVar(&opts.extra, "extra", "", "Comma-separated extra ingredients")
	flags.StringSliceVar(&opts.items, "item", nil, "Available pantry item id (repeatable)")
	flags.BoolVar(&opts.usePantry, "use-pantry", true, "Include the stored pantry selection")
	flags.BoolVar(&opts.outputText, "text", false, "Print a readable recipe instead of JSON")
	flags.StringVar(&opts.requestPath, "request", "", "Read a generate request from a JSON file (- for stdin); flags override its fields")

	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts *generateOptions) error {
	req, err := buildRequest(cmd, opts)
	if err != nil {
		return err
	}

	services, err := ctx.ensureServices(cmd.Context())
	if err != nil {
		return err
	}

	pantry := make(map[string]bool)
	if opts.usePantry {
		stored, err := services.Pantry.Selection(cmd.Context())
		if err != nil {
			return err
		}
		for id, ok := range stored {
			pantry[id] = ok
		}
	}
	for id, ok := range req.Pantry {
		pantry[id] = ok
	}
	for _, id := range opts.items {
		if id = strings.TrimSpace(id); id != "" {
			pantry[id] = true
		}
	}
	req.Pantry = pantry

	if req.Tab == "" {
		req.Tab = string(recipe.TabPantry)
		if strings.TrimSpace(req.Query) != "" {
			req.Tab = string(recipe.TabQuery)
		}
	}

	result, err := services.Recipe.Generate(cmd.Context(), recipe.NewPreferences(req))
	if err != nil {
		return err
	}

	if opts.outputText {
		return writeRecipeText(cmd, result)
	}
	return writeJSON(cmd, result)
}

// buildRequest 以旗標組出請求；指定 --request 時以檔案為底，只覆寫明確設定的旗標
func buildRequest(cmd *cobra.Command, opts *generateOptions) (recipe.GenerateRequest, error) {
	fromFlags := recipe.GenerateRequest{
		Mode:      opts.mode,
		Servings:  opts.servings,
		Diet:      opts.diet,
		Allergies: opts.allergies,
		Cuisine:   opts.cuisine,
		Extra:     opts.extra,
		Query:     opts.query,
	}
	if opts.requestPath == "" {
		return fromFlags, nil
	}

	req, err := readRequest(cmd, opts.requestPath)
	if err != nil {
		return recipe.GenerateRequest{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("mode") {
		req.Mode = fromFlags.Mode
	}
	if flags.Changed("servings") {
		req.Servings = fromFlags.Servings
	}
	if flags.Changed("diet") {
		req.Diet = fromFlags.Diet
	}
	if flags.Changed("allergy") {
		req.Allergies = fromFlags.Allergies
	}
	if flags.Changed("cuisine") {
		req.Cuisine = fromFlags.Cuisine
	}
	if flags.Changed("extra") {
		req.Extra = fromFlags.Extra
	}
	if strings.TrimSpace(fromFlags.Query) != "" {
		req.Query = fromFlags.Query
		req.Tab = string(recipe.TabQuery)
	}
	return req, nil
}

func readRequest(cmd *cobra.Command, path string) (recipe.GenerateRequest, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return recipe.GenerateRequest{}, fmt.Errorf("failed to open request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req recipe.GenerateRequest
	if err := common.DecodeJSONStrict(r, &req); err != nil {
		return recipe.GenerateRequest{}, fmt.Errorf("invalid request file: %w", err)
	}
	return req, nil
}

func writeRecipeText(cmd *cobra.Command, r *recipe.Recipe) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Title, r.Cuisine)
	fmt.Fprintf(&b, "Servings: %d | Time: %d min\n\n", r.Servings, r.Time)

	b.WriteString("Ingredients:\n")
	for _, line := range recipe.DisplayStrings(r.Ingredients) {
		fmt.Fprintf(&b, "  - %s\n", line)
	}

	b.WriteString("\nSteps:\n")
	for i, step := range r.Steps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
	}

	if len(r.Authentic) > 0 {
		fmt.Fprintf(&b, "\nAuthentic: %s\n", strings.Join(r.Authentic, ", "))
	}
	if r.AllergyNote != nil {
		fmt.Fprintf(&b, "\nAllergy note: %s\n", *r.AllergyNote)
	}

	_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
