package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/SThor/spendform/pkg/config"
	"github.com/SThor/spendform/pkg/feed"
	"github.com/SThor/spendform/pkg/form"
	"github.com/SThor/spendform/pkg/geo"
	"github.com/SThor/spendform/pkg/models"
	"github.com/SThor/spendform/pkg/suggest"
)

var (
	cfgFile      string
	fixturesPath string
	latFlag      string
	lngFlag      string
	debugFlag    bool
)

var (
	groupStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	itemStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	muteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var rootCmd = &cobra.Command{
	Use:   "spendform",
	Short: "Suggestion engine for the YNAB + SettleUp expense form",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var payeesCmd = &cobra.Command{
	Use:   "payees",
	Short: "Show grouped payee suggestions, proximity-ranked with --lat/--lng",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		_, ds, err := load(cmd, logger)
		if err != nil {
			return err
		}

		groups := suggest.GroupForAutocomplete(ds.Payees, ds.Locations, position())
		if debugFlag {
			pp.Println(groups)
			return nil
		}
		for _, group := range groups {
			fmt.Println(groupStyle.Render(group.Label))
			for _, item := range group.Items {
				fmt.Println(itemStyle.Render("  "+item.Label) + muteStyle.Render("  "+item.Value))
			}
		}
		return nil
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Show the category groups available for selection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()
		_, ds, err := load(cmd, logger)
		if err != nil {
			return err
		}

		_, grouped := suggest.Flatten(ds.CategoryGroups)
		if debugFlag {
			pp.Println(grouped)
			return nil
		}
		for _, group := range grouped {
			fmt.Println(groupStyle.Render(group.Label))
			for _, item := range group.Items {
				fmt.Println(itemStyle.Render("  " + item.Label))
			}
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <payee-id>",
	Short: "Suggest categories from the payee's transaction history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, ds, err := load(cmd, logger)
		if err != nil {
			return err
		}

		payeeID := args[0]
		history := ds.PayeeHistory[payeeID]
		if len(history) == 0 && fixturesPath == "" {
			history, err = feed.PayeeHistory(cfg, payeeID)
			if err != nil {
				return err
			}
		}

		flat, _ := suggest.Flatten(ds.CategoryGroups)
		labels := make(map[string]string, len(flat))
		for _, cat := range flat {
			labels[cat.ID] = cat.Name
		}

		suggested := suggest.ByPayeeHistory(history)
		if len(suggested) == 0 {
			fmt.Println(muteStyle.Render("no suggestions"))
			return nil
		}
		for _, categoryID := range suggested {
			label := labels[categoryID]
			if label == "" {
				label = categoryID
			}
			fmt.Println(itemStyle.Render(label))
		}
		return nil
	},
}

var formCmd = &cobra.Command{
	Use:   "form <event>...",
	Short: "Apply form events in order and show the resulting state",
	Long: `Apply form events in order and show the resulting state.

Each event is key=value:
  amount=<milliunits>        set the expense amount
  payee=<text>               select a payee (id resolved by exact name)
  category=<text>            select a category (id resolved by name or id)
  settleup=<symbol>          set the SettleUp category symbol
  target=<ynab|settleup>     toggle a submission target
  account=<bourso|swile>     toggle a funding account
  swile-amount=<milliunits>  set the Swile-paid amount`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, ds, err := load(cmd, logger)
		if err != nil {
			return err
		}

		controller := form.NewController(logger, form.Defaults{
			CategorySymbol:   cfg.Form.DefaultCategorySymbol,
			SwileAmountMilli: cfg.Form.DefaultSwileAmount,
		}, ds.GroupTransactions, cfg.Form.AutofillDelay())
		defer controller.Close()

		sawPayee := false
		for _, spec := range args {
			applied, err := applyFormEvent(controller, ds, spec)
			if err != nil {
				return err
			}
			sawPayee = sawPayee || applied == "payee"
		}
		if sawPayee {
			// Let the debounced autofill land before reading the state.
			time.Sleep(cfg.Form.AutofillDelay() + 50*time.Millisecond)
		}

		state := controller.State()
		if debugFlag {
			pp.Println(state)
			pp.Println(state.Sections())
			return nil
		}
		printFormState(state)
		return nil
	},
}

var autofillCmd = &cobra.Command{
	Use:   "autofill <query>",
	Short: "Find the most common SettleUp category for a purpose text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		_, ds, err := load(cmd, logger)
		if err != nil {
			return err
		}

		mode, _ := cmd.Flags().GetString("mode")
		category, found := suggest.MostCommonCategory(ds.GroupTransactions, args[0], suggest.MatchMode(mode))
		if !found {
			fmt.Println(muteStyle.Render("no match"))
			return nil
		}
		fmt.Println(category)
		return nil
	},
}

// applyFormEvent parses one key=value event spec and applies it to the
// controller, resolving payee and category ids against the dataset. It
// returns the event key it applied.
func applyFormEvent(controller *form.Controller, ds models.Dataset, spec string) (string, error) {
	key, value, ok := strings.Cut(spec, "=")
	if !ok {
		return "", fmt.Errorf("malformed event %q, want key=value", spec)
	}

	switch key {
	case "amount":
		milli, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid amount %q: %w", value, err)
		}
		controller.SetAmount(milli)
	case "swile-amount":
		milli, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid swile amount %q: %w", value, err)
		}
		controller.SetSwileAmount(milli)
	case "payee":
		controller.SelectPayee(value, findPayeeItem(ds.Payees, value))
	case "category":
		controller.SelectCategory(value, findCategoryItem(ds.CategoryGroups, value))
	case "settleup":
		controller.SetSettleUpCategory(value)
	case "target":
		controller.ToggleTarget(value)
	case "account":
		controller.ToggleAccount(value)
	default:
		return "", fmt.Errorf("unknown event %q", key)
	}
	return key, nil
}

// findPayeeItem resolves a payee text to its autocomplete item by exact
// case-insensitive name. Free text that matches no payee stays unresolved,
// the same way the form treats it.
func findPayeeItem(payees []models.Payee, text string) *models.SuggestionItem {
	for _, p := range payees {
		if strings.EqualFold(p.Name, text) {
			return &models.SuggestionItem{Value: p.ID, Label: p.Name}
		}
	}
	return nil
}

// findCategoryItem resolves a category text by name or id against the flat
// category list.
func findCategoryItem(groups []models.CategoryGroup, text string) *models.SuggestionItem {
	flat, _ := suggest.Flatten(groups)
	for _, cat := range flat {
		if cat.ID == text || strings.EqualFold(cat.Name, text) {
			return &models.SuggestionItem{Value: cat.ID, Label: cat.Name}
		}
	}
	return nil
}

func printFormState(state form.State) {
	enabled := func(m map[string]bool) string {
		names := make([]string, 0, len(m))
		for name, on := range m {
			if on {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		if len(names) == 0 {
			return "none"
		}
		return strings.Join(names, ", ")
	}

	fmt.Println(groupStyle.Render("Form"))
	fmt.Println(itemStyle.Render(fmt.Sprintf("  amount      %d", state.AmountMilli)))
	fmt.Println(itemStyle.Render("  payee       "+state.PayeeText) + muteStyle.Render("  "+state.PayeeID))
	fmt.Println(itemStyle.Render("  category    "+state.CategoryText) + muteStyle.Render("  "+state.CategoryID))
	fmt.Println(itemStyle.Render("  settleup    " + state.SettleUpCategory))
	fmt.Println(itemStyle.Render("  targets     " + enabled(state.Targets)))
	fmt.Println(itemStyle.Render("  accounts    " + enabled(state.Accounts)))
	fmt.Println(itemStyle.Render(fmt.Sprintf("  swile       %d", state.SwileAmountMilli)))

	sections := state.Sections()
	fmt.Println(groupStyle.Render("Sections"))
	fmt.Println(itemStyle.Render(fmt.Sprintf("  accounts    %t", sections.Accounts)))
	fmt.Println(itemStyle.Render(fmt.Sprintf("  details     %t", sections.Details)))
	fmt.Println(itemStyle.Render(fmt.Sprintf("  swile       %t", sections.SwileAmount)))
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if debugFlag {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "spendform",
		Level:           level,
	})
}

func load(cmd *cobra.Command, logger *log.Logger) (*config.Config, models.Dataset, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, models.Dataset{}, err
	}
	ds, err := feed.Load(logger, cfg, fixturesPath)
	return cfg, ds, err
}

func position() *geo.Coordinate {
	if latFlag == "" && lngFlag == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latFlag, 64)
	lng, errLng := strconv.ParseFloat(lngFlag, 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	return &geo.Coordinate{Lat: lat, Lng: lng}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&fixturesPath, "fixtures", "", "Fixtures file to use instead of live APIs")
	rootCmd.PersistentFlags().StringVar(&latFlag, "lat", "", "User latitude for proximity ranking")
	rootCmd.PersistentFlags().StringVar(&lngFlag, "lng", "", "User longitude for proximity ranking")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Dump raw structures instead of styled output")

	autofillCmd.Flags().String("mode", string(suggest.MatchContains), "Match mode: contains, startsWith or exact")

	rootCmd.AddCommand(payeesCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(autofillCmd)
	rootCmd.AddCommand(formCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
